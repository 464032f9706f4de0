package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityOccupied    Availability = "occupied"
	AvailabilityMaintenance Availability = "maintenance"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Property struct {
	ID             uuid.UUID
	LandlordID     uuid.UUID
	Title          string
	Description    string
	Address        string
	City           string
	RentAmount     int64 // minor currency units
	DepositAmount  int64 // minor currency units
	Bedrooms       int
	Bathrooms      int
	ImageURLs      []string // opaque object-storage references
	Availability   Availability
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PropertyFilter narrows property listings. Zero values mean "no filter".
type PropertyFilter struct {
	City         string
	MinRent      int64
	MaxRent      int64
	MinBedrooms  int
	Availability Availability
	Approval     ApprovalStatus
	LandlordID   uuid.UUID
}

type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetApproval is the admin gate on listing visibility.
	SetApproval(ctx context.Context, id uuid.UUID, status ApprovalStatus) error
	// SetAvailability flips the occupancy flag unconditionally (maintenance etc.).
	SetAvailability(ctx context.Context, id uuid.UUID, availability Availability) error
}
