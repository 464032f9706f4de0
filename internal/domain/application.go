package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// ValidTransition checks if an application state transition is allowed.
// Allowed: pending->approved, pending->rejected, pending->withdrawn.
// rejected and withdrawn are terminal; approved only leads onward to a
// contract, never to another application status.
func (s ApplicationStatus) ValidTransition(to ApplicationStatus) bool {
	if s != ApplicationPending {
		return false
	}
	switch to {
	case ApplicationApproved, ApplicationRejected, ApplicationWithdrawn:
		return true
	default:
		return false
	}
}

// Active reports whether the application counts toward the one-active-
// application-per-(tenant, property) constraint.
func (s ApplicationStatus) Active() bool {
	return s == ApplicationPending || s == ApplicationApproved
}

type Application struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	PropertyID      uuid.UUID
	LandlordID      uuid.UUID // denormalized from the property
	Message         string
	MoveInDate      time.Time
	Status          ApplicationStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ApplicationRepository interface {
	// Create inserts the application. Returns ErrConflict when the tenant
	// already holds a pending or approved application for the property
	// (enforced by a partial unique index).
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Application, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*Application, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Application, error)
	// UpdateStatusIf transitions status only when the current status still
	// matches from. Returns ErrInvalidState when the row exists with a
	// different status, ErrNotFound when it does not exist.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to ApplicationStatus, rejectionReason string) error
}
