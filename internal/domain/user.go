package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role values understood by the platform.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"` // argon2id
	Name         string
	Phone        string
	Role         string // "tenant", "landlord", or "admin"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor identifies the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, role string) ([]*User, error)
}
