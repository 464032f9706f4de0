package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractTerminated ContractStatus = "terminated"
	ContractRenewed    ContractStatus = "renewed"
)

// ValidTransition checks if a contract state transition is allowed.
// All transitions leave active; expired, terminated and renewed are terminal.
func (s ContractStatus) ValidTransition(to ContractStatus) bool {
	if s != ContractActive {
		return false
	}
	switch to {
	case ContractExpired, ContractTerminated, ContractRenewed:
		return true
	default:
		return false
	}
}

type Contract struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	LandlordID    uuid.UUID
	PropertyID    uuid.UUID
	ApplicationID uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	RentAmount    int64 // minor currency units
	DepositAmount int64 // minor currency units
	PaymentDay    int   // 1-31, clamped to month length when billing
	Terms         string
	Status        ContractStatus
	// ExpiryNotifiedAt records when the expiry-notice scheduler last
	// notified for this contract; nil when never notified.
	ExpiryNotifiedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ContractRepository interface {
	// CreateWithDeposit atomically inserts the contract, marks the property
	// occupied and inserts the initial deposit payment. The property must
	// still be available; otherwise ErrInvalidState.
	CreateWithDeposit(ctx context.Context, c *Contract, deposit *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Contract, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*Contract, error)
	ListActive(ctx context.Context) ([]*Contract, error)
	// ListExpiring returns active contracts whose end date falls in [now, until).
	ListExpiring(ctx context.Context, now, until time.Time) ([]*Contract, error)
	// Terminate atomically moves the contract from active to terminated and
	// resets the property to available. Outstanding payments are untouched.
	Terminate(ctx context.Context, id uuid.UUID) error
	// Renew atomically marks the old contract renewed and inserts its successor.
	Renew(ctx context.Context, oldID uuid.UUID, successor *Contract) error
	// UpdateStatusIf transitions status only when the current status still matches from.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to ContractStatus) error
	// MarkExpiryNotified stamps the expiry-notice timestamp used by the
	// scheduler's repeat policy.
	MarkExpiryNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}
