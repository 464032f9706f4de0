package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ValidTransition checks if a payment state transition is allowed through
// the tenant-facing flow. pending->paid (confirm), pending->overdue
// (scheduler sweep), overdue->paid (late confirm). failed and refunded are
// reachable only through the administrative override or a gateway callback.
func (s PaymentStatus) ValidTransition(to PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return to == PaymentPaid || to == PaymentOverdue
	case PaymentOverdue:
		return to == PaymentPaid
	default:
		return false
	}
}

type PaymentType string

const (
	PaymentTypeRent        PaymentType = "rent"
	PaymentTypeDeposit     PaymentType = "deposit"
	PaymentTypeMaintenance PaymentType = "maintenance"
	PaymentTypeLateFee     PaymentType = "late_fee"
	PaymentTypeOther       PaymentType = "other"
)

type Payment struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	LandlordID uuid.UUID
	PropertyID uuid.UUID
	ContractID uuid.UUID
	Amount     int64 // minor currency units
	Type       PaymentType
	Month      string // "YYYY-MM" billing period key
	DueDate    time.Time
	PaidDate   *time.Time
	Status     PaymentStatus
	Method     string // "card", "bank_transfer", ... recorded on confirmation
	IntentID   string // gateway charge-intent identifier
	TxID       string // gateway transaction identifier
	Notes      string
	// LastRemindedAt records when the rent-reminder scheduler last notified
	// for this payment; nil when never reminded.
	LastRemindedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MonthKey formats t's year and month as the "YYYY-MM" billing period key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// RentDueDate builds the due date for a billing period from the contract's
// payment day. Days past the month's length clamp to the last day of that
// month, so a contract with payment day 31 bills on Feb 28 (29 in leap years).
func RentDueDate(year int, month time.Month, paymentDay int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	day := paymentDay
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

type PaymentRepository interface {
	// Create inserts the payment. For type=rent, returns ErrConflict when a
	// rent payment already exists for (contract, month) — enforced by a
	// partial unique index, which makes monthly generation idempotent.
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Payment, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*Payment, error)
	// ListDueWithin returns pending payments with a due date in [now, until).
	ListDueWithin(ctx context.Context, now, until time.Time) ([]*Payment, error)
	// MarkPaid records a confirmed payment: status paid, paid date, gateway
	// transaction id and method. Only pending or overdue payments qualify;
	// anything else is ErrInvalidState.
	MarkPaid(ctx context.Context, id uuid.UUID, txID, method string, paidAt time.Time) error
	// SetIntent stores the gateway charge-intent identifier.
	SetIntent(ctx context.Context, id uuid.UUID, intentID string) error
	// SetStatus is the administrative override: any status, any time. When
	// moving into paid without a paid date it stamps paidAt.
	SetStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, notes string, paidAt time.Time) error
	// SweepOverdue bulk-updates every pending payment with a due date before
	// now to overdue and returns exactly the transitioned rows.
	SweepOverdue(ctx context.Context, now time.Time) ([]*Payment, error)
	// MarkReminded stamps the rent-reminder timestamp used by the
	// scheduler's repeat policy.
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}
