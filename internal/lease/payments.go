package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/notify"
)

// CreatePaymentParams describes an ad-hoc charge against a contract.
type CreatePaymentParams struct {
	ContractID uuid.UUID
	Amount     int64
	Type       domain.PaymentType
	DueDate    time.Time
	Notes      string
}

// CreatePayment raises an ad-hoc charge (maintenance, late fee, ...) against
// a contract. Recurring rent is generated by the scheduler, not here.
func (s *Service) CreatePayment(ctx context.Context, actor domain.Actor, params CreatePaymentParams) (*domain.Payment, error) {
	if params.Amount < 0 {
		return nil, fmt.Errorf("lease.CreatePayment: amount must be non-negative: %w", domain.ErrValidation)
	}
	if params.DueDate.IsZero() {
		return nil, fmt.Errorf("lease.CreatePayment: due date required: %w", domain.ErrValidation)
	}
	switch params.Type {
	case domain.PaymentTypeRent, domain.PaymentTypeDeposit, domain.PaymentTypeMaintenance,
		domain.PaymentTypeLateFee, domain.PaymentTypeOther:
	default:
		return nil, fmt.Errorf("lease.CreatePayment: unknown type %q: %w", params.Type, domain.ErrValidation)
	}

	c, err := s.store.Contracts().GetByID(ctx, params.ContractID)
	if err != nil {
		return nil, fmt.Errorf("lease.CreatePayment: %w", err)
	}
	if err := canManageContract(actor, c.LandlordID); err != nil {
		return nil, fmt.Errorf("lease.CreatePayment: %w", err)
	}

	now := s.now()
	p := &domain.Payment{
		ID:         uuid.New(),
		TenantID:   c.TenantID,
		LandlordID: c.LandlordID,
		PropertyID: c.PropertyID,
		ContractID: c.ID,
		Amount:     params.Amount,
		Type:       params.Type,
		Month:      domain.MonthKey(params.DueDate),
		DueDate:    params.DueDate,
		Status:     domain.PaymentPending,
		Notes:      params.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Payments().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("lease.CreatePayment: %w", err)
	}

	s.sink.Notify(ctx, notify.Event{
		UserID:  p.TenantID,
		Type:    domain.NotifyPaymentDue,
		Title:   "New payment due",
		Message: fmt.Sprintf("A %s charge is due on %s.", p.Type, p.DueDate.Format("2006-01-02")),
		Link:    "/payments/" + p.ID.String(),
		Metadata: map[string]any{
			"payment_id":  p.ID.String(),
			"contract_id": p.ContractID.String(),
		},
		Email: true,
	})

	return p, nil
}

// ProcessPayment starts the tenant's payment of an owed record: it asks the
// gateway for a charge intent and stores the intent id. The payment is not
// marked paid here — that happens in ConfirmPayment once the gateway reports
// completion.
func (s *Service) ProcessPayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*gateway.Intent, error) {
	p, err := s.store.Payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("lease.ProcessPayment: %w", err)
	}
	if err := canPayPayment(actor, p); err != nil {
		return nil, fmt.Errorf("lease.ProcessPayment: %w", err)
	}
	if p.Status == domain.PaymentPaid {
		return nil, fmt.Errorf("lease.ProcessPayment: already paid: %w", domain.ErrInvalidState)
	}

	intent, err := s.gateway.CreateChargeIntent(ctx, p.Amount, s.currency, map[string]string{
		"payment_id":  p.ID.String(),
		"contract_id": p.ContractID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("lease.ProcessPayment: %w", err)
	}

	if err := s.store.Payments().SetIntent(ctx, p.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("lease.ProcessPayment: %w", err)
	}

	return intent, nil
}

// ConfirmPayment is the only path that marks a payment paid in the
// tenant-facing flow. It is intended to be called after gateway confirmation
// (webhook or client completion callback); confirming an already-paid payment
// fails with ErrInvalidState.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID uuid.UUID, txID, method string) (*domain.Payment, error) {
	if txID == "" {
		return nil, fmt.Errorf("lease.ConfirmPayment: transaction id required: %w", domain.ErrValidation)
	}

	p, err := s.store.Payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("lease.ConfirmPayment: %w", err)
	}

	paidAt := s.now()
	if err := s.store.Payments().MarkPaid(ctx, p.ID, txID, method, paidAt); err != nil {
		return nil, fmt.Errorf("lease.ConfirmPayment: %w", err)
	}

	p.Status = domain.PaymentPaid
	p.PaidDate = &paidAt
	p.TxID = txID
	p.Method = method

	s.sink.Notify(ctx, notify.Event{
		UserID:  p.LandlordID,
		Type:    domain.NotifyPaymentReceived,
		Title:   "Payment received",
		Message: fmt.Sprintf("A %s payment for period %s was received.", p.Type, p.Month),
		Link:    "/payments/" + p.ID.String(),
		Metadata: map[string]any{
			"payment_id":  p.ID.String(),
			"contract_id": p.ContractID.String(),
		},
	})

	return p, nil
}

// UpdatePaymentStatus is the administrative override: an admin may force any
// status (refunds, gateway failures). Entering paid without a paid date
// stamps one.
func (s *Service) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, status domain.PaymentStatus, notes string) (*domain.Payment, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("lease.UpdatePaymentStatus: %w", err)
	}
	switch status {
	case domain.PaymentPending, domain.PaymentPaid, domain.PaymentOverdue,
		domain.PaymentFailed, domain.PaymentRefunded:
	default:
		return nil, fmt.Errorf("lease.UpdatePaymentStatus: unknown status %q: %w", status, domain.ErrValidation)
	}

	if err := s.store.Payments().SetStatus(ctx, paymentID, status, notes, s.now()); err != nil {
		return nil, fmt.Errorf("lease.UpdatePaymentStatus: %w", err)
	}

	p, err := s.store.Payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("lease.UpdatePaymentStatus: %w", err)
	}

	return p, nil
}
