package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/notify"
)

// CreateContractParams carries the lease terms for a new contract.
type CreateContractParams struct {
	ApplicationID uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	RentAmount    int64
	DepositAmount int64
	PaymentDay    int
	Terms         string
}

func (p CreateContractParams) validate() error {
	switch {
	case p.StartDate.IsZero() || p.EndDate.IsZero():
		return fmt.Errorf("start and end dates required: %w", domain.ErrValidation)
	case !p.EndDate.After(p.StartDate):
		return fmt.Errorf("end date must follow start date: %w", domain.ErrValidation)
	case p.RentAmount < 0 || p.DepositAmount < 0:
		return fmt.Errorf("amounts must be non-negative: %w", domain.ErrValidation)
	case p.PaymentDay < 1 || p.PaymentDay > 31:
		return fmt.Errorf("payment day must be 1-31: %w", domain.ErrValidation)
	}
	return nil
}

// CreateContract turns an approved application into an active lease. In one
// atomic unit it inserts the contract, flips the property to occupied and
// creates the deposit payment (due on the start date, billed against the
// start month).
func (s *Service) CreateContract(ctx context.Context, actor domain.Actor, params CreateContractParams) (*domain.Contract, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("lease.CreateContract: %w", err)
	}

	a, err := s.store.Applications().GetByID(ctx, params.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("lease.CreateContract: %w", err)
	}
	if err := canManageContract(actor, a.LandlordID); err != nil {
		return nil, fmt.Errorf("lease.CreateContract: %w", err)
	}
	if a.Status != domain.ApplicationApproved {
		return nil, fmt.Errorf("lease.CreateContract: application is %s, not approved: %w", a.Status, domain.ErrInvalidState)
	}

	now := s.now()
	c := &domain.Contract{
		ID:            uuid.New(),
		TenantID:      a.TenantID,
		LandlordID:    a.LandlordID,
		PropertyID:    a.PropertyID,
		ApplicationID: a.ID,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		RentAmount:    params.RentAmount,
		DepositAmount: params.DepositAmount,
		PaymentDay:    params.PaymentDay,
		Terms:         params.Terms,
		Status:        domain.ContractActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	deposit := &domain.Payment{
		ID:         uuid.New(),
		TenantID:   a.TenantID,
		LandlordID: a.LandlordID,
		PropertyID: a.PropertyID,
		ContractID: c.ID,
		Amount:     params.DepositAmount,
		Type:       domain.PaymentTypeDeposit,
		Month:      domain.MonthKey(params.StartDate),
		DueDate:    params.StartDate,
		Status:     domain.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Contracts().CreateWithDeposit(ctx, c, deposit); err != nil {
		return nil, fmt.Errorf("lease.CreateContract: %w", err)
	}

	s.sink.Notify(ctx, notify.Event{
		UserID:  c.TenantID,
		Type:    domain.NotifyContractCreated,
		Title:   "Lease contract created",
		Message: fmt.Sprintf("Your lease starts %s. The deposit payment is now due.", c.StartDate.Format("2006-01-02")),
		Link:    "/contracts/" + c.ID.String(),
		Metadata: map[string]any{
			"contract_id": c.ID.String(),
			"property_id": c.PropertyID.String(),
		},
		Email: true,
	})

	return c, nil
}

// TerminateContract ends an active lease. The property returns to available;
// outstanding payments on the contract are deliberately left as they are.
func (s *Service) TerminateContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID) (*domain.Contract, error) {
	c, err := s.store.Contracts().GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("lease.TerminateContract: %w", err)
	}
	if err := canManageContract(actor, c.LandlordID); err != nil {
		return nil, fmt.Errorf("lease.TerminateContract: %w", err)
	}

	if err := s.store.Contracts().Terminate(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("lease.TerminateContract: %w", err)
	}

	c.Status = domain.ContractTerminated
	c.UpdatedAt = s.now()

	s.sink.Notify(ctx, notify.Event{
		UserID:  c.TenantID,
		Type:    domain.NotifyContractTerminated,
		Title:   "Lease terminated",
		Message: "Your lease contract has been terminated.",
		Link:    "/contracts/" + c.ID.String(),
		Metadata: map[string]any{
			"contract_id": c.ID.String(),
		},
		Email: true,
	})

	return c, nil
}

// RenewContractParams carries the successor lease terms. Zero values inherit
// from the expiring contract.
type RenewContractParams struct {
	EndDate    time.Time
	RentAmount int64
	PaymentDay int
	Terms      string
}

// RenewContract closes an active contract as renewed and opens its successor
// in one atomic unit. The successor starts where the old contract ends and
// the property stays occupied throughout.
func (s *Service) RenewContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID, params RenewContractParams) (*domain.Contract, error) {
	old, err := s.store.Contracts().GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("lease.RenewContract: %w", err)
	}
	if err := canManageContract(actor, old.LandlordID); err != nil {
		return nil, fmt.Errorf("lease.RenewContract: %w", err)
	}
	if !old.Status.ValidTransition(domain.ContractRenewed) {
		return nil, fmt.Errorf("lease.RenewContract: contract is %s: %w", old.Status, domain.ErrInvalidState)
	}
	if !params.EndDate.After(old.EndDate) {
		return nil, fmt.Errorf("lease.RenewContract: new end date must follow current end date: %w", domain.ErrValidation)
	}

	now := s.now()
	successor := &domain.Contract{
		ID:            uuid.New(),
		TenantID:      old.TenantID,
		LandlordID:    old.LandlordID,
		PropertyID:    old.PropertyID,
		ApplicationID: old.ApplicationID,
		StartDate:     old.EndDate,
		EndDate:       params.EndDate,
		RentAmount:    old.RentAmount,
		DepositAmount: old.DepositAmount,
		PaymentDay:    old.PaymentDay,
		Terms:         old.Terms,
		Status:        domain.ContractActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if params.RentAmount > 0 {
		successor.RentAmount = params.RentAmount
	}
	if params.PaymentDay >= 1 && params.PaymentDay <= 31 {
		successor.PaymentDay = params.PaymentDay
	}
	if params.Terms != "" {
		successor.Terms = params.Terms
	}

	if err := s.store.Contracts().Renew(ctx, old.ID, successor); err != nil {
		return nil, fmt.Errorf("lease.RenewContract: %w", err)
	}

	s.sink.Notify(ctx, notify.Event{
		UserID:  successor.TenantID,
		Type:    domain.NotifyContractCreated,
		Title:   "Lease renewed",
		Message: fmt.Sprintf("Your lease was renewed through %s.", successor.EndDate.Format("2006-01-02")),
		Link:    "/contracts/" + successor.ID.String(),
		Metadata: map[string]any{
			"contract_id": successor.ID.String(),
			"renewed_from": old.ID.String(),
		},
		Email: true,
	})

	return successor, nil
}
