package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/notify"
)

// CreateApplication files the tenant's request to rent a property. The
// property must exist, be admin-approved and currently available, and the
// tenant may not already hold a pending or approved application for it.
func (s *Service) CreateApplication(ctx context.Context, actor domain.Actor, propertyID uuid.UUID, message string, moveIn time.Time) (*domain.Application, error) {
	if err := requireRole(actor, domain.RoleTenant); err != nil {
		return nil, fmt.Errorf("lease.CreateApplication: %w", err)
	}

	property, err := s.store.Properties().GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("lease.CreateApplication: %w", err)
	}
	if property.ApprovalStatus != domain.ApprovalApproved {
		return nil, fmt.Errorf("lease.CreateApplication: listing not approved: %w", domain.ErrNotFound)
	}
	if property.Availability != domain.AvailabilityAvailable {
		return nil, fmt.Errorf("lease.CreateApplication: property not available: %w", domain.ErrInvalidState)
	}

	now := s.now()
	a := &domain.Application{
		ID:         uuid.New(),
		TenantID:   actor.ID,
		PropertyID: property.ID,
		LandlordID: property.LandlordID,
		Message:    message,
		MoveInDate: moveIn,
		Status:     domain.ApplicationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The partial unique index rejects a second active application for the
	// same (tenant, property) pair as ErrConflict.
	if err := s.store.Applications().Create(ctx, a); err != nil {
		return nil, fmt.Errorf("lease.CreateApplication: %w", err)
	}

	s.sink.Notify(ctx, notify.Event{
		UserID:  property.LandlordID,
		Type:    domain.NotifyApplicationReceived,
		Title:   "New rental application",
		Message: fmt.Sprintf("A tenant applied for %q.", property.Title),
		Link:    "/applications/" + a.ID.String(),
		Metadata: map[string]any{
			"application_id": a.ID.String(),
			"property_id":    property.ID.String(),
		},
	})

	return a, nil
}

// DecideApplication approves or rejects a pending application. Only the
// owning landlord or an admin may decide; the decision has no side effect on
// the property or any contract — contract creation is a separate step.
func (s *Service) DecideApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID, approve bool, rejectionReason string) (*domain.Application, error) {
	a, err := s.store.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("lease.DecideApplication: %w", err)
	}
	if err := canDecideApplication(actor, a); err != nil {
		return nil, fmt.Errorf("lease.DecideApplication: %w", err)
	}

	target := domain.ApplicationApproved
	reason := ""
	if !approve {
		target = domain.ApplicationRejected
		reason = rejectionReason
	}
	if !a.Status.ValidTransition(target) {
		return nil, fmt.Errorf("lease.DecideApplication: %s -> %s: %w", a.Status, target, domain.ErrInvalidState)
	}

	err = s.store.Applications().UpdateStatusIf(ctx, a.ID, domain.ApplicationPending, target, reason)
	if err != nil {
		return nil, fmt.Errorf("lease.DecideApplication: %w", err)
	}

	a.Status = target
	a.RejectionReason = reason
	a.UpdatedAt = s.now()

	eventType := domain.NotifyApplicationApproved
	title := "Application approved"
	message := "Your rental application was approved."
	if !approve {
		eventType = domain.NotifyApplicationRejected
		title = "Application rejected"
		message = "Your rental application was rejected."
		if reason != "" {
			message += " Reason: " + reason
		}
	}

	s.sink.Notify(ctx, notify.Event{
		UserID:  a.TenantID,
		Type:    eventType,
		Title:   title,
		Message: message,
		Link:    "/applications/" + a.ID.String(),
		Metadata: map[string]any{
			"application_id": a.ID.String(),
			"property_id":    a.PropertyID.String(),
		},
	})

	return a, nil
}

// WithdrawApplication lets the applying tenant retract a still-pending
// application. withdrawn is terminal.
func (s *Service) WithdrawApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID) (*domain.Application, error) {
	a, err := s.store.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("lease.WithdrawApplication: %w", err)
	}
	if err := canWithdrawApplication(actor, a); err != nil {
		return nil, fmt.Errorf("lease.WithdrawApplication: %w", err)
	}
	if !a.Status.ValidTransition(domain.ApplicationWithdrawn) {
		return nil, fmt.Errorf("lease.WithdrawApplication: %s -> withdrawn: %w", a.Status, domain.ErrInvalidState)
	}

	err = s.store.Applications().UpdateStatusIf(ctx, a.ID, domain.ApplicationPending, domain.ApplicationWithdrawn, "")
	if err != nil {
		return nil, fmt.Errorf("lease.WithdrawApplication: %w", err)
	}

	a.Status = domain.ApplicationWithdrawn
	a.UpdatedAt = s.now()

	return a, nil
}
