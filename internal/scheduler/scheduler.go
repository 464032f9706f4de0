// Package scheduler runs the time-triggered batch routines that advance
// payment and contract state: rent reminders, the overdue sweep, contract
// expiry notices and monthly rent generation. One cron runner, no internal
// parallelism; a failing candidate never aborts the rest of its run.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/notify"
)

// Store is the repository surface the batch routines need.
type Store interface {
	Contracts() domain.ContractRepository
	Payments() domain.PaymentRepository
}

// Config holds cron schedules and batch policies.
type Config struct {
	ReminderSpec string // rent reminders, e.g. "0 9 * * *"
	OverdueSpec  string // overdue sweep
	ExpirySpec   string // contract-expiry notices
	RentGenSpec  string // monthly rent generation

	ReminderWindow time.Duration // how far ahead reminders look
	ExpiryWindow   time.Duration // how far ahead expiry notices look

	// RemindRepeat re-notifies on every run instead of once per payment /
	// contract. Off by default to keep inboxes quiet.
	RemindRepeat bool
}

type Scheduler struct {
	cron  *cron.Cron
	store Store
	sink  notify.Sink
	cfg   Config
	now   func() time.Time
}

func New(store Store, sink notify.Sink, cfg Config) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		store: store,
		sink:  sink,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Start registers all four routines and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"rent_reminders", s.cfg.ReminderSpec, s.RunRentReminders},
		{"overdue_sweep", s.cfg.OverdueSpec, s.RunOverdueSweep},
		{"contract_expiry", s.cfg.ExpirySpec, s.RunContractExpiryCheck},
		{"rent_generation", s.cfg.RentGenSpec, s.RunMonthlyRentGeneration},
	}

	for _, job := range jobs {
		run := job.run
		name := job.name
		_, err := s.cron.AddFunc(job.spec, func() {
			if err := run(ctx); err != nil {
				log.Error().Err(err).Str("job", name).Msg("scheduler: run failed")
			}
		})
		if err != nil {
			return fmt.Errorf("scheduler.Start: register %s (%q): %w", job.name, job.spec, err)
		}
	}

	s.cron.Start()
	log.Info().Msg("scheduler started")

	return nil
}

// Stop stops the cron runner and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunRentReminders notifies tenants of pending payments due within the
// reminder window. Status is not changed. With RemindRepeat off, payments
// that already carry a reminder stamp are skipped, so each payment is
// reminded once.
func (s *Scheduler) RunRentReminders(ctx context.Context) error {
	now := s.now()

	due, err := s.store.Payments().ListDueWithin(ctx, now, now.Add(s.cfg.ReminderWindow))
	if err != nil {
		return fmt.Errorf("scheduler.RunRentReminders: %w", err)
	}

	reminded := 0
	for _, p := range due {
		if !s.cfg.RemindRepeat && p.LastRemindedAt != nil {
			continue
		}

		s.sink.Notify(ctx, notify.Event{
			UserID:  p.TenantID,
			Type:    domain.NotifyPaymentReminder,
			Title:   "Upcoming payment",
			Message: fmt.Sprintf("Your %s payment is due on %s.", p.Type, p.DueDate.Format("2006-01-02")),
			Link:    "/payments/" + p.ID.String(),
			Metadata: map[string]any{
				"payment_id": p.ID.String(),
			},
			Email: true,
		})

		if err := s.store.Payments().MarkReminded(ctx, p.ID, now); err != nil {
			log.Warn().Err(err).Stringer("payment_id", p.ID).Msg("scheduler: reminder stamp failed")
			continue
		}
		reminded++
	}

	log.Info().Int("candidates", len(due)).Int("reminded", reminded).Msg("rent reminders done")

	return nil
}

// RunOverdueSweep bulk-transitions pending payments past their due date to
// overdue and notifies exactly the rows that changed — payments already
// paid, failed or refunded are never touched.
func (s *Scheduler) RunOverdueSweep(ctx context.Context) error {
	swept, err := s.store.Payments().SweepOverdue(ctx, s.now())
	if err != nil {
		return fmt.Errorf("scheduler.RunOverdueSweep: %w", err)
	}

	for _, p := range swept {
		s.sink.Notify(ctx, notify.Event{
			UserID:  p.TenantID,
			Type:    domain.NotifyPaymentOverdue,
			Title:   "Payment overdue",
			Message: fmt.Sprintf("Your %s payment due %s is now overdue.", p.Type, p.DueDate.Format("2006-01-02")),
			Link:    "/payments/" + p.ID.String(),
			Metadata: map[string]any{
				"payment_id": p.ID.String(),
			},
			Email: true,
		})
	}

	log.Info().Int("marked_overdue", len(swept)).Msg("overdue sweep done")

	return nil
}

// RunContractExpiryCheck notifies tenant and landlord of active contracts
// ending within the expiry window. Same repeat policy as reminders.
func (s *Scheduler) RunContractExpiryCheck(ctx context.Context) error {
	now := s.now()

	expiring, err := s.store.Contracts().ListExpiring(ctx, now, now.Add(s.cfg.ExpiryWindow))
	if err != nil {
		return fmt.Errorf("scheduler.RunContractExpiryCheck: %w", err)
	}

	notified := 0
	for _, c := range expiring {
		if !s.cfg.RemindRepeat && c.ExpiryNotifiedAt != nil {
			continue
		}

		for _, userID := range []uuid.UUID{c.TenantID, c.LandlordID} {
			s.sink.Notify(ctx, notify.Event{
				UserID:  userID,
				Type:    domain.NotifyContractExpiring,
				Title:   "Lease ending soon",
				Message: fmt.Sprintf("The lease contract ends on %s.", c.EndDate.Format("2006-01-02")),
				Link:    "/contracts/" + c.ID.String(),
				Metadata: map[string]any{
					"contract_id": c.ID.String(),
				},
				Email: true,
			})
		}

		if err := s.store.Contracts().MarkExpiryNotified(ctx, c.ID, now); err != nil {
			log.Warn().Err(err).Stringer("contract_id", c.ID).Msg("scheduler: expiry stamp failed")
			continue
		}
		notified++
	}

	log.Info().Int("candidates", len(expiring)).Int("notified", notified).Msg("contract expiry check done")

	return nil
}

// RunMonthlyRentGeneration creates the current month's rent payment for every
// active contract that does not have one yet. The partial unique index on
// (contract, month) makes the insert idempotent, so overlapping runs cannot
// produce duplicates: a conflict just means another run got there first.
func (s *Scheduler) RunMonthlyRentGeneration(ctx context.Context) error {
	now := s.now()

	contracts, err := s.store.Contracts().ListActive(ctx)
	if err != nil {
		return fmt.Errorf("scheduler.RunMonthlyRentGeneration: %w", err)
	}

	month := domain.MonthKey(now)
	created := 0
	for _, c := range contracts {
		if now.Before(c.StartDate) || now.After(c.EndDate) {
			continue
		}

		p := &domain.Payment{
			ID:         uuid.New(),
			TenantID:   c.TenantID,
			LandlordID: c.LandlordID,
			PropertyID: c.PropertyID,
			ContractID: c.ID,
			Amount:     c.RentAmount,
			Type:       domain.PaymentTypeRent,
			Month:      month,
			DueDate:    domain.RentDueDate(now.Year(), now.Month(), c.PaymentDay, now.Location()),
			Status:     domain.PaymentPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err := s.store.Payments().Create(ctx, p)
		if errors.Is(err, domain.ErrConflict) {
			continue // rent for this period already exists
		}
		if err != nil {
			log.Warn().Err(err).Stringer("contract_id", c.ID).Msg("scheduler: rent generation failed")
			continue
		}
		created++

		s.sink.Notify(ctx, notify.Event{
			UserID:  p.TenantID,
			Type:    domain.NotifyPaymentDue,
			Title:   "Rent due",
			Message: fmt.Sprintf("Rent for %s is due on %s.", p.Month, p.DueDate.Format("2006-01-02")),
			Link:    "/payments/" + p.ID.String(),
			Metadata: map[string]any{
				"payment_id":  p.ID.String(),
				"contract_id": c.ID.String(),
			},
			Email: true,
		})
	}

	log.Info().Str("month", month).Int("contracts", len(contracts)).Int("created", created).
		Msg("monthly rent generation done")

	return nil
}
