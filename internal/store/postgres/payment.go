package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, tenant_id, landlord_id, property_id, contract_id,
	amount, type, month, due_date, paid_date, status, method, intent_id, tx_id,
	notes, last_reminded_at, created_at, updated_at`

const insertPaymentSQL = `INSERT INTO payments (id, tenant_id, landlord_id, property_id, contract_id,
	amount, type, month, due_date, paid_date, status, method, intent_id, tx_id,
	notes, created_at, updated_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	_, err := r.pool.Exec(ctx, insertPaymentSQL,
		p.ID, p.TenantID, p.LandlordID, p.PropertyID, p.ContractID,
		p.Amount, p.Type, p.Month, p.DueDate, p.PaidDate, p.Status,
		p.Method, p.IntentID, p.TxID, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("paymentRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}

	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}

	return p, nil
}

func (r *PaymentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error) {
	return r.list(ctx, `WHERE contract_id = $1 ORDER BY due_date LIMIT 1000`,
		[]any{contractID}, "paymentRepo.ListByContract")
}

func (r *PaymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Payment, error) {
	return r.list(ctx, `WHERE tenant_id = $1 ORDER BY due_date DESC LIMIT 1000`,
		[]any{tenantID}, "paymentRepo.ListByTenant")
}

func (r *PaymentRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Payment, error) {
	return r.list(ctx, `WHERE landlord_id = $1 ORDER BY due_date DESC LIMIT 1000`,
		[]any{landlordID}, "paymentRepo.ListByLandlord")
}

func (r *PaymentRepo) ListDueWithin(ctx context.Context, now, until time.Time) ([]*domain.Payment, error) {
	return r.list(ctx,
		`WHERE status = $1 AND due_date >= $2 AND due_date < $3 ORDER BY due_date LIMIT 10000`,
		[]any{domain.PaymentPending, now, until}, "paymentRepo.ListDueWithin")
}

func (r *PaymentRepo) list(ctx context.Context, clause string, args []any, caller string) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	defer rows.Close()

	return collectPayments(rows, caller)
}

// MarkPaid is the single paid-marking path for the tenant-facing flow. The
// conditional update only matches pending or overdue rows; confirming an
// already-paid payment is ErrInvalidState.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id uuid.UUID, txID, method string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments
		 SET status = $1, paid_date = $2, tx_id = $3, method = $4, updated_at = now()
		 WHERE id = $5 AND status IN ($6, $7)`,
		domain.PaymentPaid, paidAt, txID, method, id,
		domain.PaymentPending, domain.PaymentOverdue,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.MarkPaid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return fmt.Errorf("paymentRepo.MarkPaid: %w", checkErr)
		}
		if !exists {
			return fmt.Errorf("paymentRepo.MarkPaid: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("paymentRepo.MarkPaid: %w", domain.ErrInvalidState)
	}

	return nil
}

func (r *PaymentRepo) SetIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET intent_id = $1, updated_at = now() WHERE id = $2`,
		intentID, id,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.SetIntent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.SetIntent: %w", domain.ErrNotFound)
	}

	return nil
}

// SetStatus is the administrative override. It may set any status; entering
// paid without an existing paid date stamps paidAt.
func (r *PaymentRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, notes string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments
		 SET status = $1,
		     notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
		     paid_date = CASE WHEN $1 = 'paid' AND paid_date IS NULL THEN $3 ELSE paid_date END,
		     updated_at = now()
		 WHERE id = $4`,
		status, notes, paidAt, id,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.SetStatus: %w", domain.ErrNotFound)
	}

	return nil
}

// SweepOverdue transitions every pending payment past its due date to overdue
// in a single statement and returns exactly the rows it changed, so callers
// notify only newly-overdue payments.
func (r *PaymentRepo) SweepOverdue(ctx context.Context, now time.Time) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE payments SET status = $1, updated_at = now()
		 WHERE status = $2 AND due_date < $3
		 RETURNING `+paymentColumns,
		domain.PaymentOverdue, domain.PaymentPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.SweepOverdue: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows, "paymentRepo.SweepOverdue")
}

func (r *PaymentRepo) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET last_reminded_at = $1 WHERE id = $2`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.MarkReminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.MarkReminded: %w", domain.ErrNotFound)
	}

	return nil
}

func collectPayments(rows pgx.Rows, caller string) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return payments, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment

	err := row.Scan(
		&p.ID, &p.TenantID, &p.LandlordID, &p.PropertyID, &p.ContractID,
		&p.Amount, &p.Type, &p.Month, &p.DueDate, &p.PaidDate, &p.Status,
		&p.Method, &p.IntentID, &p.TxID, &p.Notes, &p.LastRemindedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
