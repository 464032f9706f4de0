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

type ContractRepo struct {
	pool *pgxpool.Pool
}

func NewContractRepo(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

const contractColumns = `id, tenant_id, landlord_id, property_id, application_id,
	start_date, end_date, rent_amount, deposit_amount, payment_day, terms,
	status, expiry_notified_at, created_at, updated_at`

const insertContractSQL = `INSERT INTO contracts (id, tenant_id, landlord_id, property_id, application_id,
	start_date, end_date, rent_amount, deposit_amount, payment_day, terms,
	status, created_at, updated_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// CreateWithDeposit inserts the contract, flips the property to occupied and
// inserts the initial deposit payment in one transaction. Either all three
// writes land or none do. The property flip is conditional on it still being
// available, and the partial unique index on active contracts per property
// backs that up against races.
func (r *ContractRepo) CreateWithDeposit(ctx context.Context, c *domain.Contract, deposit *domain.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("contractRepo.CreateWithDeposit: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE properties SET availability = $1, updated_at = now()
		 WHERE id = $2 AND availability = $3`,
		domain.AvailabilityOccupied, c.PropertyID, domain.AvailabilityAvailable,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.CreateWithDeposit: occupy property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contractRepo.CreateWithDeposit: property not available: %w", domain.ErrInvalidState)
	}

	_, err = tx.Exec(ctx, insertContractSQL,
		c.ID, c.TenantID, c.LandlordID, c.PropertyID, c.ApplicationID,
		c.StartDate, c.EndDate, c.RentAmount, c.DepositAmount, c.PaymentDay, c.Terms,
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contractRepo.CreateWithDeposit: insert contract: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("contractRepo.CreateWithDeposit: insert contract: %w", err)
	}

	_, err = tx.Exec(ctx, insertPaymentSQL,
		deposit.ID, deposit.TenantID, deposit.LandlordID, deposit.PropertyID, deposit.ContractID,
		deposit.Amount, deposit.Type, deposit.Month, deposit.DueDate, deposit.PaidDate,
		deposit.Status, deposit.Method, deposit.IntentID, deposit.TxID, deposit.Notes,
		deposit.CreatedAt, deposit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.CreateWithDeposit: insert deposit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("contractRepo.CreateWithDeposit: commit: %w", err)
	}

	return nil
}

func (r *ContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)

	c, err := scanContract(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("contractRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("contractRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *ContractRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Contract, error) {
	return r.list(ctx, `WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT 1000`,
		[]any{tenantID}, "contractRepo.ListByTenant")
}

func (r *ContractRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Contract, error) {
	return r.list(ctx, `WHERE landlord_id = $1 ORDER BY created_at DESC LIMIT 1000`,
		[]any{landlordID}, "contractRepo.ListByLandlord")
}

func (r *ContractRepo) ListActive(ctx context.Context) ([]*domain.Contract, error) {
	return r.list(ctx, `WHERE status = $1 ORDER BY created_at LIMIT 10000`,
		[]any{domain.ContractActive}, "contractRepo.ListActive")
}

func (r *ContractRepo) ListExpiring(ctx context.Context, now, until time.Time) ([]*domain.Contract, error) {
	return r.list(ctx,
		`WHERE status = $1 AND end_date >= $2 AND end_date < $3 ORDER BY end_date LIMIT 10000`,
		[]any{domain.ContractActive, now, until}, "contractRepo.ListExpiring")
}

func (r *ContractRepo) list(ctx context.Context, clause string, args []any, caller string) ([]*domain.Contract, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contractColumns+` FROM contracts `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		c, scanErr := scanContract(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, scanErr)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return contracts, nil
}

// Terminate moves an active contract to terminated and resets the property to
// available in one transaction. Outstanding payments are deliberately left
// untouched.
func (r *ContractRepo) Terminate(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("contractRepo.Terminate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var propertyID uuid.UUID
	err = tx.QueryRow(ctx,
		`UPDATE contracts SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING property_id`,
		domain.ContractTerminated, id, domain.ContractActive,
	).Scan(&propertyID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM contracts WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return fmt.Errorf("contractRepo.Terminate: %w", checkErr)
		}
		if !exists {
			return fmt.Errorf("contractRepo.Terminate: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("contractRepo.Terminate: %w", domain.ErrInvalidState)
	}
	if err != nil {
		return fmt.Errorf("contractRepo.Terminate: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE properties SET availability = $1, updated_at = now()
		 WHERE id = $2 AND availability = $3`,
		domain.AvailabilityAvailable, propertyID, domain.AvailabilityOccupied,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.Terminate: release property: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("contractRepo.Terminate: commit: %w", err)
	}

	return nil
}

// Renew marks the old contract renewed and inserts its successor in one
// transaction. The property stays occupied throughout.
func (r *ContractRepo) Renew(ctx context.Context, oldID uuid.UUID, successor *domain.Contract) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("contractRepo.Renew: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE contracts SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		domain.ContractRenewed, oldID, domain.ContractActive,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.Renew: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contractRepo.Renew: %w", domain.ErrInvalidState)
	}

	_, err = tx.Exec(ctx, insertContractSQL,
		successor.ID, successor.TenantID, successor.LandlordID, successor.PropertyID, successor.ApplicationID,
		successor.StartDate, successor.EndDate, successor.RentAmount, successor.DepositAmount,
		successor.PaymentDay, successor.Terms, successor.Status, successor.CreatedAt, successor.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contractRepo.Renew: insert successor: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("contractRepo.Renew: insert successor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("contractRepo.Renew: commit: %w", err)
	}

	return nil
}

func (r *ContractRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.ContractStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contracts SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.UpdateStatusIf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM contracts WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return fmt.Errorf("contractRepo.UpdateStatusIf: %w", checkErr)
		}
		if !exists {
			return fmt.Errorf("contractRepo.UpdateStatusIf: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("contractRepo.UpdateStatusIf: %w", domain.ErrInvalidState)
	}

	return nil
}

func (r *ContractRepo) MarkExpiryNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contracts SET expiry_notified_at = $1 WHERE id = $2`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("contractRepo.MarkExpiryNotified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contractRepo.MarkExpiryNotified: %w", domain.ErrNotFound)
	}

	return nil
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var c domain.Contract

	err := row.Scan(
		&c.ID, &c.TenantID, &c.LandlordID, &c.PropertyID, &c.ApplicationID,
		&c.StartDate, &c.EndDate, &c.RentAmount, &c.DepositAmount, &c.PaymentDay, &c.Terms,
		&c.Status, &c.ExpiryNotifiedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
