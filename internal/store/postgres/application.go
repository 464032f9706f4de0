package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const applicationColumns = `id, tenant_id, property_id, landlord_id, message,
	move_in_date, status, rejection_reason, created_at, updated_at`

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO applications (id, tenant_id, property_id, landlord_id, message,
		        move_in_date, status, rejection_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.TenantID, a.PropertyID, a.LandlordID, a.Message,
		a.MoveInDate, a.Status, a.RejectionReason, a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("applicationRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("applicationRepo.Create: %w", err)
	}

	return nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	a, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("applicationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("applicationRepo.GetByID: %w", err)
	}

	return a, nil
}

func (r *ApplicationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Application, error) {
	return r.list(ctx, "tenant_id", tenantID, "applicationRepo.ListByTenant")
}

func (r *ApplicationRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Application, error) {
	return r.list(ctx, "landlord_id", landlordID, "applicationRepo.ListByLandlord")
}

func (r *ApplicationRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Application, error) {
	return r.list(ctx, "property_id", propertyID, "applicationRepo.ListByProperty")
}

func (r *ApplicationRepo) list(ctx context.Context, column string, id uuid.UUID, caller string) ([]*domain.Application, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE `+column+` = $1
		 ORDER BY created_at DESC
		 LIMIT 1000`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		a, scanErr := scanApplication(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, scanErr)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return apps, nil
}

// UpdateStatusIf is a compare-and-swap on status: the row is updated only when
// its current status still matches from, so two concurrent approvals cannot
// both succeed.
func (r *ApplicationRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.ApplicationStatus, rejectionReason string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE applications
		 SET status = $1, rejection_reason = $2, updated_at = now()
		 WHERE id = $3 AND status = $4`,
		to, rejectionReason, id, from,
	)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateStatusIf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a stale status.
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return fmt.Errorf("applicationRepo.UpdateStatusIf: %w", checkErr)
		}
		if !exists {
			return fmt.Errorf("applicationRepo.UpdateStatusIf: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("applicationRepo.UpdateStatusIf: %w", domain.ErrInvalidState)
	}

	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application

	err := row.Scan(
		&a.ID, &a.TenantID, &a.PropertyID, &a.LandlordID, &a.Message,
		&a.MoveInDate, &a.Status, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}
