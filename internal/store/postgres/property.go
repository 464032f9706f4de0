package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type PropertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{pool: pool}
}

const propertyColumns = `id, landlord_id, title, description, address, city,
	rent_amount, deposit_amount, bedrooms, bathrooms, image_urls,
	availability, approval_status, created_at, updated_at`

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO properties (id, landlord_id, title, description, address, city,
		        rent_amount, deposit_amount, bedrooms, bathrooms, image_urls,
		        availability, approval_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.LandlordID, p.Title, p.Description, p.Address, p.City,
		p.RentAmount, p.DepositAmount, p.Bedrooms, p.Bathrooms, p.ImageURLs,
		p.Availability, p.ApprovalStatus, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.Create: %w", err)
	}

	return nil
}

func (r *PropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)

	p, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("propertyRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("propertyRepo.GetByID: %w", err)
	}

	return p, nil
}

func (r *PropertyRepo) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if filter.City != "" {
		add("city = ", filter.City)
	}
	if filter.MinRent > 0 {
		add("rent_amount >= ", filter.MinRent)
	}
	if filter.MaxRent > 0 {
		add("rent_amount <= ", filter.MaxRent)
	}
	if filter.MinBedrooms > 0 {
		add("bedrooms >= ", filter.MinBedrooms)
	}
	if filter.Availability != "" {
		add("availability = ", filter.Availability)
	}
	if filter.Approval != "" {
		add("approval_status = ", filter.Approval)
	}
	if filter.LandlordID != uuid.Nil {
		add("landlord_id = ", filter.LandlordID)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("propertyRepo.List: %w", err)
	}
	defer rows.Close()

	var properties []*domain.Property
	for rows.Next() {
		p, scanErr := scanProperty(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("propertyRepo.List: scan: %w", scanErr)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("propertyRepo.List: rows: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET title = $1, description = $2, address = $3, city = $4,
		        rent_amount = $5, deposit_amount = $6, bedrooms = $7, bathrooms = $8,
		        image_urls = $9, availability = $10, updated_at = now()
		 WHERE id = $11`,
		p.Title, p.Description, p.Address, p.City,
		p.RentAmount, p.DepositAmount, p.Bedrooms, p.Bathrooms,
		p.ImageURLs, p.Availability, p.ID,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("propertyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PropertyRepo) SetApproval(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET approval_status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.SetApproval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.SetApproval: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PropertyRepo) SetAvailability(ctx context.Context, id uuid.UUID, availability domain.Availability) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET availability = $1, updated_at = now() WHERE id = $2`,
		availability, id,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.SetAvailability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.SetAvailability: %w", domain.ErrNotFound)
	}

	return nil
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property

	err := row.Scan(
		&p.ID, &p.LandlordID, &p.Title, &p.Description, &p.Address, &p.City,
		&p.RentAmount, &p.DepositAmount, &p.Bedrooms, &p.Bathrooms, &p.ImageURLs,
		&p.Availability, &p.ApprovalStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
