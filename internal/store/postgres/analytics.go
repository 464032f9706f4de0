package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func (r *AnalyticsRepo) Summary(ctx context.Context) (*domain.PlatformSummary, error) {
	s := &domain.PlatformSummary{
		PropertiesByAvailability: make(map[domain.Availability]int64),
		PropertiesByApproval:     make(map[domain.ApprovalStatus]int64),
		ApplicationsByStatus:     make(map[domain.ApplicationStatus]int64),
		ContractsByStatus:        make(map[domain.ContractStatus]int64),
		PaymentsByStatus:         make(map[domain.PaymentStatus]int64),
	}

	if err := r.countBy(ctx, `SELECT availability, count(*) FROM properties GROUP BY availability`,
		func(key string, n int64) { s.PropertiesByAvailability[domain.Availability(key)] = n }); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: properties by availability: %w", err)
	}
	if err := r.countBy(ctx, `SELECT approval_status, count(*) FROM properties GROUP BY approval_status`,
		func(key string, n int64) { s.PropertiesByApproval[domain.ApprovalStatus(key)] = n }); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: properties by approval: %w", err)
	}
	if err := r.countBy(ctx, `SELECT status, count(*) FROM applications GROUP BY status`,
		func(key string, n int64) { s.ApplicationsByStatus[domain.ApplicationStatus(key)] = n }); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: applications: %w", err)
	}
	if err := r.countBy(ctx, `SELECT status, count(*) FROM contracts GROUP BY status`,
		func(key string, n int64) { s.ContractsByStatus[domain.ContractStatus(key)] = n }); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: contracts: %w", err)
	}
	if err := r.countBy(ctx, `SELECT status, count(*) FROM payments GROUP BY status`,
		func(key string, n int64) { s.PaymentsByStatus[domain.PaymentStatus(key)] = n }); err != nil {
		return nil, fmt.Errorf("analyticsRepo.Summary: payments: %w", err)
	}

	occupied := s.PropertiesByAvailability[domain.AvailabilityOccupied]
	available := s.PropertiesByAvailability[domain.AvailabilityAvailable]
	if total := occupied + available; total > 0 {
		s.OccupancyRate = float64(occupied) / float64(total)
	}

	return s, nil
}

func (r *AnalyticsRepo) countBy(ctx context.Context, query string, set func(key string, n int64)) error {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		set(key, n)
	}

	return rows.Err()
}

func (r *AnalyticsRepo) RevenueByMonth(ctx context.Context, months int) ([]*domain.MonthlyRevenue, error) {
	if months <= 0 || months > 36 {
		months = 12
	}

	rows, err := r.pool.Query(ctx,
		`SELECT month,
		        coalesce(sum(amount) FILTER (WHERE status = 'paid'), 0),
		        coalesce(sum(amount) FILTER (WHERE status IN ('pending', 'overdue')), 0)
		 FROM payments
		 GROUP BY month
		 ORDER BY month DESC
		 LIMIT $1`,
		months,
	)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.RevenueByMonth: %w", err)
	}
	defer rows.Close()

	var revenue []*domain.MonthlyRevenue
	for rows.Next() {
		var m domain.MonthlyRevenue
		if scanErr := rows.Scan(&m.Month, &m.Collected, &m.Outstanding); scanErr != nil {
			return nil, fmt.Errorf("analyticsRepo.RevenueByMonth: scan: %w", scanErr)
		}
		revenue = append(revenue, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analyticsRepo.RevenueByMonth: rows: %w", err)
	}

	return revenue, nil
}
