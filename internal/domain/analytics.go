package domain

import "context"

// PlatformSummary is the admin dashboard aggregate: entity counts broken
// down by status plus the overall occupancy rate.
type PlatformSummary struct {
	PropertiesByAvailability map[Availability]int64
	PropertiesByApproval     map[ApprovalStatus]int64
	ApplicationsByStatus     map[ApplicationStatus]int64
	ContractsByStatus        map[ContractStatus]int64
	PaymentsByStatus         map[PaymentStatus]int64
	OccupancyRate            float64 // occupied / (available + occupied)
}

// MonthlyRevenue aggregates payments per billing period.
type MonthlyRevenue struct {
	Month       string // "YYYY-MM"
	Collected   int64  // sum of paid amounts, minor units
	Outstanding int64  // sum of pending + overdue amounts, minor units
}

type AnalyticsRepository interface {
	Summary(ctx context.Context) (*PlatformSummary, error)
	RevenueByMonth(ctx context.Context, months int) ([]*MonthlyRevenue, error)
}
