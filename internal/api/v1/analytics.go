package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rentora/rentora/internal/domain"
)

type PlatformSummaryOutput struct {
	Body *domain.PlatformSummary
}

type RevenueInput struct {
	Months int `query:"months" minimum:"1" maximum:"36" default:"12" doc:"How many trailing months to aggregate"`
}

type RevenueOutput struct {
	Body []*domain.MonthlyRevenue
}

// Admin analytics. Role enforcement happens in the router via RequireRole,
// these handlers assume an admin caller.
func RegisterAnalyticsRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "platform-summary",
		Method:      http.MethodGet,
		Path:        "/admin/analytics/summary",
		Summary:     "Platform-wide entity counts and occupancy rate",
		Tags:        []string{"Analytics"},
	}, func(ctx context.Context, _ *struct{}) (*PlatformSummaryOutput, error) {
		summary, err := store.Analytics().Summary(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to build summary", err)
		}
		return &PlatformSummaryOutput{Body: summary}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "monthly-revenue",
		Method:      http.MethodGet,
		Path:        "/admin/analytics/revenue",
		Summary:     "Collected and outstanding amounts per billing month",
		Tags:        []string{"Analytics"},
	}, func(ctx context.Context, input *RevenueInput) (*RevenueOutput, error) {
		revenue, err := store.Analytics().RevenueByMonth(ctx, input.Months)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to aggregate revenue", err)
		}
		return &RevenueOutput{Body: revenue}, nil
	})
}
