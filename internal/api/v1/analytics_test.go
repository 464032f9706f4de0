package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/rentora/rentora/internal/api/v1"
	"github.com/rentora/rentora/internal/domain"
)

// ---------------------------------------------------------------------------
// TestPlatformSummaryHandler
// ---------------------------------------------------------------------------

func TestPlatformSummaryHandler(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := newMockDataStore()
		store.analytics.summaryFunc = func(context.Context) (*domain.PlatformSummary, error) {
			return &domain.PlatformSummary{
				PropertiesByAvailability: map[domain.Availability]int64{
					domain.AvailabilityAvailable: 3,
					domain.AvailabilityOccupied:  7,
				},
				ContractsByStatus: map[domain.ContractStatus]int64{
					domain.ContractActive: 7,
				},
				OccupancyRate: 0.7,
			}, nil
		}
		v1.RegisterAnalyticsRoutes(api, store)

		resp := api.GetCtx(actorCtx(uuid.New(), domain.RoleAdmin), "/admin/analytics/summary")
		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.PlatformSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.InDelta(t, 0.7, body.OccupancyRate, 1e-9)
		assert.Equal(t, int64(7), body.ContractsByStatus[domain.ContractActive])
	})

	t.Run("store_failure_maps_to_500", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := newMockDataStore()
		store.analytics.summaryFunc = func(context.Context) (*domain.PlatformSummary, error) {
			return nil, assert.AnError
		}
		v1.RegisterAnalyticsRoutes(api, store)

		resp := api.GetCtx(actorCtx(uuid.New(), domain.RoleAdmin), "/admin/analytics/summary")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestMonthlyRevenueHandler
// ---------------------------------------------------------------------------

func TestMonthlyRevenueHandler(t *testing.T) {
	t.Parallel()

	t.Run("defaults_to_twelve_months", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := newMockDataStore()
		store.analytics.revenueFunc = func(_ context.Context, months int) ([]*domain.MonthlyRevenue, error) {
			assert.Equal(t, 12, months)
			return []*domain.MonthlyRevenue{
				{Month: "2025-05", Collected: 450000, Outstanding: 150000},
				{Month: "2025-06", Collected: 600000, Outstanding: 0},
			}, nil
		}
		v1.RegisterAnalyticsRoutes(api, store)

		resp := api.GetCtx(actorCtx(uuid.New(), domain.RoleAdmin), "/admin/analytics/revenue")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.MonthlyRevenue
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 2)
		assert.Equal(t, "2025-06", body[1].Month)
		assert.Equal(t, int64(600000), body[1].Collected)
	})

	t.Run("explicit_months_forwarded", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := newMockDataStore()
		store.analytics.revenueFunc = func(_ context.Context, months int) ([]*domain.MonthlyRevenue, error) {
			assert.Equal(t, 6, months)
			return nil, nil
		}
		v1.RegisterAnalyticsRoutes(api, store)

		resp := api.GetCtx(actorCtx(uuid.New(), domain.RoleAdmin), "/admin/analytics/revenue?months=6")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("months_above_max_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAnalyticsRoutes(api, newMockDataStore())

		resp := api.GetCtx(actorCtx(uuid.New(), domain.RoleAdmin), "/admin/analytics/revenue?months=48")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}
