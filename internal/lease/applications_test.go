package lease

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/domain"
)

func approvedProperty(landlordID uuid.UUID) *domain.Property {
	return &domain.Property{
		ID:             uuid.New(),
		LandlordID:     landlordID,
		Title:          "Sunny two-bedroom",
		Availability:   domain.AvailabilityAvailable,
		ApprovalStatus: domain.ApprovalApproved,
	}
}

// ----- CreateApplication -----

func TestCreateApplication(t *testing.T) {
	t.Parallel()

	landlord := landlordActor()
	tenant := tenantActor()

	t.Run("success notifies landlord", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		sink := &mockSink{}
		property := approvedProperty(landlord.ID)
		store.properties.getByIDProperty = property

		svc := newTestService(store, sink, &mockGateway{})

		a, err := svc.CreateApplication(context.Background(), tenant, property.ID, "hello", time.Time{})
		require.NoError(t, err)

		assert.Equal(t, domain.ApplicationPending, a.Status)
		assert.Equal(t, tenant.ID, a.TenantID)
		assert.Equal(t, landlord.ID, a.LandlordID)
		assert.Equal(t, property.ID, a.PropertyID)
		assert.Equal(t, testClock, a.CreatedAt)
		require.NotNil(t, store.applications.created)

		require.Len(t, sink.events, 1)
		assert.Equal(t, domain.NotifyApplicationReceived, sink.events[0].Type)
		assert.Equal(t, landlord.ID, sink.events[0].UserID)
	})

	t.Run("landlord cannot apply", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.CreateApplication(context.Background(), landlord, uuid.New(), "", time.Time{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unapproved listing reads as not found", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		property := approvedProperty(landlord.ID)
		property.ApprovalStatus = domain.ApprovalPending
		store.properties.getByIDProperty = property

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.CreateApplication(context.Background(), tenant, property.ID, "", time.Time{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("occupied property rejected", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		property := approvedProperty(landlord.ID)
		property.Availability = domain.AvailabilityOccupied
		store.properties.getByIDProperty = property

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.CreateApplication(context.Background(), tenant, property.ID, "", time.Time{})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("duplicate active application surfaces conflict", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.properties.getByIDProperty = approvedProperty(landlord.ID)
		store.applications.createErr = domain.ErrConflict

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.CreateApplication(context.Background(), tenant, uuid.New(), "", time.Time{})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

// ----- DecideApplication -----

func TestDecideApplication(t *testing.T) {
	t.Parallel()

	landlord := landlordActor()
	tenant := tenantActor()

	pendingApplication := func() *domain.Application {
		return &domain.Application{
			ID:         uuid.New(),
			TenantID:   tenant.ID,
			PropertyID: uuid.New(),
			LandlordID: landlord.ID,
			Status:     domain.ApplicationPending,
		}
	}

	t.Run("landlord approves", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		sink := &mockSink{}
		store.applications.getByIDApplication = pendingApplication()

		svc := newTestService(store, sink, &mockGateway{})

		a, err := svc.DecideApplication(context.Background(), landlord, store.applications.getByIDApplication.ID, true, "")
		require.NoError(t, err)

		assert.Equal(t, domain.ApplicationApproved, a.Status)
		assert.Equal(t, domain.ApplicationApproved, store.applications.updatedTo)

		require.Len(t, sink.events, 1)
		assert.Equal(t, domain.NotifyApplicationApproved, sink.events[0].Type)
		assert.Equal(t, tenant.ID, sink.events[0].UserID)
	})

	t.Run("rejection carries reason to tenant", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		sink := &mockSink{}
		store.applications.getByIDApplication = pendingApplication()

		svc := newTestService(store, sink, &mockGateway{})

		a, err := svc.DecideApplication(context.Background(), landlord, store.applications.getByIDApplication.ID, false, "income too low")
		require.NoError(t, err)

		assert.Equal(t, domain.ApplicationRejected, a.Status)
		assert.Equal(t, "income too low", a.RejectionReason)
		assert.Equal(t, "income too low", store.applications.updatedReason)

		require.Len(t, sink.events, 1)
		assert.Equal(t, domain.NotifyApplicationRejected, sink.events[0].Type)
		assert.Contains(t, sink.events[0].Message, "income too low")
	})

	t.Run("other landlord forbidden", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = pendingApplication()

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.DecideApplication(context.Background(), landlordActor(), store.applications.getByIDApplication.ID, true, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may decide any application", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = pendingApplication()

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.DecideApplication(context.Background(), adminActor(), store.applications.getByIDApplication.ID, true, "")
		assert.NoError(t, err)
	})

	t.Run("already decided application is invalid state", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		a := pendingApplication()
		a.Status = domain.ApplicationApproved
		store.applications.getByIDApplication = a

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.DecideApplication(context.Background(), landlord, a.ID, false, "")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("lost race surfaces repository error", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = pendingApplication()
		store.applications.updateStatusIfErr = domain.ErrInvalidState

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.DecideApplication(context.Background(), landlord, store.applications.getByIDApplication.ID, true, "")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

// ----- WithdrawApplication -----

func TestWithdrawApplication(t *testing.T) {
	t.Parallel()

	landlord := landlordActor()
	tenant := tenantActor()

	t.Run("tenant withdraws pending", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = &domain.Application{
			ID:         uuid.New(),
			TenantID:   tenant.ID,
			LandlordID: landlord.ID,
			Status:     domain.ApplicationPending,
		}

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		a, err := svc.WithdrawApplication(context.Background(), tenant, store.applications.getByIDApplication.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationWithdrawn, a.Status)
	})

	t.Run("only the applicant may withdraw", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = &domain.Application{
			ID:       uuid.New(),
			TenantID: tenant.ID,
			Status:   domain.ApplicationPending,
		}

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.WithdrawApplication(context.Background(), tenantActor(), store.applications.getByIDApplication.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("approved application cannot be withdrawn", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.applications.getByIDApplication = &domain.Application{
			ID:       uuid.New(),
			TenantID: tenant.ID,
			Status:   domain.ApplicationApproved,
		}

		svc := newTestService(store, &mockSink{}, &mockGateway{})

		_, err := svc.WithdrawApplication(context.Background(), tenant, store.applications.getByIDApplication.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}
