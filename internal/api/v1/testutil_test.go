package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/notify"
	"github.com/rentora/rentora/internal/server/middleware"
)

// actorCtx builds a request context carrying the authenticated user the way
// the auth middleware does.
func actorCtx(userID uuid.UUID, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

// ---------------------------------------------------------------------------
// mock repositories (func-field style: nil funcs return zero values)
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserRepo) Create(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Update(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) List(context.Context, string) ([]*domain.User, error) { return nil, nil }

type mockPropertyRepo struct {
	createFunc          func(ctx context.Context, p *domain.Property) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	listFunc            func(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error)
	updateFunc          func(ctx context.Context, p *domain.Property) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	setApprovalFunc     func(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error
	setAvailabilityFunc func(ctx context.Context, id uuid.UUID, availability domain.Availability) error
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPropertyRepo) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p)
	}
	return nil
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPropertyRepo) SetApproval(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	if m.setApprovalFunc != nil {
		return m.setApprovalFunc(ctx, id, status)
	}
	return nil
}

func (m *mockPropertyRepo) SetAvailability(ctx context.Context, id uuid.UUID, availability domain.Availability) error {
	if m.setAvailabilityFunc != nil {
		return m.setAvailabilityFunc(ctx, id, availability)
	}
	return nil
}

type mockApplicationRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	listByTenantFunc   func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Application, error)
	listByLandlordFunc func(ctx context.Context, landlordID uuid.UUID) ([]*domain.Application, error)
	listByPropertyFunc func(ctx context.Context, propertyID uuid.UUID) ([]*domain.Application, error)
}

func (m *mockApplicationRepo) Create(context.Context, *domain.Application) error { return nil }

func (m *mockApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockApplicationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Application, error) {
	if m.listByTenantFunc != nil {
		return m.listByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockApplicationRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Application, error) {
	if m.listByLandlordFunc != nil {
		return m.listByLandlordFunc(ctx, landlordID)
	}
	return nil, nil
}

func (m *mockApplicationRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Application, error) {
	if m.listByPropertyFunc != nil {
		return m.listByPropertyFunc(ctx, propertyID)
	}
	return nil, nil
}

func (m *mockApplicationRepo) UpdateStatusIf(context.Context, uuid.UUID, domain.ApplicationStatus, domain.ApplicationStatus, string) error {
	return nil
}

type mockContractRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	listByTenantFunc   func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Contract, error)
	listByLandlordFunc func(ctx context.Context, landlordID uuid.UUID) ([]*domain.Contract, error)
	listActiveFunc     func(ctx context.Context) ([]*domain.Contract, error)
}

func (m *mockContractRepo) CreateWithDeposit(context.Context, *domain.Contract, *domain.Payment) error {
	return nil
}

func (m *mockContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockContractRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Contract, error) {
	if m.listByTenantFunc != nil {
		return m.listByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockContractRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Contract, error) {
	if m.listByLandlordFunc != nil {
		return m.listByLandlordFunc(ctx, landlordID)
	}
	return nil, nil
}

func (m *mockContractRepo) ListActive(ctx context.Context) ([]*domain.Contract, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockContractRepo) ListExpiring(context.Context, time.Time, time.Time) ([]*domain.Contract, error) {
	return nil, nil
}

func (m *mockContractRepo) Terminate(context.Context, uuid.UUID) error { return nil }

func (m *mockContractRepo) Renew(context.Context, uuid.UUID, *domain.Contract) error { return nil }

func (m *mockContractRepo) UpdateStatusIf(context.Context, uuid.UUID, domain.ContractStatus, domain.ContractStatus) error {
	return nil
}

func (m *mockContractRepo) MarkExpiryNotified(context.Context, uuid.UUID, time.Time) error {
	return nil
}

type mockPaymentRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	listByContractFunc func(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error)
	listByTenantFunc   func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Payment, error)
	listByLandlordFunc func(ctx context.Context, landlordID uuid.UUID) ([]*domain.Payment, error)
}

func (m *mockPaymentRepo) Create(context.Context, *domain.Payment) error { return nil }

func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPaymentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Payment, error) {
	if m.listByContractFunc != nil {
		return m.listByContractFunc(ctx, contractID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Payment, error) {
	if m.listByTenantFunc != nil {
		return m.listByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Payment, error) {
	if m.listByLandlordFunc != nil {
		return m.listByLandlordFunc(ctx, landlordID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListDueWithin(context.Context, time.Time, time.Time) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkPaid(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (m *mockPaymentRepo) SetIntent(context.Context, uuid.UUID, string) error { return nil }

func (m *mockPaymentRepo) SetStatus(context.Context, uuid.UUID, domain.PaymentStatus, string, time.Time) error {
	return nil
}

func (m *mockPaymentRepo) SweepOverdue(context.Context, time.Time) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkReminded(context.Context, uuid.UUID, time.Time) error { return nil }

type mockNotificationRepo struct {
	listByUserFunc  func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	countUnreadFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	markReadFunc    func(ctx context.Context, userID, id uuid.UUID) error
	markAllReadFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockNotificationRepo) Create(context.Context, *domain.Notification) error { return nil }

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.countUnreadFunc != nil {
		return m.countUnreadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, userID, id)
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if m.markAllReadFunc != nil {
		return m.markAllReadFunc(ctx, userID)
	}
	return nil
}

type mockAnalyticsRepo struct {
	summaryFunc func(ctx context.Context) (*domain.PlatformSummary, error)
	revenueFunc func(ctx context.Context, months int) ([]*domain.MonthlyRevenue, error)
}

func (m *mockAnalyticsRepo) Summary(ctx context.Context) (*domain.PlatformSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx)
	}
	return &domain.PlatformSummary{}, nil
}

func (m *mockAnalyticsRepo) RevenueByMonth(ctx context.Context, months int) ([]*domain.MonthlyRevenue, error) {
	if m.revenueFunc != nil {
		return m.revenueFunc(ctx, months)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// mock DataStore, LeaseService, AuthService, Sink
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users         *mockUserRepo
	properties    *mockPropertyRepo
	applications  *mockApplicationRepo
	contracts     *mockContractRepo
	payments      *mockPaymentRepo
	notifications *mockNotificationRepo
	analytics     *mockAnalyticsRepo
}

func newMockDataStore() *mockDataStore {
	return &mockDataStore{
		users:         &mockUserRepo{},
		properties:    &mockPropertyRepo{},
		applications:  &mockApplicationRepo{},
		contracts:     &mockContractRepo{},
		payments:      &mockPaymentRepo{},
		notifications: &mockNotificationRepo{},
		analytics:     &mockAnalyticsRepo{},
	}
}

func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Properties() domain.PropertyRepository        { return m.properties }
func (m *mockDataStore) Applications() domain.ApplicationRepository   { return m.applications }
func (m *mockDataStore) Contracts() domain.ContractRepository         { return m.contracts }
func (m *mockDataStore) Payments() domain.PaymentRepository           { return m.payments }
func (m *mockDataStore) Notifications() domain.NotificationRepository { return m.notifications }
func (m *mockDataStore) Analytics() domain.AnalyticsRepository        { return m.analytics }

type mockLeaseService struct {
	createApplicationFunc   func(ctx context.Context, actor domain.Actor, propertyID uuid.UUID, message string, moveIn time.Time) (*domain.Application, error)
	decideApplicationFunc   func(ctx context.Context, actor domain.Actor, applicationID uuid.UUID, approve bool, rejectionReason string) (*domain.Application, error)
	withdrawApplicationFunc func(ctx context.Context, actor domain.Actor, applicationID uuid.UUID) (*domain.Application, error)
	createContractFunc      func(ctx context.Context, actor domain.Actor, params lease.CreateContractParams) (*domain.Contract, error)
	terminateContractFunc   func(ctx context.Context, actor domain.Actor, contractID uuid.UUID) (*domain.Contract, error)
	renewContractFunc       func(ctx context.Context, actor domain.Actor, contractID uuid.UUID, params lease.RenewContractParams) (*domain.Contract, error)
	createPaymentFunc       func(ctx context.Context, actor domain.Actor, params lease.CreatePaymentParams) (*domain.Payment, error)
	processPaymentFunc      func(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*gateway.Intent, error)
	confirmPaymentFunc      func(ctx context.Context, paymentID uuid.UUID, txID, method string) (*domain.Payment, error)
	updatePaymentStatusFunc func(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, status domain.PaymentStatus, notes string) (*domain.Payment, error)
}

func (m *mockLeaseService) CreateApplication(ctx context.Context, actor domain.Actor, propertyID uuid.UUID, message string, moveIn time.Time) (*domain.Application, error) {
	return m.createApplicationFunc(ctx, actor, propertyID, message, moveIn)
}

func (m *mockLeaseService) DecideApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID, approve bool, rejectionReason string) (*domain.Application, error) {
	return m.decideApplicationFunc(ctx, actor, applicationID, approve, rejectionReason)
}

func (m *mockLeaseService) WithdrawApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID) (*domain.Application, error) {
	return m.withdrawApplicationFunc(ctx, actor, applicationID)
}

func (m *mockLeaseService) CreateContract(ctx context.Context, actor domain.Actor, params lease.CreateContractParams) (*domain.Contract, error) {
	return m.createContractFunc(ctx, actor, params)
}

func (m *mockLeaseService) TerminateContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID) (*domain.Contract, error) {
	return m.terminateContractFunc(ctx, actor, contractID)
}

func (m *mockLeaseService) RenewContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID, params lease.RenewContractParams) (*domain.Contract, error) {
	return m.renewContractFunc(ctx, actor, contractID, params)
}

func (m *mockLeaseService) CreatePayment(ctx context.Context, actor domain.Actor, params lease.CreatePaymentParams) (*domain.Payment, error) {
	return m.createPaymentFunc(ctx, actor, params)
}

func (m *mockLeaseService) ProcessPayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*gateway.Intent, error) {
	return m.processPaymentFunc(ctx, actor, paymentID)
}

func (m *mockLeaseService) ConfirmPayment(ctx context.Context, paymentID uuid.UUID, txID, method string) (*domain.Payment, error) {
	return m.confirmPaymentFunc(ctx, paymentID, txID, method)
}

func (m *mockLeaseService) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, status domain.PaymentStatus, notes string) (*domain.Payment, error) {
	return m.updatePaymentStatusFunc(ctx, actor, paymentID, status, notes)
}

type mockAuthService struct {
	registerFunc func(ctx context.Context, email, password, name, phone, role string) (*domain.User, error)
	loginFunc    func(ctx context.Context, email, password string) (string, string, error)
	refreshFunc  func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name, phone, role string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name, phone, role)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

// mockSink records notification events emitted by handlers.
type mockSink struct {
	events []notify.Event
}

func (m *mockSink) Notify(_ context.Context, e notify.Event) {
	m.events = append(m.events, e)
}
