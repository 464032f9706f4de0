package lease

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/notify"
)

// ----- configurable mock repositories -----

type mockPropertyRepo struct {
	getByIDProperty *domain.Property
	getByIDErr      error
}

func (m *mockPropertyRepo) Create(context.Context, *domain.Property) error { return nil }

func (m *mockPropertyRepo) GetByID(context.Context, uuid.UUID) (*domain.Property, error) {
	return m.getByIDProperty, m.getByIDErr
}

func (m *mockPropertyRepo) List(context.Context, domain.PropertyFilter) ([]*domain.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepo) Update(context.Context, *domain.Property) error { return nil }
func (m *mockPropertyRepo) Delete(context.Context, uuid.UUID) error        { return nil }

func (m *mockPropertyRepo) SetApproval(context.Context, uuid.UUID, domain.ApprovalStatus) error {
	return nil
}

func (m *mockPropertyRepo) SetAvailability(context.Context, uuid.UUID, domain.Availability) error {
	return nil
}

type mockApplicationRepo struct {
	createErr error
	created   *domain.Application // captures the application passed to Create

	getByIDApplication *domain.Application
	getByIDErr         error

	updateStatusIfErr error
	updatedTo         domain.ApplicationStatus
	updatedReason     string
}

func (m *mockApplicationRepo) Create(_ context.Context, a *domain.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = a
	return nil
}

func (m *mockApplicationRepo) GetByID(context.Context, uuid.UUID) (*domain.Application, error) {
	return m.getByIDApplication, m.getByIDErr
}

func (m *mockApplicationRepo) ListByTenant(context.Context, uuid.UUID) ([]*domain.Application, error) {
	return nil, nil
}

func (m *mockApplicationRepo) ListByLandlord(context.Context, uuid.UUID) ([]*domain.Application, error) {
	return nil, nil
}

func (m *mockApplicationRepo) ListByProperty(context.Context, uuid.UUID) ([]*domain.Application, error) {
	return nil, nil
}

func (m *mockApplicationRepo) UpdateStatusIf(_ context.Context, _ uuid.UUID, _, to domain.ApplicationStatus, reason string) error {
	if m.updateStatusIfErr != nil {
		return m.updateStatusIfErr
	}
	m.updatedTo = to
	m.updatedReason = reason
	return nil
}

type mockContractRepo struct {
	createErr       error
	createdContract *domain.Contract
	createdDeposit  *domain.Payment

	getByIDContract *domain.Contract
	getByIDErr      error

	terminateErr error
	terminatedID uuid.UUID

	renewErr        error
	renewedOldID    uuid.UUID
	renewSuccessor  *domain.Contract
}

func (m *mockContractRepo) CreateWithDeposit(_ context.Context, c *domain.Contract, deposit *domain.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdContract = c
	m.createdDeposit = deposit
	return nil
}

func (m *mockContractRepo) GetByID(context.Context, uuid.UUID) (*domain.Contract, error) {
	return m.getByIDContract, m.getByIDErr
}

func (m *mockContractRepo) ListByTenant(context.Context, uuid.UUID) ([]*domain.Contract, error) {
	return nil, nil
}

func (m *mockContractRepo) ListByLandlord(context.Context, uuid.UUID) ([]*domain.Contract, error) {
	return nil, nil
}

func (m *mockContractRepo) ListActive(context.Context) ([]*domain.Contract, error) { return nil, nil }

func (m *mockContractRepo) ListExpiring(context.Context, time.Time, time.Time) ([]*domain.Contract, error) {
	return nil, nil
}

func (m *mockContractRepo) Terminate(_ context.Context, id uuid.UUID) error {
	if m.terminateErr != nil {
		return m.terminateErr
	}
	m.terminatedID = id
	return nil
}

func (m *mockContractRepo) Renew(_ context.Context, oldID uuid.UUID, successor *domain.Contract) error {
	if m.renewErr != nil {
		return m.renewErr
	}
	m.renewedOldID = oldID
	m.renewSuccessor = successor
	return nil
}

func (m *mockContractRepo) UpdateStatusIf(context.Context, uuid.UUID, domain.ContractStatus, domain.ContractStatus) error {
	return nil
}

func (m *mockContractRepo) MarkExpiryNotified(context.Context, uuid.UUID, time.Time) error {
	return nil
}

type mockPaymentRepo struct {
	createErr error
	created   *domain.Payment

	getByIDPayment *domain.Payment
	getByIDErr     error

	markPaidErr  error
	markPaidTxID string

	setIntentErr error
	setIntentID  string

	setStatusErr    error
	setStatusTarget domain.PaymentStatus
}

func (m *mockPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = p
	return nil
}

func (m *mockPaymentRepo) GetByID(context.Context, uuid.UUID) (*domain.Payment, error) {
	return m.getByIDPayment, m.getByIDErr
}

func (m *mockPaymentRepo) ListByContract(context.Context, uuid.UUID) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) ListByTenant(context.Context, uuid.UUID) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) ListByLandlord(context.Context, uuid.UUID) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) ListDueWithin(context.Context, time.Time, time.Time) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkPaid(_ context.Context, _ uuid.UUID, txID, _ string, _ time.Time) error {
	if m.markPaidErr != nil {
		return m.markPaidErr
	}
	m.markPaidTxID = txID
	return nil
}

func (m *mockPaymentRepo) SetIntent(_ context.Context, _ uuid.UUID, intentID string) error {
	if m.setIntentErr != nil {
		return m.setIntentErr
	}
	m.setIntentID = intentID
	return nil
}

func (m *mockPaymentRepo) SetStatus(_ context.Context, _ uuid.UUID, status domain.PaymentStatus, _ string, _ time.Time) error {
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	m.setStatusTarget = status
	return nil
}

func (m *mockPaymentRepo) SweepOverdue(context.Context, time.Time) ([]*domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkReminded(context.Context, uuid.UUID, time.Time) error { return nil }

// ----- mock store, sink and gateway -----

type mockStore struct {
	properties   *mockPropertyRepo
	applications *mockApplicationRepo
	contracts    *mockContractRepo
	payments     *mockPaymentRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		properties:   &mockPropertyRepo{},
		applications: &mockApplicationRepo{},
		contracts:    &mockContractRepo{},
		payments:     &mockPaymentRepo{},
	}
}

func (m *mockStore) Properties() domain.PropertyRepository       { return m.properties }
func (m *mockStore) Applications() domain.ApplicationRepository  { return m.applications }
func (m *mockStore) Contracts() domain.ContractRepository        { return m.contracts }
func (m *mockStore) Payments() domain.PaymentRepository          { return m.payments }

// mockSink records every notification event.
type mockSink struct {
	events []notify.Event
}

func (m *mockSink) Notify(_ context.Context, e notify.Event) {
	m.events = append(m.events, e)
}

type mockGateway struct {
	intent *gateway.Intent
	err    error

	gotAmount   int64
	gotCurrency string
	gotMetadata map[string]string
}

func (m *mockGateway) CreateChargeIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotAmount = amount
	m.gotCurrency = currency
	m.gotMetadata = metadata
	return m.intent, nil
}

// ----- fixtures -----

var testClock = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// newTestService builds a Service over the mock store with a fixed clock.
func newTestService(store *mockStore, sink *mockSink, gw gateway.Gateway) *Service {
	s := NewService(store, sink, gw, "USD")
	s.now = func() time.Time { return testClock }
	return s
}

func tenantActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleTenant}
}

func landlordActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleLandlord}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
}
