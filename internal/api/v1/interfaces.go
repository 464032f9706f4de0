package v1

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/lease"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Properties() domain.PropertyRepository
	Applications() domain.ApplicationRepository
	Contracts() domain.ContractRepository
	Payments() domain.PaymentRepository
	Notifications() domain.NotificationRepository
	Analytics() domain.AnalyticsRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name, phone, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// LeaseService abstracts the rental lifecycle operations for handler testing.
// *lease.Service satisfies this interface.
type LeaseService interface {
	CreateApplication(ctx context.Context, actor domain.Actor, propertyID uuid.UUID, message string, moveIn time.Time) (*domain.Application, error)
	DecideApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID, approve bool, rejectionReason string) (*domain.Application, error)
	WithdrawApplication(ctx context.Context, actor domain.Actor, applicationID uuid.UUID) (*domain.Application, error)
	CreateContract(ctx context.Context, actor domain.Actor, params lease.CreateContractParams) (*domain.Contract, error)
	TerminateContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID) (*domain.Contract, error)
	RenewContract(ctx context.Context, actor domain.Actor, contractID uuid.UUID, params lease.RenewContractParams) (*domain.Contract, error)
	CreatePayment(ctx context.Context, actor domain.Actor, params lease.CreatePaymentParams) (*domain.Payment, error)
	ProcessPayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) (*gateway.Intent, error)
	ConfirmPayment(ctx context.Context, paymentID uuid.UUID, txID, method string) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, status domain.PaymentStatus, notes string) (*domain.Payment, error)
}

// lifecycleError maps domain sentinel errors onto HTTP problem responses.
// Only the sentinel kind and msg reach the client, never wrapped internals.
func lifecycleError(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(msg)
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(msg)
	case errors.Is(err, domain.ErrValidation):
		return huma.Error422UnprocessableEntity(msg)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
