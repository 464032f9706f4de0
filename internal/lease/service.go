// Package lease implements the rental lifecycle state machine: applications,
// contracts, payments and the transitions between them. It depends only on
// repository interfaces, an abstract notification sink and the payment
// gateway contract.
package lease

import (
	"time"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/notify"
)

// Store is the repository surface the lifecycle needs.
type Store interface {
	Properties() domain.PropertyRepository
	Applications() domain.ApplicationRepository
	Contracts() domain.ContractRepository
	Payments() domain.PaymentRepository
}

// Service executes lifecycle operations on behalf of an authenticated actor.
type Service struct {
	store    Store
	sink     notify.Sink
	gateway  gateway.Gateway
	currency string
	now      func() time.Time
}

func NewService(store Store, sink notify.Sink, gw gateway.Gateway, currency string) *Service {
	return &Service{
		store:    store,
		sink:     sink,
		gateway:  gw,
		currency: currency,
		now:      time.Now,
	}
}
