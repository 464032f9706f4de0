package lease

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
)

// Authorization predicates. Each lifecycle operation runs exactly one of
// these against the actor's role and ownership relationship, instead of
// scattering role conditionals through the handlers.

func requireRole(actor domain.Actor, roles ...string) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q not permitted: %w", actor.Role, domain.ErrForbidden)
}

// canDecideApplication allows the owning landlord or an admin.
func canDecideApplication(actor domain.Actor, a *domain.Application) error {
	if actor.IsAdmin() || (actor.Role == domain.RoleLandlord && actor.ID == a.LandlordID) {
		return nil
	}
	return fmt.Errorf("not the owning landlord: %w", domain.ErrForbidden)
}

// canWithdrawApplication allows only the applying tenant.
func canWithdrawApplication(actor domain.Actor, a *domain.Application) error {
	if actor.ID == a.TenantID {
		return nil
	}
	return fmt.Errorf("not the applying tenant: %w", domain.ErrForbidden)
}

// canManageContract allows the owning landlord or an admin.
func canManageContract(actor domain.Actor, landlordID uuid.UUID) error {
	if actor.IsAdmin() || (actor.Role == domain.RoleLandlord && actor.ID == landlordID) {
		return nil
	}
	return fmt.Errorf("not the owning landlord: %w", domain.ErrForbidden)
}

// canPayPayment allows only the owing tenant.
func canPayPayment(actor domain.Actor, p *domain.Payment) error {
	if actor.ID == p.TenantID {
		return nil
	}
	return fmt.Errorf("not the owing tenant: %w", domain.ErrForbidden)
}
