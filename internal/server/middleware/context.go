package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(string)
	return v, ok
}

// ActorFromContext assembles the authenticated actor for lifecycle operations.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	id, ok := UserIDFromContext(ctx)
	if !ok || id == uuid.Nil {
		return domain.Actor{}, false
	}
	role, ok := RoleFromContext(ctx)
	if !ok || role == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}
