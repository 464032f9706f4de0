// Package notify delivers lifecycle events to users: a persisted in-app
// notification, a real-time push over the pub/sub channel, and optionally an
// email. Delivery is fire-and-forget — failures are logged and never surface
// to the state transition that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
	redisstore "github.com/rentora/rentora/internal/store/redis"
)

// Event is a single notification to one user.
type Event struct {
	UserID   uuid.UUID      `json:"user_id"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Link     string         `json:"link,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	// Email requests email delivery in addition to in-app + real-time.
	Email bool `json:"-"`
}

// Sink is the abstract notify capability the lifecycle core depends on.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// Publisher pushes real-time payloads to per-user channels.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Notifier is the production Sink: Postgres persistence, Redis push, SMTP email.
type Notifier struct {
	store  domain.NotificationRepository
	users  domain.UserRepository
	pub    Publisher
	mailer Mailer
}

func New(store domain.NotificationRepository, users domain.UserRepository, pub Publisher, mailer Mailer) *Notifier {
	return &Notifier{
		store:  store,
		users:  users,
		pub:    pub,
		mailer: mailer,
	}
}

// Notify persists the notification, publishes it to the user's real-time
// channel and, when requested, emails the user. Each leg fails independently.
func (n *Notifier) Notify(ctx context.Context, e Event) {
	record := &domain.Notification{
		ID:        uuid.New(),
		UserID:    e.UserID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		Link:      e.Link,
		Metadata:  e.Metadata,
		CreatedAt: time.Now(),
	}

	if err := n.store.Create(ctx, record); err != nil {
		log.Error().Err(err).Str("type", e.Type).Stringer("user_id", e.UserID).
			Msg("notify: persist failed")
	}

	payload, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("type", e.Type).Msg("notify: marshal failed")
	} else if pubErr := n.pub.Publish(ctx, redisstore.UserChannel(e.UserID), payload); pubErr != nil {
		log.Warn().Err(pubErr).Str("type", e.Type).Stringer("user_id", e.UserID).
			Msg("notify: realtime publish failed")
	}

	if e.Email && n.mailer != nil {
		n.sendEmail(ctx, e)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, e Event) {
	user, err := n.users.GetByID(ctx, e.UserID)
	if err != nil {
		log.Warn().Err(err).Stringer("user_id", e.UserID).Msg("notify: email user lookup failed")
		return
	}
	if user.Email == "" {
		return
	}

	if err := n.mailer.Send(ctx, user.Email, e.Title, e.Message); err != nil {
		log.Warn().Err(err).Str("type", e.Type).Stringer("user_id", e.UserID).
			Msg("notify: email send failed")
	}
}
