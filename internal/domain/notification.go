package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification event types emitted by the rental lifecycle.
const (
	NotifyApplicationReceived = "application_received"
	NotifyApplicationApproved = "application_approved"
	NotifyApplicationRejected = "application_rejected"
	NotifyContractCreated     = "contract_created"
	NotifyContractTerminated  = "contract_terminated"
	NotifyContractExpiring    = "contract_expiring"
	NotifyPaymentDue          = "payment_due"
	NotifyPaymentReminder     = "payment_reminder"
	NotifyPaymentOverdue      = "payment_overdue"
	NotifyPaymentReceived     = "payment_received"
	NotifyPropertyApproved    = "property_approved"
	NotifyPropertyRejected    = "property_rejected"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Message   string
	Link      string
	Metadata  map[string]any
	Read      bool
	CreatedAt time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
