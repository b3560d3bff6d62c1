package ports

import (
	"context"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// TransferListener receives intent lifecycle events.
type TransferListener interface {
	OnSucceeded(ctx context.Context, event domain.TransferEvent)
	OnRetryableFailure(ctx context.Context, event domain.TransferEvent, message string)
	OnKeyConflict(ctx context.Context, event domain.TransferEvent, message string)
}

// EventSink consumes dispatched lifecycle events.
type EventSink interface {
	Handle(ctx context.Context, event domain.TransferEvent) error
}

// AttemptJournal persists submission outcomes for audit.
type AttemptJournal interface {
	Record(ctx context.Context, event domain.TransferEvent) error
}

// Notification is a user-visible message produced by a lifecycle event.
type Notification struct {
	Level    string `json:"level"`
	Outcome  string `json:"outcome"`
	IntentID string `json:"intent_id"`
	Message  string `json:"message"`
}

// NotificationFeed is the per-session queue of notifications.
type NotificationFeed interface {
	Push(ctx context.Context, sessionID string, n Notification) error
	Drain(ctx context.Context, sessionID string) ([]Notification, error)
}
