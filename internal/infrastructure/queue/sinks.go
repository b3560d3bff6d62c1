package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

// SinkFunc adapts a function to ports.EventSink.
type SinkFunc func(ctx context.Context, ev domain.TransferEvent) error

func (f SinkFunc) Handle(ctx context.Context, ev domain.TransferEvent) error { return f(ctx, ev) }

// JournalSink writes every outcome to the attempt journal.
func JournalSink(journal ports.AttemptJournal) Sink {
	return Sink{Name: "journal", Handler: SinkFunc(journal.Record)}
}

// NotificationSink pushes a user-visible message to the owning session.
func NotificationSink(feed ports.NotificationFeed) Sink {
	return Sink{Name: "notifications", Handler: SinkFunc(func(ctx context.Context, ev domain.TransferEvent) error {
		return feed.Push(ctx, ev.SessionID, notificationFor(ev))
	})}
}

// MetricsSink counts outcomes.
func MetricsSink() Sink {
	return Sink{Name: "metrics", Handler: SinkFunc(func(_ context.Context, ev domain.TransferEvent) error {
		metrics.TransferOutcomesTotal.WithLabelValues(string(ev.Outcome)).Inc()
		return nil
	})}
}

// LogSink writes one structured line per outcome.
func LogSink(log zerolog.Logger) Sink {
	return Sink{Name: "log", Handler: SinkFunc(func(_ context.Context, ev domain.TransferEvent) error {
		e := log.Info()
		if ev.Outcome != domain.OutcomeSucceeded {
			e = log.Warn()
		}
		e = e.Str("intent_id", ev.IntentID).
			Str("session_id", ev.SessionID).
			Str("outcome", string(ev.Outcome)).
			Str("idempotency_key", ev.IdempotencyKey).
			Str("amount", ev.Amount.StringFixed(2))
		if ev.NextKey != "" {
			e = e.Str("next_key", ev.NextKey)
		}
		if ev.Transaction != nil {
			e = e.Str("transaction_id", ev.Transaction.ID)
		}
		e.Msg("transfer lifecycle event")
		return nil
	})}
}

func notificationFor(ev domain.TransferEvent) ports.Notification {
	n := ports.Notification{
		Outcome:  string(ev.Outcome),
		IntentID: ev.IntentID,
		Message:  ev.Message,
	}
	switch ev.Outcome {
	case domain.OutcomeSucceeded:
		n.Level = "success"
		n.Message = "Transfer of " + ev.Amount.StringFixed(2) + " completed"
	case domain.OutcomeKeyConflict:
		n.Level = "warning"
	default:
		n.Level = "error"
	}
	return n
}
