package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

const collectionAttempts = "transfer_attempts"

// attemptDocument is one submission outcome in the transfer_attempts journal.
type attemptDocument struct {
	IntentID       string    `bson:"intent_id"`
	SessionID      string    `bson:"session_id"`
	Outcome        string    `bson:"outcome"`
	IdempotencyKey string    `bson:"idempotency_key"`
	NextKey        string    `bson:"next_key,omitempty"`
	Amount         string    `bson:"amount"`
	Message        string    `bson:"message,omitempty"`
	TransactionID  string    `bson:"transaction_id,omitempty"`
	OccurredAt     time.Time `bson:"occurred_at"`
	RecordedAt     time.Time `bson:"recorded_at"`
}

// AttemptRepository journals transfer submission outcomes for audit.
type AttemptRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{col: db.Collection(collectionAttempts), now: time.Now}
}

// EnsureIndexes creates the lookup indexes used by support tooling: by
// idempotency key, and by session in time order.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure transfer_attempts indexes: %w", err)
	}
	return nil
}

// Record inserts one journal entry.
func (r *AttemptRepository) Record(ctx context.Context, ev domain.TransferEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newAttemptDocument(ev, r.now())); err != nil {
		return fmt.Errorf("record transfer attempt: %w", err)
	}
	return nil
}

func newAttemptDocument(ev domain.TransferEvent, now time.Time) attemptDocument {
	doc := attemptDocument{
		IntentID:       ev.IntentID,
		SessionID:      ev.SessionID,
		Outcome:        string(ev.Outcome),
		IdempotencyKey: ev.IdempotencyKey,
		NextKey:        ev.NextKey,
		Amount:         ev.Amount.StringFixed(2),
		Message:        ev.Message,
		OccurredAt:     ev.OccurredAt.UTC(),
		RecordedAt:     now.UTC(),
	}
	if ev.Transaction != nil {
		doc.TransactionID = ev.Transaction.ID
	}
	return doc
}
