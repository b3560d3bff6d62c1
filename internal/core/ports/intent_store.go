package ports

import (
	"context"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// IntentStore persists transfer intents.
type IntentStore interface {
	Create(ctx context.Context, intent *domain.TransferIntent) error
	Get(ctx context.Context, intentID string) (*domain.TransferIntent, error)
	// Transition atomically applies mutate to the intent if it is currently
	// in state from. Nothing is written when mutate returns an error, which is
	// passed through. It returns domain.ErrIntentNotFound if the intent is gone,
	// domain.ErrSubmissionInProgress if it is submitting while from is draft,
	// and domain.ErrIntentNotEditable for any other state mismatch.
	Transition(ctx context.Context, intentID string, from domain.IntentState, mutate func(*domain.TransferIntent) error) (*domain.TransferIntent, error)
	Delete(ctx context.Context, intentID string) error
}
