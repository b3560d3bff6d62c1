package ports

import (
	"context"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// SessionStore owns the session cells, one per partition.
// Put and Clear are all-or-nothing over the session record and its tokens;
// a concurrent Get observes either the old or the new state, never a mix.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session, tokens domain.Tokens) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Tokens(ctx context.Context, sessionID string) (domain.Tokens, error)
	// Clear removes the session, its tokens and its drafts. Clearing an
	// unknown partition is not an error.
	Clear(ctx context.Context, sessionID string) error
}
