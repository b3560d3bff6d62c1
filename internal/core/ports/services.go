package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// SessionService handles login, logout and session lookup.
type SessionService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) *domain.Session
}

// DraftInput carries the editable fields of a transfer draft. Nil fields are
// left unchanged.
type DraftInput struct {
	SourceAccount *string
	TargetIBAN    *string
	Amount        *decimal.Decimal
	Description   *string
}

// SubmitResult is the outcome of one submission attempt.
type SubmitResult struct {
	Outcome domain.Outcome
	Message string
	Fields  []domain.FieldError
	// Rejected marks a retryable failure caused by the submitted content
	// rather than by the bank's availability.
	Rejected    bool
	Transaction *domain.Transaction
	// Intent is the draft to show next: the same intent after a failure, a
	// fresh intent after success. Nil when the intent was discarded meanwhile.
	Intent *domain.TransferIntent
}

// TransferService drives the transfer intent lifecycle.
type TransferService interface {
	EligibleAccounts(ctx context.Context, sessionID string) ([]domain.Account, error)
	Open(ctx context.Context, sessionID string) (*domain.TransferIntent, error)
	Get(ctx context.Context, sessionID, intentID string) (*domain.TransferIntent, error)
	Edit(ctx context.Context, sessionID, intentID string, in DraftInput) (*domain.TransferIntent, error)
	Submit(ctx context.Context, sessionID, intentID string, in DraftInput) (*SubmitResult, error)
	Cancel(ctx context.Context, sessionID, intentID string) error
}
