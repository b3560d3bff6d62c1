package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

const (
	maxAccountPages = 50

	keyConflictMessage = "This transfer may already have gone through. Check your transaction history before trying again."
	unknownMessage     = "The transfer could not be confirmed. You can safely retry."
)

var errStaleAttempt = errors.New("stale submission attempt")

// TransferSubmitter drives the transfer intent state machine:
//
//	draft -> submitting -> (success) discarded, fresh draft prepared
//	                    -> (retryable) draft, same key
//	                    -> (key conflict) draft, new key
type TransferSubmitter struct {
	sessions     ports.SessionStore
	intents      ports.IntentStore
	accounts     ports.BankAccounts
	transactions ports.BankTransactions
	listener     ports.TransferListener
	log          zerolog.Logger

	newKey func() string
	newID  func() string
	now    func() time.Time
}

// TransferOption customises a TransferSubmitter.
type TransferOption func(*TransferSubmitter)

// WithKeyGenerator replaces the idempotency key generator.
func WithKeyGenerator(fn func() string) TransferOption {
	return func(s *TransferSubmitter) { s.newKey = fn }
}

// WithClock replaces the time source.
func WithClock(fn func() time.Time) TransferOption {
	return func(s *TransferSubmitter) { s.now = fn }
}

func NewTransferSubmitter(
	sessions ports.SessionStore,
	intents ports.IntentStore,
	accounts ports.BankAccounts,
	transactions ports.BankTransactions,
	listener ports.TransferListener,
	log zerolog.Logger,
	opts ...TransferOption,
) *TransferSubmitter {
	s := &TransferSubmitter{
		sessions:     sessions,
		intents:      intents,
		accounts:     accounts,
		transactions: transactions,
		listener:     listener,
		log:          log,
		newKey:       uuid.NewString,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EligibleAccounts pages through the session's bank accounts and keeps the
// ones usable as a transfer source.
func (s *TransferSubmitter) EligibleAccounts(ctx context.Context, sessionID string) ([]domain.Account, error) {
	tokens, err := s.sessions.Tokens(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("eligible accounts: %w", err)
	}

	var eligible []domain.Account
	for page := 1; page <= maxAccountPages; page++ {
		res, err := s.accounts.ListAccounts(ctx, tokens.Access, ports.AccountFilter{Page: page})
		if err != nil {
			return nil, fmt.Errorf("eligible accounts: page %d: %w", page, err)
		}
		for _, a := range res.Accounts {
			if a.EligibleForTransfer() {
				eligible = append(eligible, a)
			}
		}
		if !res.HasNext {
			break
		}
	}
	return eligible, nil
}

// Open creates a fresh draft with a newly generated idempotency key.
func (s *TransferSubmitter) Open(ctx context.Context, sessionID string) (*domain.TransferIntent, error) {
	eligible, err := s.EligibleAccounts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleAccounts
	}
	return s.createDraft(ctx, sessionID, eligible)
}

func (s *TransferSubmitter) createDraft(ctx context.Context, sessionID string, eligible []domain.Account) (*domain.TransferIntent, error) {
	now := s.now().UTC()
	intent := &domain.TransferIntent{
		ID:             s.newID(),
		SessionID:      sessionID,
		State:          domain.IntentDraft,
		IdempotencyKey: s.newKey(),
		Eligible:       eligible,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("open transfer: %w", err)
	}

	s.log.Debug().Str("intent_id", intent.ID).Str("session_id", sessionID).Msg("transfer draft opened")
	return intent, nil
}

// Get returns an intent owned by the session.
func (s *TransferSubmitter) Get(ctx context.Context, sessionID, intentID string) (*domain.TransferIntent, error) {
	intent, err := s.intents.Get(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.SessionID != sessionID {
		return nil, domain.ErrIntentNotFound
	}
	return intent, nil
}

// Edit updates draft fields. The idempotency key is left untouched.
func (s *TransferSubmitter) Edit(ctx context.Context, sessionID, intentID string, in ports.DraftInput) (*domain.TransferIntent, error) {
	if _, err := s.Get(ctx, sessionID, intentID); err != nil {
		return nil, err
	}
	return s.intents.Transition(ctx, intentID, domain.IntentDraft, func(t *domain.TransferIntent) error {
		applyDraft(t, in)
		t.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Cancel discards the intent. A response still in flight for it is dropped.
func (s *TransferSubmitter) Cancel(ctx context.Context, sessionID, intentID string) error {
	if _, err := s.Get(ctx, sessionID, intentID); err != nil {
		return err
	}
	if err := s.intents.Delete(ctx, intentID); err != nil {
		return fmt.Errorf("cancel transfer: %w", err)
	}
	s.log.Debug().Str("intent_id", intentID).Msg("transfer draft discarded")
	return nil
}

// Submit validates the draft, moves it to submitting and performs exactly one
// bank call. A second Submit while the first is outstanding fails with
// domain.ErrSubmissionInProgress without reaching the bank.
func (s *TransferSubmitter) Submit(ctx context.Context, sessionID, intentID string, in ports.DraftInput) (*ports.SubmitResult, error) {
	if _, err := s.Get(ctx, sessionID, intentID); err != nil {
		return nil, err
	}
	if !draftIsEmpty(in) {
		if _, err := s.Edit(ctx, sessionID, intentID, in); err != nil {
			return nil, err
		}
	}

	tokens, err := s.sessions.Tokens(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("submit transfer: %w", err)
	}

	submitting, err := s.intents.Transition(ctx, intentID, domain.IntentDraft, func(t *domain.TransferIntent) error {
		if verr := validateDraft(t); verr != nil {
			return verr
		}
		t.TargetIBAN = domain.NormalizeIBAN(t.TargetIBAN)
		t.State = domain.IntentSubmitting
		t.Attempts++
		t.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The bank call outlives the inbound request so the outcome is always
	// recorded against the intent.
	callCtx := context.WithoutCancel(ctx)
	tx, callErr := s.transactions.CreateTransaction(callCtx, tokens.Access, submitting.Request())

	if callErr == nil {
		return s.succeed(callCtx, submitting, tx)
	}
	return s.fail(callCtx, submitting, callErr)
}

func (s *TransferSubmitter) succeed(ctx context.Context, attempt *domain.TransferIntent, tx *domain.Transaction) (*ports.SubmitResult, error) {
	if _, err := s.intents.Transition(ctx, attempt.ID, domain.IntentSubmitting, sameAttempt(attempt)); err != nil {
		if s.isLate(err) {
			s.log.Info().Str("intent_id", attempt.ID).Str("idempotency_key", attempt.IdempotencyKey).Msg("late success for discarded intent")
			return &ports.SubmitResult{Outcome: domain.OutcomeSucceeded, Transaction: tx}, nil
		}
		return nil, fmt.Errorf("submit transfer: %w", err)
	}
	if err := s.intents.Delete(ctx, attempt.ID); err != nil {
		s.log.Warn().Err(err).Str("intent_id", attempt.ID).Msg("failed to discard completed intent")
	}

	s.listener.OnSucceeded(ctx, s.event(domain.OutcomeSucceeded, attempt, "", tx))

	next, err := s.createDraft(ctx, attempt.SessionID, refreshedBalances(attempt, tx))
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", attempt.SessionID).Msg("failed to prepare next draft")
	}

	s.log.Info().
		Str("intent_id", attempt.ID).
		Str("idempotency_key", attempt.IdempotencyKey).
		Str("transaction_id", tx.ID).
		Msg("transfer succeeded")

	return &ports.SubmitResult{Outcome: domain.OutcomeSucceeded, Transaction: tx, Intent: next}, nil
}

func (s *TransferSubmitter) fail(ctx context.Context, attempt *domain.TransferIntent, callErr error) (*ports.SubmitResult, error) {
	var conflict *domain.KeyConflictError
	if errors.As(callErr, &conflict) {
		nextKey := s.newKey()
		draft, err := s.intents.Transition(ctx, attempt.ID, domain.IntentSubmitting, func(t *domain.TransferIntent) error {
			if err := sameAttempt(attempt)(t); err != nil {
				return err
			}
			t.State = domain.IntentDraft
			t.IdempotencyKey = nextKey
			t.UpdatedAt = s.now().UTC()
			return nil
		})
		if err != nil {
			return s.lateFailure(attempt, domain.OutcomeKeyConflict, keyConflictMessage, err)
		}

		ev := s.event(domain.OutcomeKeyConflict, attempt, conflict.Message, nil)
		ev.NextKey = nextKey
		s.listener.OnKeyConflict(ctx, ev, keyConflictMessage)

		s.log.Warn().
			Str("intent_id", attempt.ID).
			Str("idempotency_key", attempt.IdempotencyKey).
			Str("next_key", nextKey).
			Msg("idempotency key already processed, key rotated")

		return &ports.SubmitResult{Outcome: domain.OutcomeKeyConflict, Message: keyConflictMessage, Intent: draft}, nil
	}

	message := unknownMessage
	var fields []domain.FieldError
	rejected := false
	var retryable *domain.RetryableTransferError
	if errors.As(callErr, &retryable) {
		message = retryable.Message
		fields = retryable.Fields
		rejected = retryable.Rejected
	}

	draft, err := s.intents.Transition(ctx, attempt.ID, domain.IntentSubmitting, func(t *domain.TransferIntent) error {
		if err := sameAttempt(attempt)(t); err != nil {
			return err
		}
		t.State = domain.IntentDraft
		t.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return s.lateFailure(attempt, domain.OutcomeRetryableFailure, message, err)
	}

	s.listener.OnRetryableFailure(ctx, s.event(domain.OutcomeRetryableFailure, attempt, message, nil), message)

	s.log.Warn().
		Err(callErr).
		Str("intent_id", attempt.ID).
		Str("idempotency_key", attempt.IdempotencyKey).
		Msg("transfer failed, key kept for retry")

	return &ports.SubmitResult{
		Outcome:  domain.OutcomeRetryableFailure,
		Message:  message,
		Fields:   fields,
		Rejected: rejected,
		Intent:   draft,
	}, nil
}

func (s *TransferSubmitter) lateFailure(attempt *domain.TransferIntent, outcome domain.Outcome, message string, err error) (*ports.SubmitResult, error) {
	if s.isLate(err) {
		s.log.Info().Str("intent_id", attempt.ID).Str("outcome", string(outcome)).Msg("late failure for discarded intent")
		return &ports.SubmitResult{Outcome: outcome, Message: message}, nil
	}
	return nil, fmt.Errorf("submit transfer: %w", err)
}

func (s *TransferSubmitter) isLate(err error) bool {
	return errors.Is(err, domain.ErrIntentNotFound) || errors.Is(err, errStaleAttempt)
}

func (s *TransferSubmitter) event(outcome domain.Outcome, attempt *domain.TransferIntent, message string, tx *domain.Transaction) domain.TransferEvent {
	return domain.TransferEvent{
		Outcome:        outcome,
		IntentID:       attempt.ID,
		SessionID:      attempt.SessionID,
		IdempotencyKey: attempt.IdempotencyKey,
		Amount:         attempt.Amount,
		Message:        message,
		Transaction:    tx,
		OccurredAt:     s.now().UTC(),
	}
}

// sameAttempt guards a completion against an intent that was cancelled and
// reopened under the same ID, or already completed by another writer.
func sameAttempt(attempt *domain.TransferIntent) func(*domain.TransferIntent) error {
	return func(t *domain.TransferIntent) error {
		if t.Attempts != attempt.Attempts || t.IdempotencyKey != attempt.IdempotencyKey {
			return errStaleAttempt
		}
		return nil
	}
}

// refreshedBalances returns the eligible set with the source balance updated
// from the completed transaction.
func refreshedBalances(attempt *domain.TransferIntent, tx *domain.Transaction) []domain.Account {
	out := make([]domain.Account, len(attempt.Eligible))
	copy(out, attempt.Eligible)
	for i := range out {
		if out[i].ID == attempt.SourceAccount {
			if tx != nil && !tx.BalanceAfter.IsZero() {
				out[i].Balance = tx.BalanceAfter
			} else {
				out[i].Balance = out[i].Balance.Sub(attempt.Amount)
			}
		}
	}
	return out
}
