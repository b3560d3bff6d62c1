package service

import (
	"context"
	"sync"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	tokens   map[string]domain.Tokens
	putErr   error
	cleared  []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]*domain.Session),
		tokens:   make(map[string]domain.Tokens),
	}
}

func (s *stubSessionStore) Put(_ context.Context, session *domain.Session, tokens domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	clone := *session
	s.sessions[session.ID] = &clone
	s.tokens[session.ID] = tokens
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Tokens(_ context.Context, id string) (domain.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok {
		return domain.Tokens{}, domain.ErrSessionNotFound
	}
	return t, nil
}

func (s *stubSessionStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.tokens, id)
	s.cleared = append(s.cleared, id)
	return nil
}

type stubIntentStore struct {
	mu      sync.Mutex
	intents map[string]*domain.TransferIntent
}

func newStubIntentStore() *stubIntentStore {
	return &stubIntentStore{intents: make(map[string]*domain.TransferIntent)}
}

func cloneIntent(t *domain.TransferIntent) *domain.TransferIntent {
	clone := *t
	clone.Eligible = append([]domain.Account(nil), t.Eligible...)
	return &clone
}

func (s *stubIntentStore) Create(_ context.Context, t *domain.TransferIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[t.ID] = cloneIntent(t)
	return nil
}

func (s *stubIntentStore) Get(_ context.Context, id string) (*domain.TransferIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.intents[id]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	return cloneIntent(t), nil
}

func (s *stubIntentStore) Transition(_ context.Context, id string, from domain.IntentState, mutate func(*domain.TransferIntent) error) (*domain.TransferIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.intents[id]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	if t.State != from {
		return nil, domain.StateMismatch(t.State, from)
	}
	next := cloneIntent(t)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.intents[id] = next
	return cloneIntent(next), nil
}

func (s *stubIntentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, id)
	return nil
}

type stubBankAuth struct {
	loginFn   func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutErr error
	loggedOut []domain.Tokens
}

func (b *stubBankAuth) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return b.loginFn(ctx, email, password)
}

func (b *stubBankAuth) Logout(_ context.Context, tokens domain.Tokens) error {
	b.loggedOut = append(b.loggedOut, tokens)
	return b.logoutErr
}

type stubAccounts struct {
	pages [][]domain.Account
	err   error
}

func (a *stubAccounts) ListAccounts(_ context.Context, _ string, f ports.AccountFilter) (*ports.AccountPage, error) {
	if a.err != nil {
		return nil, a.err
	}
	idx := f.Page - 1
	if idx < 0 || idx >= len(a.pages) {
		return &ports.AccountPage{}, nil
	}
	return &ports.AccountPage{Accounts: a.pages[idx], HasNext: idx < len(a.pages)-1}, nil
}

// stubTransactions answers CreateTransaction from a scripted list of
// responses and records every request it receives.
type stubTransactions struct {
	mu        sync.Mutex
	responses []func(req domain.TransferRequest) (*domain.Transaction, error)
	calls     []domain.TransferRequest
	ctxErrs   []error
	// gate, when set, blocks each call until it receives a value.
	gate chan struct{}
	// entered is signalled when a call starts.
	entered chan struct{}
}

func (s *stubTransactions) CreateTransaction(ctx context.Context, _ string, req domain.TransferRequest) (*domain.Transaction, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	n := len(s.calls)
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}

	if n > len(s.responses) {
		return &domain.Transaction{ID: "tx-default"}, nil
	}
	return s.responses[n-1](req)
}

func (s *stubTransactions) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordedEvent struct {
	kind    domain.Outcome
	event   domain.TransferEvent
	message string
}

type stubListener struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (l *stubListener) OnSucceeded(_ context.Context, ev domain.TransferEvent) {
	l.record(domain.OutcomeSucceeded, ev, "")
}

func (l *stubListener) OnRetryableFailure(_ context.Context, ev domain.TransferEvent, msg string) {
	l.record(domain.OutcomeRetryableFailure, ev, msg)
}

func (l *stubListener) OnKeyConflict(_ context.Context, ev domain.TransferEvent, msg string) {
	l.record(domain.OutcomeKeyConflict, ev, msg)
}

func (l *stubListener) record(kind domain.Outcome, ev domain.TransferEvent, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, recordedEvent{kind: kind, event: ev, message: msg})
}

func (l *stubListener) all() []recordedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedEvent(nil), l.events...)
}
