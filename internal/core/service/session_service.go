package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

const remoteLogoutTimeout = 5 * time.Second

// SessionService implements login, logout and session lookup.
type SessionService struct {
	store     ports.SessionStore
	bank      ports.BankAuth
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewSessionService(store ports.SessionStore, bank ports.BankAuth, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		store:     store,
		bank:      bank,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Login authenticates against the bank identity service and establishes a new
// session partition. The session record and the bank tokens are stored in one
// atomic write; the returned string is the gateway token locating it.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	res, err := s.bank.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if !res.Identity.Role.Valid() {
		return "", nil, fmt.Errorf("login: unknown role %q", res.Identity.Role)
	}

	session := domain.NewSession(uuid.NewString(), res.Identity, s.now())
	if err := s.store.Put(ctx, session, res.Tokens); err != nil {
		return "", nil, fmt.Errorf("login: store session: %w", err)
	}

	token, err := s.generateToken(session)
	if err != nil {
		_ = s.store.Clear(ctx, session.ID)
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.log.Info().Str("session_id", session.ID).Str("role", string(session.Role())).Msg("session established")
	return token, session, nil
}

// Logout revokes the bank tokens (best effort) and clears the partition. The
// clear runs whether or not the remote call succeeds.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	tokens, err := s.store.Tokens(ctx, sessionID)
	if err == nil && tokens.Refresh != "" {
		remoteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), remoteLogoutTimeout)
		if rerr := s.bank.Logout(remoteCtx, tokens); rerr != nil {
			s.log.Warn().Err(rerr).Str("session_id", sessionID).Msg("remote logout failed, clearing session anyway")
		}
		cancel()
	} else if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("load tokens for logout")
	}

	if err := s.store.Clear(context.WithoutCancel(ctx), sessionID); err != nil {
		return fmt.Errorf("logout: clear session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("session cleared")
	return nil
}

// Current returns the session for sessionID, or the empty session.
func (s *SessionService) Current(ctx context.Context, sessionID string) *domain.Session {
	if sessionID == "" {
		return domain.Anonymous()
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
		}
		return domain.Anonymous()
	}
	return session
}

func (s *SessionService) generateToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":   session.ID,
		"email": session.Identity.Email,
		"role":  string(session.Role()),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
