package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

const testSecret = "handler-test-secret"

type stubSessions struct {
	loginFn   func(ctx context.Context, email, password string) (string, *domain.Session, error)
	sessions  map[string]*domain.Session
	loggedOut []string
}

func (s *stubSessions) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessions) Logout(_ context.Context, sid string) error {
	s.loggedOut = append(s.loggedOut, sid)
	return nil
}

func (s *stubSessions) Current(_ context.Context, sid string) *domain.Session {
	if session, ok := s.sessions[sid]; ok {
		return session
	}
	return domain.Anonymous()
}

func clientSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*domain.Session{
		"sid-client": domain.NewSession("sid-client", domain.Identity{Email: "c@example.com", Role: domain.RoleClient}, time.Now()),
	}}
}

func signedToken(t *testing.T, sid string) string {
	t.Helper()
	tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tkn
}

// serve runs h behind the Auth middleware, the way the router mounts it.
// params are path parameter name/value pairs.
func serve(t *testing.T, sessions *stubSessions, h echo.HandlerFunc, method, target, sid, body string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sid != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedToken(t, sid))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	err := middleware.Auth(testSecret, sessions)(h)(c)
	return rec, err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

type stubTransfers struct {
	submitFn  func(ctx context.Context, sid, id string, in ports.DraftInput) (*ports.SubmitResult, error)
	openFn    func(ctx context.Context, sid string) (*domain.TransferIntent, error)
	cancelled []string
}

func (s *stubTransfers) EligibleAccounts(context.Context, string) ([]domain.Account, error) {
	return nil, nil
}

func (s *stubTransfers) Open(ctx context.Context, sid string) (*domain.TransferIntent, error) {
	return s.openFn(ctx, sid)
}

func (s *stubTransfers) Get(context.Context, string, string) (*domain.TransferIntent, error) {
	return nil, domain.ErrIntentNotFound
}

func (s *stubTransfers) Edit(context.Context, string, string, ports.DraftInput) (*domain.TransferIntent, error) {
	return nil, domain.ErrIntentNotFound
}

func (s *stubTransfers) Submit(ctx context.Context, sid, id string, in ports.DraftInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, sid, id, in)
}

func (s *stubTransfers) Cancel(_ context.Context, _ string, id string) error {
	s.cancelled = append(s.cancelled, id)
	return nil
}
