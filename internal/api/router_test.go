package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

const routerSecret = "router-test-secret"

type fakeSessions map[string]*domain.Session

func (f fakeSessions) Login(context.Context, string, string) (string, *domain.Session, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (f fakeSessions) Logout(context.Context, string) error { return nil }

func (f fakeSessions) Current(_ context.Context, sid string) *domain.Session {
	if s, ok := f[sid]; ok {
		return s
	}
	return domain.Anonymous()
}

type fakeTransfers struct {
	submitErr error
}

func (f *fakeTransfers) EligibleAccounts(context.Context, string) ([]domain.Account, error) {
	return nil, nil
}

func (f *fakeTransfers) Open(context.Context, string) (*domain.TransferIntent, error) {
	return nil, domain.ErrNoEligibleAccounts
}

func (f *fakeTransfers) Get(context.Context, string, string) (*domain.TransferIntent, error) {
	return nil, domain.ErrIntentNotFound
}

func (f *fakeTransfers) Edit(context.Context, string, string, ports.DraftInput) (*domain.TransferIntent, error) {
	return nil, domain.ErrIntentNotEditable
}

func (f *fakeTransfers) Submit(context.Context, string, string, ports.DraftInput) (*ports.SubmitResult, error) {
	return nil, f.submitErr
}

func (f *fakeTransfers) Cancel(context.Context, string, string) error { return nil }

type fakeFeed struct{}

func (fakeFeed) Push(context.Context, string, ports.Notification) error { return nil }

func (fakeFeed) Drain(context.Context, string) ([]ports.Notification, error) {
	return []ports.Notification{{Level: "success", Outcome: "succeeded", IntentID: "t-1", Message: "done"}}, nil
}

func newTestRouter(t *testing.T, transfers *fakeTransfers) http.Handler {
	t.Helper()
	now := time.Now()
	return NewRouter(Dependencies{
		Sessions: fakeSessions{
			"client": domain.NewSession("client", domain.Identity{Role: domain.RoleClient}, now),
			"banker": domain.NewSession("banker", domain.Identity{Role: domain.RoleBanker}, now),
		},
		Transfers:     transfers,
		Notifications: fakeFeed{},
		JWTSecret:     routerSecret,
		Log:           zerolog.Nop(),
		Registry:      prometheus.NewRegistry(),
	})
}

func do(t *testing.T, h http.Handler, method, target, sid, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": sid}).SignedString([]byte(routerSecret))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tkn)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_GateRedirectsSafeRequests(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{})

	rec := do(t, h, http.MethodGet, "/transfers/t-1", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/accounts/eligible", "banker", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestRouter_GateAnswersUnsafeRequestsWithStatus(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{})

	rec := do(t, h, http.MethodPost, "/transfers/t-1/submit", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", body(t, rec)["redirect"])

	rec = do(t, h, http.MethodPost, "/transfers", "banker", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/dashboard", body(t, rec)["redirect"])
}

func TestRouter_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		err    error
		status int
		code   string
	}{
		{"not found", http.MethodGet, "/transfers/missing", nil, http.StatusNotFound, "not_found"},
		{"not editable", http.MethodPatch, "/transfers/t-1", nil, http.StatusConflict, "intent_not_editable"},
		{"no eligible accounts", http.MethodPost, "/transfers", nil, http.StatusUnprocessableEntity, "no_eligible_accounts"},
		{"in progress", http.MethodPost, "/transfers/t-1/submit", domain.ErrSubmissionInProgress, http.StatusConflict, "submission_in_progress"},
		{"validation", http.MethodPost, "/transfers/t-1/submit", domain.NewValidationError("amount", "Amount is required"), http.StatusUnprocessableEntity, "validation_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(t, &fakeTransfers{submitErr: tc.err})
			payload := ""
			if tc.method == http.MethodPatch {
				payload = `{"description":"rent"}`
			}

			rec := do(t, h, tc.method, tc.target, "client", payload)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, body(t, rec)["code"])
		})
	}
}

func TestRouter_ValidationCarriesFieldErrors(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{submitErr: domain.NewValidationError("amount", "Amount is required")})

	rec := do(t, h, http.MethodPost, "/transfers/t-1/submit", "client", "")
	fields, ok := body(t, rec)["field_errors"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "amount", fields[0].(map[string]any)["field"])
}

func TestRouter_LoginFailureIsUnauthorized(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{})

	rec := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"a@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", body(t, rec)["code"])
}

func TestRouter_Notifications(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{})

	rec := do(t, h, http.MethodGet, "/notifications", "client", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := body(t, rec)["notifications"].([]any)
	assert.Len(t, items, 1)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, &fakeTransfers{})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/ready", "", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_requests_total")
}
