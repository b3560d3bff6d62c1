package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

func intent(id, key string) *domain.TransferIntent {
	return &domain.TransferIntent{ID: id, State: domain.IntentDraft, IdempotencyKey: key}
}

func TestTransferHandler_Submit_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		result  *ports.SubmitResult
		status  int
		present string
		absent  string
	}{
		{
			name: "succeeded",
			result: &ports.SubmitResult{
				Outcome:     domain.OutcomeSucceeded,
				Transaction: &domain.Transaction{ID: "tx-1", Amount: decimal.RequireFromString("10.00")},
				Intent:      intent("t-2", "K2"),
			},
			status:  http.StatusCreated,
			present: "next_intent",
			absent:  "intent",
		},
		{
			name:    "key conflict",
			result:  &ports.SubmitResult{Outcome: domain.OutcomeKeyConflict, Message: "already processed", Intent: intent("t-1", "K2")},
			status:  http.StatusConflict,
			present: "intent",
			absent:  "next_intent",
		},
		{
			name: "rejected by the bank",
			result: &ports.SubmitResult{
				Outcome:  domain.OutcomeRetryableFailure,
				Message:  "Please fix the highlighted fields.",
				Fields:   []domain.FieldError{{Field: "amount", Message: "Insufficient funds"}},
				Rejected: true,
				Intent:   intent("t-1", "K1"),
			},
			status:  http.StatusUnprocessableEntity,
			present: "field_errors",
			absent:  "next_intent",
		},
		{
			name: "bank unavailable",
			result: &ports.SubmitResult{
				Outcome: domain.OutcomeRetryableFailure,
				Message: "The bank service is temporarily unavailable.",
				Intent:  intent("t-1", "K1"),
			},
			status:  http.StatusServiceUnavailable,
			present: "intent",
			absent:  "next_intent",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transfers := &stubTransfers{
				submitFn: func(_ context.Context, sid, id string, _ ports.DraftInput) (*ports.SubmitResult, error) {
					if sid != "sid-client" || id != "t-1" {
						t.Fatalf("unexpected args: %s %s", sid, id)
					}
					return tc.result, nil
				},
			}
			h := NewTransferHandler(transfers)

			rec, err := serve(t, clientSessions(), h.Submit, http.MethodPost, "/transfers/t-1/submit", "sid-client", "", "id", "t-1")
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			resp := decode(t, rec)
			if resp["outcome"] != string(tc.result.Outcome) {
				t.Fatalf("unexpected outcome: %v", resp["outcome"])
			}
			if _, ok := resp[tc.present]; !ok {
				t.Fatalf("expected %q in %v", tc.present, resp)
			}
			if _, ok := resp[tc.absent]; ok {
				t.Fatalf("did not expect %q in %v", tc.absent, resp)
			}
		})
	}
}

func TestTransferHandler_Submit_BodyIsApplied(t *testing.T) {
	var got ports.DraftInput
	transfers := &stubTransfers{
		submitFn: func(_ context.Context, _, _ string, in ports.DraftInput) (*ports.SubmitResult, error) {
			got = in
			return &ports.SubmitResult{Outcome: domain.OutcomeSucceeded}, nil
		},
	}
	h := NewTransferHandler(transfers)

	_, err := serve(t, clientSessions(), h.Submit, http.MethodPost, "/transfers/t-1/submit", "sid-client",
		`{"target_iban":"DE89 3704 0044 0532 0130 00","amount":"12.50"}`, "id", "t-1")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.TargetIBAN == nil || *got.TargetIBAN != "DE89 3704 0044 0532 0130 00" {
		t.Fatalf("target iban not passed through: %v", got.TargetIBAN)
	}
	if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("amount not passed through: %v", got.Amount)
	}
	if got.SourceAccount != nil {
		t.Fatalf("absent field must stay nil")
	}
}

func TestTransferHandler_Submit_InvalidIBAN(t *testing.T) {
	transfers := &stubTransfers{
		submitFn: func(context.Context, string, string, ports.DraftInput) (*ports.SubmitResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewTransferHandler(transfers)

	_, err := serve(t, clientSessions(), h.Submit, http.MethodPost, "/transfers/t-1/submit", "sid-client",
		`{"target_iban":"not an iban"}`, "id", "t-1")

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields[0].Field != "target_iban" || verr.Fields[0].Message != "Invalid IBAN format" {
		t.Fatalf("unexpected field error: %+v", verr.Fields)
	}
}

func TestTransferHandler_Submit_ServiceErrorPassesThrough(t *testing.T) {
	transfers := &stubTransfers{
		submitFn: func(context.Context, string, string, ports.DraftInput) (*ports.SubmitResult, error) {
			return nil, domain.ErrSubmissionInProgress
		},
	}
	h := NewTransferHandler(transfers)

	_, err := serve(t, clientSessions(), h.Submit, http.MethodPost, "/transfers/t-1/submit", "sid-client", "", "id", "t-1")
	if !errors.Is(err, domain.ErrSubmissionInProgress) {
		t.Fatalf("expected ErrSubmissionInProgress, got %v", err)
	}
}

func TestTransferHandler_RequiresSession(t *testing.T) {
	h := NewTransferHandler(&stubTransfers{})

	_, err := serve(t, clientSessions(), h.Cancel, http.MethodDelete, "/transfers/t-1", "", "", "id", "t-1")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTransferHandler_Open(t *testing.T) {
	transfers := &stubTransfers{
		openFn: func(_ context.Context, sid string) (*domain.TransferIntent, error) {
			return intent("t-9", "K1"), nil
		},
	}
	h := NewTransferHandler(transfers)

	rec, err := serve(t, clientSessions(), h.Open, http.MethodPost, "/transfers", "sid-client", "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/transfers/t-9" {
		t.Fatalf("unexpected location %q", loc)
	}
	if decode(t, rec)["idempotency_key"] != "K1" {
		t.Fatalf("expected key K1")
	}
}

func TestTransferHandler_Cancel(t *testing.T) {
	transfers := &stubTransfers{}
	h := NewTransferHandler(transfers)

	rec, err := serve(t, clientSessions(), h.Cancel, http.MethodDelete, "/transfers/t-1", "sid-client", "", "id", "t-1")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(transfers.cancelled) != 1 || transfers.cancelled[0] != "t-1" {
		t.Fatalf("unexpected cancels: %v", transfers.cancelled)
	}
}
