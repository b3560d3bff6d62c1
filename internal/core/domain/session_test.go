package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *Session
	if nilSession.IsAuthenticated() {
		t.Error("nil session must not be authenticated")
	}
	if nilSession.Role() != "" {
		t.Error("nil session has no role")
	}
	if Anonymous().IsAuthenticated() {
		t.Error("anonymous session must not be authenticated")
	}
	if (&Session{Authenticated: true}).IsAuthenticated() {
		t.Error("session without identity must not be authenticated")
	}

	s := NewSession("sid", Identity{Email: "a@b.c", Role: RoleBanker}, time.Now())
	if !s.IsAuthenticated() || s.Role() != RoleBanker {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("client").Valid() || Role("").Valid() {
		t.Error("roles are case sensitive and must be known")
	}
}

func TestResource_Admits(t *testing.T) {
	open := NewResource("dashboard")
	for _, r := range Roles {
		if !open.Admits(r) {
			t.Errorf("empty role set should admit %s", r)
		}
	}

	restricted := NewResource("bankers", RoleAdmin)
	if !restricted.Admits(RoleAdmin) || restricted.Admits(RoleClient) {
		t.Error("restricted resource admits the wrong roles")
	}
}

func TestStateMismatch(t *testing.T) {
	if err := StateMismatch(IntentSubmitting, IntentDraft); !errors.Is(err, ErrSubmissionInProgress) {
		t.Errorf("expected ErrSubmissionInProgress, got %v", err)
	}
	if err := StateMismatch(IntentDraft, IntentSubmitting); !errors.Is(err, ErrIntentNotEditable) {
		t.Errorf("expected ErrIntentNotEditable, got %v", err)
	}
}

func TestTransferIntent_RequestDefaults(t *testing.T) {
	intent := &TransferIntent{SourceAccount: "a1", TargetIBAN: "gb82 west 1234 5698 7654 32", IdempotencyKey: "K1"}
	req := intent.Request()
	if req.Description != DefaultDescription {
		t.Errorf("expected default description, got %q", req.Description)
	}
	if req.TargetIBAN != "GB82WEST12345698765432" {
		t.Errorf("expected normalized IBAN, got %q", req.TargetIBAN)
	}
	if req.IdempotencyKey != "K1" {
		t.Errorf("expected key K1, got %q", req.IdempotencyKey)
	}
}

func TestSession_JSON(t *testing.T) {
	raw, err := json.Marshal(Anonymous())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "created_at") {
		t.Errorf("anonymous session must not carry a creation time: %s", raw)
	}

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	raw, err = json.Marshal(NewSession("s1", Identity{Role: RoleClient}, now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Session
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.CreatedAt.Equal(now) {
		t.Errorf("created_at lost in round trip: %s", raw)
	}
}
