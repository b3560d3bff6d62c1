package bankapi

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

const (
	keyProcessedMarker = "already processed"

	msgFixFields   = "Please correct the highlighted fields and try again."
	msgUnavailable = "The bank service is temporarily unavailable. Please try again shortly."
	msgThrottled   = "Too many requests. Please wait a moment and try again."
	msgNotAllowed  = "The bank refused this transfer for your session. Please try again."
)

// nonFieldKeys carry messages not attached to a single input.
var nonFieldKeys = map[string]bool{"detail": true, "non_field_errors": true, "error": true}

// errorBody decodes a validation error payload. Values are either a string or
// a list of strings; nested objects are ignored.
func errorBody(raw []byte) (general []string, fields []domain.FieldError) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		msgs := messages(m[k])
		if len(msgs) == 0 {
			continue
		}
		if nonFieldKeys[k] {
			general = append(general, msgs...)
			continue
		}
		for _, msg := range msgs {
			fields = append(fields, domain.FieldError{Field: k, Message: msg})
		}
	}
	return general, fields
}

func messages(raw json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

// keyConflict reports the idempotency_key message when the bank says the key
// was already consumed.
func keyConflict(fields []domain.FieldError) (string, bool) {
	for _, f := range fields {
		if f.Field == "idempotency_key" && strings.Contains(strings.ToLower(f.Message), keyProcessedMarker) {
			return f.Message, true
		}
	}
	return "", false
}
