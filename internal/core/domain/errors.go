package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")

	ErrIntentNotFound       = errors.New("transfer intent not found")
	ErrIntentNotEditable    = errors.New("transfer intent is not in draft state")
	ErrSubmissionInProgress = errors.New("transfer submission already in progress")
	ErrNoEligibleAccounts   = errors.New("no eligible accounts for transfer")
)

// FieldError is a message attached to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a state transition before any network call.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field message.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// RetryableTransferError is a failure after which the same idempotency key
// may be presented again. Fields carries server-side field messages, if any.
type RetryableTransferError struct {
	Message string
	Fields  []FieldError
	// Rejected is set when the bank refused the payload itself (a 400). The
	// user has to change the input; the service was reachable.
	Rejected bool
	Err      error
}

func (e *RetryableTransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed: %s: %v", e.Message, e.Err)
	}
	return "transfer failed: " + e.Message
}

func (e *RetryableTransferError) Unwrap() error { return e.Err }

// KeyConflictError reports that the bank already consumed the idempotency key.
type KeyConflictError struct {
	Message string
}

func (e *KeyConflictError) Error() string {
	return "idempotency key already processed: " + e.Message
}

// UnknownError is an unexpected response shape or transport failure. It is
// handled like a retryable failure with the same key.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unexpected transfer failure: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }
