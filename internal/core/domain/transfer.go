package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the application status of a bank account.
type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountApproved AccountStatus = "APPROVED"
	AccountRejected AccountStatus = "REJECTED"
)

// Account is a bank account as listed by the bank service.
type Account struct {
	ID            string          `json:"id"`
	IBAN          string          `json:"iban"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	HasLinkedCard bool            `json:"has_linked_card"`
}

// EligibleForTransfer reports whether a can be used as a transfer source:
// approved and holding a linked active card.
func (a Account) EligibleForTransfer() bool {
	return a.Status == AccountApproved && a.HasLinkedCard
}

// IntentState is the lifecycle state of a TransferIntent.
type IntentState string

const (
	IntentDraft      IntentState = "draft"
	IntentSubmitting IntentState = "submitting"
)

// Outcome names the terminal result of one submission attempt.
type Outcome string

const (
	OutcomeSucceeded        Outcome = "succeeded"
	OutcomeRetryableFailure Outcome = "retryable_failure"
	OutcomeKeyConflict      Outcome = "key_conflict"
)

// DefaultDescription is used when the draft has no description.
const DefaultDescription = "Transfer"

// TransferIntent is one logical transfer attempt owned by a session partition.
// IdempotencyKey is bound at creation and only rotated on a key conflict.
type TransferIntent struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"-"`
	State          IntentState     `json:"state"`
	SourceAccount  string          `json:"source_account"`
	TargetIBAN     string          `json:"target_iban"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
	// Eligible is the set of source accounts the intent was opened with.
	Eligible  []Account `json:"eligible_accounts"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EligibleAccount returns the eligible account with the given ID.
func (t *TransferIntent) EligibleAccount(id string) (Account, bool) {
	for _, a := range t.Eligible {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// TransferRequest is the payload presented to the bank transaction endpoint.
type TransferRequest struct {
	SourceAccount  string          `json:"source_account"`
	TargetIBAN     string          `json:"target_iban"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Request builds the bank payload for the intent's current fields.
func (t *TransferIntent) Request() TransferRequest {
	desc := t.Description
	if desc == "" {
		desc = DefaultDescription
	}
	return TransferRequest{
		SourceAccount:  t.SourceAccount,
		TargetIBAN:     NormalizeIBAN(t.TargetIBAN),
		Amount:         t.Amount,
		Description:    desc,
		IdempotencyKey: t.IdempotencyKey,
	}
}

// Transaction is the debit created by a successful transfer.
type Transaction struct {
	ID              string          `json:"id"`
	BankAccount     string          `json:"bank_account"`
	AccountIBAN     string          `json:"account_iban"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	ReferenceIBAN   string          `json:"reference_iban,omitempty"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransferEvent is a lifecycle notification emitted after a submission attempt.
type TransferEvent struct {
	Outcome        Outcome
	IntentID       string
	SessionID      string
	IdempotencyKey string
	// NextKey is the rotated key after a key conflict.
	NextKey     string
	Amount      decimal.Decimal
	Message     string
	Transaction *Transaction
	OccurredAt  time.Time
}

// StateMismatch returns the error for a transition expecting from while the
// intent is in current.
func StateMismatch(current, from IntentState) error {
	if from == IntentDraft && current == IntentSubmitting {
		return ErrSubmissionInProgress
	}
	return ErrIntentNotEditable
}
