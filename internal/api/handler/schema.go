package handler

import (
	"github.com/shopspring/decimal"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/core/service"
)

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token      string             `json:"token"`
	Session    *domain.Session    `json:"session"`
	Navigation []service.MenuItem `json:"navigation"`
}

type sessionResponse struct {
	Session    *domain.Session    `json:"session"`
	Navigation []service.MenuItem `json:"navigation"`
}

// --- Views ---

type viewResponse struct {
	View    string `json:"view"`
	Allowed bool   `json:"allowed"`
}

type navigationResponse struct {
	Items []service.MenuItem `json:"items"`
}

// --- Transfers ---

// draftRequest edits a draft. Absent fields are left unchanged; partial
// input is accepted until submission.
type draftRequest struct {
	SourceAccount *string          `json:"source_account"`
	TargetIBAN    *string          `json:"target_iban"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   *string          `json:"description" validate:"omitempty,max=255"`
}

// submitRequest carries final field values applied before submission.
type submitRequest struct {
	SourceAccount *string          `json:"source_account"`
	TargetIBAN    *string          `json:"target_iban" validate:"omitempty,iban"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   *string          `json:"description" validate:"omitempty,max=255"`
}

func (r draftRequest) input() ports.DraftInput {
	return ports.DraftInput{SourceAccount: r.SourceAccount, TargetIBAN: r.TargetIBAN, Amount: r.Amount, Description: r.Description}
}

func (r submitRequest) input() ports.DraftInput {
	return ports.DraftInput{SourceAccount: r.SourceAccount, TargetIBAN: r.TargetIBAN, Amount: r.Amount, Description: r.Description}
}

type eligibleAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

type submitResponse struct {
	Outcome     domain.Outcome         `json:"outcome"`
	Message     string                 `json:"message,omitempty"`
	FieldErrors []domain.FieldError    `json:"field_errors,omitempty"`
	Transaction *domain.Transaction    `json:"transaction,omitempty"`
	Intent      *domain.TransferIntent `json:"intent,omitempty"`
	NextIntent  *domain.TransferIntent `json:"next_intent,omitempty"`
}

// --- Notifications ---

type notificationsResponse struct {
	Notifications []ports.Notification `json:"notifications"`
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code,omitempty"`
	FieldErrors []domain.FieldError `json:"field_errors,omitempty"`
}
