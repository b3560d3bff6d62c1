package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

const maxDescriptionLen = 255

// applyDraft copies the non-nil fields of in onto t. The target IBAN is
// stored normalized.
func applyDraft(t *domain.TransferIntent, in ports.DraftInput) {
	if in.SourceAccount != nil {
		t.SourceAccount = *in.SourceAccount
	}
	if in.TargetIBAN != nil {
		t.TargetIBAN = domain.NormalizeIBAN(*in.TargetIBAN)
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
}

func draftIsEmpty(in ports.DraftInput) bool {
	return in.SourceAccount == nil && in.TargetIBAN == nil && in.Amount == nil && in.Description == nil
}

// validateDraft checks everything that can be refused before a network call.
// The balance check is advisory; the bank re-checks it.
func validateDraft(t *domain.TransferIntent) *domain.ValidationError {
	verr := &domain.ValidationError{}

	source, found := t.EligibleAccount(t.SourceAccount)
	switch {
	case t.SourceAccount == "":
		verr.Add("source_account", "Please select an account")
	case !found:
		verr.Add("source_account", "Account is not eligible for transfers")
	}

	switch {
	case !t.Amount.IsPositive():
		verr.Add("amount", "Amount must be greater than zero")
	case !t.Amount.Equal(t.Amount.Round(2)):
		verr.Add("amount", "Amount must have at most 2 decimal places")
	case found && t.Amount.GreaterThan(source.Balance):
		verr.Add("amount", fmt.Sprintf("Insufficient balance, only %s available", source.Balance.StringFixed(2)))
	}

	iban := domain.NormalizeIBAN(t.TargetIBAN)
	switch {
	case iban == "":
		verr.Add("target_iban", "Target IBAN is required")
	case !domain.ValidIBAN(iban):
		verr.Add("target_iban", "Invalid IBAN format")
	case found && iban == domain.NormalizeIBAN(source.IBAN):
		verr.Add("target_iban", "Cannot transfer to the same account")
	}

	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		verr.Add("description", fmt.Sprintf("Description must be at most %d characters", maxDescriptionLen))
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
