package ports

import (
	"context"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// LoginResult is the bank identity service answer to a successful login.
type LoginResult struct {
	Identity domain.Identity
	Tokens   domain.Tokens
}

// BankAuth is the bank identity service.
type BankAuth interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, tokens domain.Tokens) error
}

// AccountPage is one page of the bank account listing.
type AccountPage struct {
	Count    int
	HasNext  bool
	Accounts []domain.Account
}

// AccountFilter narrows the bank account listing.
type AccountFilter struct {
	Page   int
	Status domain.AccountStatus
}

// BankAccounts is the bank account listing service.
type BankAccounts interface {
	ListAccounts(ctx context.Context, accessToken string, filter AccountFilter) (*AccountPage, error)
}

// BankTransactions is the bank transaction service. CreateTransaction returns
// *domain.KeyConflictError, *domain.RetryableTransferError or
// *domain.UnknownError on failure.
type BankTransactions interface {
	CreateTransaction(ctx context.Context, accessToken string, req domain.TransferRequest) (*domain.Transaction, error)
}
