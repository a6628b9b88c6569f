package repository

import (
	"context"

	"unified-calendar/internal/model"
)

// Repository is the composed interface for the credential data store.
type Repository interface {
	AccountRepository
}

// AccountRepository defines data access for ConnectedAccount.
// Lookups return a zero-value account (ID == "") when nothing matches.
type AccountRepository interface {
	GetOneAccount(ctx context.Context, opt GetOneAccountOptions) (model.ConnectedAccount, error)
	ListAccounts(ctx context.Context, opt ListAccountsOptions) ([]model.ConnectedAccount, error)
	// ReplaceAccount removes every record of (user, provider) and inserts
	// the new one in a single transaction.
	ReplaceAccount(ctx context.Context, opt CreateAccountOptions) (model.ConnectedAccount, error)
	// UpdateTokens writes access token, expiry and (when set) refresh token
	// in one statement.
	UpdateTokens(ctx context.Context, opt UpdateTokensOptions) error
	UpdateStatus(ctx context.Context, id string, status model.AccountStatus) error
	DeleteAccounts(ctx context.Context, opt DeleteAccountsOptions) (int64, error)
}
