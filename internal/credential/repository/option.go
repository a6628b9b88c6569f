package repository

import (
	"time"

	"unified-calendar/internal/model"
)

// GetOneAccountOptions filters a single account. Non-empty fields are ANDed.
type GetOneAccountOptions struct {
	ID       string
	UserID   string
	Provider model.Provider
}

// ListAccountsOptions filters accounts. Non-empty fields are ANDed.
type ListAccountsOptions struct {
	UserID   string
	Provider model.Provider
	Status   model.AccountStatus
}

// CreateAccountOptions holds a new active account. Tokens are ciphertext.
type CreateAccountOptions struct {
	UserID                string
	Provider              model.Provider
	AccountEmail          string
	AccessTokenEncrypted  string
	RefreshTokenEncrypted string
	TokenExpiry           time.Time
	Scopes                []string
}

// UpdateTokensOptions holds a refreshed grant. An empty
// RefreshTokenEncrypted keeps the stored one.
type UpdateTokensOptions struct {
	ID                    string
	AccessTokenEncrypted  string
	RefreshTokenEncrypted string
	TokenExpiry           time.Time
}

// DeleteAccountsOptions selects the accounts to remove.
type DeleteAccountsOptions struct {
	UserID   string
	Provider model.Provider
}
