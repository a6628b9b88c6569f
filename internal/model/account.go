package model

import (
	"fmt"
	"time"
)

// Provider identifies an external calendar provider.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderMicrosoft Provider = "microsoft"
)

// Providers lists every supported provider in a stable order.
var Providers = []Provider{ProviderGoogle, ProviderMicrosoft}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

// AccountStatus is the connection status of a ConnectedAccount.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusNeedsReauth AccountStatus = "needs_reauth"
)

// ConnectedAccount is one (user, provider) OAuth pairing.
// Token fields hold ciphertext only.
type ConnectedAccount struct {
	ID                    string
	UserID                string
	Provider              Provider
	AccountEmail          string
	AccessTokenEncrypted  string
	RefreshTokenEncrypted string
	TokenExpiry           time.Time
	Scopes                []string
	Status                AccountStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsActive reports whether the account can be used for provider calls.
func (a ConnectedAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccessToken is a decrypted, currently valid bearer token.
type AccessToken struct {
	AccountID string
	Value     string
	Expiry    time.Time
}
