package credential

import (
	"context"

	"golang.org/x/oauth2"

	"unified-calendar/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Tokens
	GetValidToken(ctx context.Context, accountID string) (model.AccessToken, error)
	ForceRefresh(ctx context.Context, accountID string, rejected string) (model.AccessToken, error)

	// Account lifecycle
	Connect(ctx context.Context, input ConnectInput) (model.ConnectedAccount, error)
	Disconnect(ctx context.Context, sc model.Scope, provider model.Provider) error
	ListAccounts(ctx context.Context, sc model.Scope) ([]model.ConnectedAccount, error)
	GetAccount(ctx context.Context, sc model.Scope, provider model.Provider) (model.ConnectedAccount, error)
}

// Refresher performs the OAuth refresh_token grant against a provider.
type Refresher interface {
	Refresh(ctx context.Context, provider string, refreshToken string) (*oauth2.Token, error)
}
