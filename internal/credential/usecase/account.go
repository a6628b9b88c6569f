package usecase

import (
	"context"
	"time"

	"unified-calendar/internal/credential"
	repo "unified-calendar/internal/credential/repository"
	"unified-calendar/internal/model"
)

// Connect stores a freshly consented grant, replacing any earlier account
// of the same (user, provider).
func (uc *implUseCase) Connect(ctx context.Context, input credential.ConnectInput) (model.ConnectedAccount, error) {
	if input.UserID == "" {
		return model.ConnectedAccount{}, credential.ErrMissingUser
	}
	if _, err := model.ParseProvider(string(input.Provider)); err != nil {
		return model.ConnectedAccount{}, err
	}
	if input.AccessToken == "" {
		return model.ConnectedAccount{}, credential.ErrMissingAccessToken
	}
	if input.RefreshToken == "" {
		return model.ConnectedAccount{}, credential.ErrMissingRefreshToken
	}

	expiry := input.Expiry
	if expiry.IsZero() {
		expiry = uc.now().Add(time.Hour)
	}

	email := input.AccountEmail
	if email == "" && uc.adapters != nil {
		if adapter, err := uc.adapters.Get(input.Provider); err == nil {
			email, err = adapter.AccountEmail(ctx, model.AccessToken{Value: input.AccessToken, Expiry: expiry})
			if err != nil {
				uc.l.Warnf(ctx, "uc.Connect AccountEmail: %v", err)
			}
		}
	}

	accessEnc, err := uc.enc.Encrypt(input.AccessToken)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Connect Encrypt: %v", err)
		return model.ConnectedAccount{}, err
	}
	refreshEnc, err := uc.enc.Encrypt(input.RefreshToken)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Connect Encrypt: %v", err)
		return model.ConnectedAccount{}, err
	}

	acc, err := uc.repo.ReplaceAccount(ctx, repo.CreateAccountOptions{
		UserID:                input.UserID,
		Provider:              input.Provider,
		AccountEmail:          email,
		AccessTokenEncrypted:  accessEnc,
		RefreshTokenEncrypted: refreshEnc,
		TokenExpiry:           expiry,
		Scopes:                input.Scopes,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Connect ReplaceAccount: %v", err)
		return model.ConnectedAccount{}, err
	}

	uc.l.Infof(ctx, "uc.Connect: user %s connected %s account %s", input.UserID, input.Provider, acc.ID)
	return acc, nil
}

// Disconnect removes the user's account for provider.
func (uc *implUseCase) Disconnect(ctx context.Context, sc model.Scope, p model.Provider) error {
	if sc.UserID == "" {
		return credential.ErrMissingUser
	}
	n, err := uc.repo.DeleteAccounts(ctx, repo.DeleteAccountsOptions{UserID: sc.UserID, Provider: p})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Disconnect DeleteAccounts: %v", err)
		return err
	}
	if n == 0 {
		return credential.ErrAccountNotFound
	}
	return nil
}

// ListAccounts returns every account of the user, active or not.
func (uc *implUseCase) ListAccounts(ctx context.Context, sc model.Scope) ([]model.ConnectedAccount, error) {
	if sc.UserID == "" {
		return nil, credential.ErrMissingUser
	}
	accounts, err := uc.repo.ListAccounts(ctx, repo.ListAccountsOptions{UserID: sc.UserID})
	if err != nil {
		uc.l.Errorf(ctx, "uc.ListAccounts ListAccounts: %v", err)
		return nil, err
	}
	return accounts, nil
}

// GetAccount returns the user's account for provider.
func (uc *implUseCase) GetAccount(ctx context.Context, sc model.Scope, p model.Provider) (model.ConnectedAccount, error) {
	if sc.UserID == "" {
		return model.ConnectedAccount{}, credential.ErrMissingUser
	}
	acc, err := uc.repo.GetOneAccount(ctx, repo.GetOneAccountOptions{UserID: sc.UserID, Provider: p})
	if err != nil {
		uc.l.Errorf(ctx, "uc.GetAccount GetOneAccount: %v", err)
		return model.ConnectedAccount{}, err
	}
	if acc.ID == "" {
		return model.ConnectedAccount{}, credential.ErrAccountNotFound
	}
	return acc, nil
}
