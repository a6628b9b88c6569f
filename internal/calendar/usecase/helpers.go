package usecase

import (
	"context"
	"errors"
	"sort"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

// resolveWindow defaults a zero window to the current week and validates
// anything else.
func (uc *implUseCase) resolveWindow(w model.Window) (model.Window, error) {
	if w.Start.IsZero() && w.End.IsZero() {
		start, end := uc.dates.CurrentWeek(uc.now())
		return model.Window{Start: start, End: end}, nil
	}
	if err := w.Validate(); err != nil {
		return model.Window{}, err
	}
	return w, nil
}

// withToken runs call with a valid token. A token the provider rejects as
// expired is force-refreshed and the call retried exactly once.
func (uc *implUseCase) withToken(ctx context.Context, acc model.ConnectedAccount, call func(model.AccessToken) error) error {
	token, err := uc.credentials.GetValidToken(ctx, acc.ID)
	if err != nil {
		return err
	}

	err = call(token)
	if !provider.IsAuthExpired(err) {
		return err
	}

	uc.l.Infof(ctx, "calendar.usecase: %s rejected token of account %s, refreshing once", acc.Provider, acc.ID)
	token, err = uc.credentials.ForceRefresh(ctx, acc.ID, token.Value)
	if err != nil {
		return err
	}
	return call(token)
}

// withAccount resolves the caller's account and adapter for p and runs
// call under withToken.
func (uc *implUseCase) withAccount(
	ctx context.Context,
	sc model.Scope,
	p model.Provider,
	call func(adapter provider.Adapter, acc model.ConnectedAccount, token model.AccessToken) error,
) error {
	if sc.UserID == "" {
		return calendar.ErrMissingUser
	}
	if _, err := model.ParseProvider(string(p)); err != nil {
		return err
	}

	acc, err := uc.credentials.GetAccount(ctx, sc, p)
	if err != nil {
		if errors.Is(err, credential.ErrAccountNotFound) {
			return calendar.ErrProviderNotConnected
		}
		return err
	}
	if !acc.IsActive() {
		return &credential.CredentialError{AccountID: acc.ID, Provider: acc.Provider, Reason: credential.ReasonNeedsReauth}
	}

	adapter, err := uc.adapters.Get(p)
	if err != nil {
		return err
	}

	err = uc.withToken(ctx, acc, func(token model.AccessToken) error {
		return call(adapter, acc, token)
	})
	if err == nil || credential.IsCredentialError(err) {
		return err
	}
	return provider.Classify(p, acc.ID, err)
}

// sortEvents orders by start, then title. Provider and id break the
// remaining ties so output is deterministic.
func sortEvents(events []model.CanonicalEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.ExternalID < b.ExternalID
	})
}
