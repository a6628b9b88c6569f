package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

type fetchResult struct {
	events []model.CanonicalEvent
	err    *provider.Error
}

// ListEvents fans out to every connected account of the caller and merges
// the results. Provider failures are reported in Errors; only a bad
// request or a cancelled ctx fails the call.
func (uc *implUseCase) ListEvents(ctx context.Context, sc model.Scope, input calendar.ListEventsInput) (calendar.ListEventsOutput, error) {
	if sc.UserID == "" {
		return calendar.ListEventsOutput{}, calendar.ErrMissingUser
	}
	window, err := uc.resolveWindow(input.Window)
	if err != nil {
		return calendar.ListEventsOutput{}, err
	}
	if input.Provider != "" {
		if _, err := model.ParseProvider(string(input.Provider)); err != nil {
			return calendar.ListEventsOutput{}, err
		}
	}

	accounts, err := uc.credentials.ListAccounts(ctx, sc)
	if err != nil {
		uc.l.Errorf(ctx, "calendar.usecase.ListEvents ListAccounts: %v", err)
		return calendar.ListEventsOutput{}, err
	}
	if input.Provider != "" {
		filtered := accounts[:0:0]
		for _, acc := range accounts {
			if acc.Provider == input.Provider {
				filtered = append(filtered, acc)
			}
		}
		accounts = filtered
	}

	return uc.aggregate(ctx, accounts, window)
}

func (uc *implUseCase) aggregate(ctx context.Context, accounts []model.ConnectedAccount, window model.Window) (calendar.ListEventsOutput, error) {
	results := make([]fetchResult, len(accounts))

	var g errgroup.Group
	g.SetLimit(uc.cfg.MaxParallel)
	for i, acc := range accounts {
		g.Go(func() error {
			results[i] = uc.fetchAccount(ctx, acc, window)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return calendar.ListEventsOutput{}, err
	}

	out := calendar.ListEventsOutput{
		Window:             window,
		Events:             make([]model.CanonicalEvent, 0),
		ProvidersConnected: make([]model.Provider, 0, len(accounts)),
		Errors:             make([]*provider.Error, 0),
	}
	seen := make(map[model.Provider]bool, len(accounts))
	for i, acc := range accounts {
		if !seen[acc.Provider] {
			seen[acc.Provider] = true
			out.ProvidersConnected = append(out.ProvidersConnected, acc.Provider)
		}
		if results[i].err != nil {
			out.Errors = append(out.Errors, results[i].err)
			continue
		}
		out.Events = append(out.Events, results[i].events...)
	}
	sortEvents(out.Events)

	return out, nil
}

// fetchAccount reads one account under the per-provider timeout. It never
// returns a Go error; every failure becomes a provider.Error.
func (uc *implUseCase) fetchAccount(ctx context.Context, acc model.ConnectedAccount, window model.Window) fetchResult {
	if !acc.IsActive() {
		return fetchResult{err: &provider.Error{
			Provider:  acc.Provider,
			AccountID: acc.ID,
			Kind:      provider.KindAuthExpired,
			Message:   "account needs to be reconnected",
		}}
	}

	adapter, err := uc.adapters.Get(acc.Provider)
	if err != nil {
		return fetchResult{err: uc.toProviderError(ctx, acc, err)}
	}

	tctx, cancel := context.WithTimeout(ctx, uc.cfg.ProviderTimeout)
	defer cancel()

	var events []model.CanonicalEvent
	err = uc.withToken(tctx, acc, func(token model.AccessToken) error {
		var fetchErr error
		events, fetchErr = adapter.FetchEvents(tctx, acc, token, window)
		return fetchErr
	})
	if err != nil {
		return fetchResult{err: uc.toProviderError(ctx, acc, err)}
	}
	return fetchResult{events: events}
}

func (uc *implUseCase) toProviderError(ctx context.Context, acc model.ConnectedAccount, err error) *provider.Error {
	var pe *provider.Error
	var ce *credential.CredentialError
	switch {
	case errors.As(err, &pe):
		if pe.AccountID == "" {
			pe.AccountID = acc.ID
		}
	case errors.As(err, &ce):
		pe = &provider.Error{
			Provider:  acc.Provider,
			AccountID: acc.ID,
			Kind:      provider.KindAuthExpired,
			Message:   "account needs to be reconnected",
			Err:       err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		pe = &provider.Error{
			Provider:  acc.Provider,
			AccountID: acc.ID,
			Kind:      provider.KindUnavailable,
			Message:   "timed out",
			Err:       err,
		}
	default:
		if !errors.As(provider.Classify(acc.Provider, acc.ID, err), &pe) {
			pe = &provider.Error{
				Provider:  acc.Provider,
				AccountID: acc.ID,
				Kind:      provider.KindUnknown,
				Message:   err.Error(),
				Err:       err,
			}
		}
	}

	uc.l.Warnf(ctx, "calendar.usecase.fetchAccount %s account %s: %v", acc.Provider, acc.ID, err)
	return pe
}
