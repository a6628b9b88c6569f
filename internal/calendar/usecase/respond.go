package usecase

import (
	"context"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

// Respond sets the caller's RSVP on the owning provider. The provider's
// own version check decides whether the caller's view is stale; nothing is
// cached here, so the returned event is the provider's.
func (uc *implUseCase) Respond(ctx context.Context, sc model.Scope, input calendar.RespondInput) (model.CanonicalEvent, error) {
	if input.EventID == "" {
		return model.CanonicalEvent{}, calendar.ErrMissingEventID
	}
	if !model.ResponseNeedsAction.CanTransitionTo(input.Response) {
		return model.CanonicalEvent{}, calendar.ErrInvalidResponse
	}
	if input.ExpectedVersion == "" {
		return model.CanonicalEvent{}, calendar.ErrMissingVersion
	}

	var updated model.CanonicalEvent
	err := uc.withAccount(ctx, sc, input.Provider, func(adapter provider.Adapter, acc model.ConnectedAccount, token model.AccessToken) error {
		var err error
		updated, err = adapter.UpdateResponse(ctx, acc, token, input.EventID, input.Response, input.ExpectedVersion)
		return err
	})
	if err != nil {
		uc.l.Warnf(ctx, "calendar.usecase.Respond %s/%s: %v", input.Provider, input.EventID, err)
		return model.CanonicalEvent{}, err
	}

	uc.l.Infof(ctx, "calendar.usecase.Respond: %s/%s -> %s", input.Provider, input.EventID, updated.MyResponse)
	return updated, nil
}
