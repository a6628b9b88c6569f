package usecase

import (
	"context"
	"strings"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

func (uc *implUseCase) GetEvent(ctx context.Context, sc model.Scope, input calendar.GetEventInput) (model.CanonicalEvent, error) {
	if input.EventID == "" {
		return model.CanonicalEvent{}, calendar.ErrMissingEventID
	}

	var ev model.CanonicalEvent
	err := uc.withAccount(ctx, sc, input.Provider, func(adapter provider.Adapter, acc model.ConnectedAccount, token model.AccessToken) error {
		var err error
		ev, err = adapter.GetEvent(ctx, acc, token, input.EventID)
		return err
	})
	if err != nil {
		uc.l.Warnf(ctx, "calendar.usecase.GetEvent %s/%s: %v", input.Provider, input.EventID, err)
		return model.CanonicalEvent{}, err
	}
	return ev, nil
}

// CreateEvent creates an event on the chosen provider.
func (uc *implUseCase) CreateEvent(ctx context.Context, sc model.Scope, input calendar.CreateEventInput) (model.CanonicalEvent, error) {
	spec := input.Event
	spec.Title = strings.TrimSpace(spec.Title)
	if spec.Title == "" || spec.Start.IsZero() || spec.End.IsZero() {
		return model.CanonicalEvent{}, calendar.ErrInvalidEvent
	}
	if !spec.IsAllDay && !spec.Start.Before(spec.End) {
		return model.CanonicalEvent{}, calendar.ErrInvalidEvent
	}
	if spec.IsAllDay && spec.End.Before(spec.Start) {
		return model.CanonicalEvent{}, calendar.ErrInvalidEvent
	}

	var created model.CanonicalEvent
	err := uc.withAccount(ctx, sc, input.Provider, func(adapter provider.Adapter, acc model.ConnectedAccount, token model.AccessToken) error {
		var err error
		created, err = adapter.CreateEvent(ctx, acc, token, spec)
		return err
	})
	if err != nil {
		uc.l.Errorf(ctx, "calendar.usecase.CreateEvent %s: %v", input.Provider, err)
		return model.CanonicalEvent{}, err
	}

	uc.l.Infof(ctx, "calendar.usecase.CreateEvent: created %s/%s", created.Provider, created.ExternalID)
	return created, nil
}

func (uc *implUseCase) DeleteEvent(ctx context.Context, sc model.Scope, input calendar.DeleteEventInput) error {
	if input.EventID == "" {
		return calendar.ErrMissingEventID
	}

	err := uc.withAccount(ctx, sc, input.Provider, func(adapter provider.Adapter, acc model.ConnectedAccount, token model.AccessToken) error {
		return adapter.DeleteEvent(ctx, acc, token, input.EventID, input.ExpectedVersion)
	})
	if err != nil {
		uc.l.Warnf(ctx, "calendar.usecase.DeleteEvent %s/%s: %v", input.Provider, input.EventID, err)
		return err
	}
	return nil
}
