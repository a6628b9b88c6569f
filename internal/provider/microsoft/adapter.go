package microsoft

import (
	"context"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

func (a *adapter) FetchEvents(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, window model.Window) ([]model.CanonicalEvent, error) {
	items, err := a.client.ListCalendarView(ctx, token.Value, window.Start, window.End)
	if err != nil {
		return nil, mapError(account.ID, "", err)
	}

	events := make([]model.CanonicalEvent, 0, len(items))
	for i := range items {
		ev, ok := a.toCanonical(account, &items[i])
		if !ok {
			a.l.Warnf(ctx, "microsoft.FetchEvents: skipping malformed event %s", items[i].ID)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (a *adapter) GetEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string) (model.CanonicalEvent, error) {
	item, err := a.client.GetEvent(ctx, token.Value, eventID)
	if err != nil {
		return model.CanonicalEvent{}, mapError(account.ID, eventID, err)
	}
	ev, ok := a.toCanonical(account, item)
	if !ok {
		return model.CanonicalEvent{}, provider.ErrInvalidEvent
	}
	return ev, nil
}

// UpdateResponse checks expectedVersion against a fresh read, posts the
// RSVP action under If-Match, then reads the event back.
func (a *adapter) UpdateResponse(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string, response model.ResponseStatus, expectedVersion string) (model.CanonicalEvent, error) {
	action, ok := actionForResponse[response]
	if !ok {
		return model.CanonicalEvent{}, provider.ErrInvalidResponse
	}

	current, err := a.client.GetEvent(ctx, token.Value, eventID)
	if err != nil {
		return model.CanonicalEvent{}, mapError(account.ID, eventID, err)
	}
	currentVersion := version(current)
	if expectedVersion != "" && currentVersion != expectedVersion {
		return model.CanonicalEvent{}, &provider.ConflictError{
			Provider:        model.ProviderMicrosoft,
			EventID:         eventID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  currentVersion,
		}
	}
	if current.IsOrganizer {
		return model.CanonicalEvent{}, provider.ErrNotInvited
	}

	if err := a.client.Respond(ctx, token.Value, eventID, action, current.ETag); err != nil {
		err = mapError(account.ID, eventID, err)
		if ce, ok := err.(*provider.ConflictError); ok {
			ce.ExpectedVersion = currentVersion
		}
		return model.CanonicalEvent{}, err
	}

	return a.GetEvent(ctx, account, token, eventID)
}

func (a *adapter) CreateEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, input provider.CreateEventInput) (model.CanonicalEvent, error) {
	created, err := a.client.CreateEvent(ctx, token.Value, toNewEvent(
		input.Title, input.Description, input.Location,
		input.Start, input.End, input.IsAllDay, input.TimeZone, input.Attendees,
	))
	if err != nil {
		return model.CanonicalEvent{}, mapError(account.ID, "", err)
	}

	ev, ok := a.toCanonical(account, created)
	if !ok {
		return model.CanonicalEvent{}, provider.ErrInvalidEvent
	}
	return ev, nil
}

func (a *adapter) DeleteEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string, expectedVersion string) error {
	if err := a.client.DeleteEvent(ctx, token.Value, eventID, expectedVersion); err != nil {
		err = mapError(account.ID, eventID, err)
		if ce, ok := err.(*provider.ConflictError); ok {
			ce.ExpectedVersion = expectedVersion
		}
		return err
	}
	return nil
}

func (a *adapter) AccountEmail(ctx context.Context, token model.AccessToken) (string, error) {
	u, err := a.client.Me(ctx, token.Value)
	if err != nil {
		return "", mapError(token.AccountID, "", err)
	}
	if u.Mail != "" {
		return u.Mail, nil
	}
	return u.UserPrincipalName, nil
}
