package google

import (
	"context"

	"google.golang.org/api/calendar/v3"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/gcalendar"
)

func (a *adapter) FetchEvents(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, window model.Window) ([]model.CanonicalEvent, error) {
	items, err := a.client.ListEvents(ctx, token.Value, gcalendar.ListEventsRequest{
		CalendarID: a.calendarID,
		TimeMin:    window.Start,
		TimeMax:    window.End,
	})
	if err != nil {
		return nil, mapError(account.ID, "", err)
	}

	events := make([]model.CanonicalEvent, 0, len(items))
	for _, item := range items {
		ev, ok := a.toCanonical(account, item)
		if !ok {
			a.l.Warnf(ctx, "google.FetchEvents: skipping malformed event %s", item.Id)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (a *adapter) GetEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string) (model.CanonicalEvent, error) {
	item, err := a.client.GetEvent(ctx, token.Value, a.calendarID, eventID)
	if err != nil {
		return model.CanonicalEvent{}, mapError(account.ID, eventID, err)
	}
	ev, ok := a.toCanonical(account, item)
	if !ok {
		return model.CanonicalEvent{}, provider.ErrInvalidEvent
	}
	return ev, nil
}

// UpdateResponse re-reads the event, rejects a stale expectedVersion, then
// patches the self attendee under If-Match so a concurrent edit between
// the read and the write also surfaces as a conflict.
func (a *adapter) UpdateResponse(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string, response model.ResponseStatus, expectedVersion string) (model.CanonicalEvent, error) {
	if !model.ResponseNeedsAction.CanTransitionTo(response) {
		return model.CanonicalEvent{}, provider.ErrInvalidResponse
	}

	current, err := a.client.GetEvent(ctx, token.Value, a.calendarID, eventID)
	if err != nil {
		return model.CanonicalEvent{}, mapError(account.ID, eventID, err)
	}
	if expectedVersion != "" && current.Etag != expectedVersion {
		return model.CanonicalEvent{}, &provider.ConflictError{
			Provider:        model.ProviderGoogle,
			EventID:         eventID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  current.Etag,
		}
	}

	attendees := make([]*calendar.EventAttendee, 0, len(current.Attendees))
	found := false
	for _, att := range current.Attendees {
		if att == nil {
			continue
		}
		cp := *att
		if cp.Self {
			cp.ResponseStatus = responseToGoogle[response]
			found = true
		}
		attendees = append(attendees, &cp)
	}
	if !found {
		return model.CanonicalEvent{}, provider.ErrNotInvited
	}

	updated, err := a.client.PatchAttendees(ctx, token.Value, a.calendarID, eventID, attendees, current.Etag)
	if err != nil {
		err = mapError(account.ID, eventID, err)
		if ce, ok := err.(*provider.ConflictError); ok {
			ce.ExpectedVersion = current.Etag
		}
		return model.CanonicalEvent{}, err
	}

	ev, ok := a.toCanonical(account, updated)
	if !ok {
		return model.CanonicalEvent{}, provider.ErrInvalidEvent
	}
	return ev, nil
}

func (a *adapter) CreateEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, input provider.CreateEventInput) (model.CanonicalEvent, error) {
	created, err := a.client.CreateEvent(ctx, token.Value, gcalendar.CreateEventRequest{
		CalendarID:  a.calendarID,
		Summary:     input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.Start,
		EndTime:     input.End,
		AllDay:      input.IsAllDay,
		Timezone:    input.TimeZone,
		Attendees:   input.Attendees,
	})
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
	if err := a.client.DeleteEvent(ctx, token.Value, a.calendarID, eventID, expectedVersion); err != nil {
		err = mapError(account.ID, eventID, err)
		if ce, ok := err.(*provider.ConflictError); ok {
			ce.ExpectedVersion = expectedVersion
		}
		return err
	}
	return nil
}

func (a *adapter) AccountEmail(ctx context.Context, token model.AccessToken) (string, error) {
	email, err := a.client.PrimaryEmail(ctx, token.Value)
	if err != nil {
		return "", mapError(token.AccountID, "", err)
	}
	return email, nil
}
