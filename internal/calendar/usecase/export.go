package usecase

import (
	"bytes"
	"context"
	"strings"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/conflict"
	"unified-calendar/internal/model"
	"unified-calendar/pkg/ics"
)

var partStats = map[model.ResponseStatus]string{
	model.ResponseNeedsAction: "NEEDS-ACTION",
	model.ResponseAccepted:    "ACCEPTED",
	model.ResponseDeclined:    "DECLINED",
	model.ResponseTentative:   "TENTATIVE",
}

// ExportICS renders the merged window as one iCalendar feed.
func (uc *implUseCase) ExportICS(ctx context.Context, sc model.Scope, input calendar.ListEventsInput) (calendar.ExportICSOutput, error) {
	events, err := uc.ListEvents(ctx, sc, input)
	if err != nil {
		return calendar.ExportICSOutput{}, err
	}

	items := make([]ics.Event, 0, len(events.Events))
	for _, ev := range events.Events {
		items = append(items, toICSEvent(ev))
	}

	var buf bytes.Buffer
	if err := ics.Encode(&buf, items, uc.now()); err != nil {
		uc.l.Errorf(ctx, "calendar.usecase.ExportICS Encode: %v", err)
		return calendar.ExportICSOutput{}, err
	}
	return calendar.ExportICSOutput{Data: buf.Bytes(), Errors: events.Errors}, nil
}

func toICSEvent(ev model.CanonicalEvent) ics.Event {
	out := ics.Event{
		UID:            string(ev.Provider) + ":" + ev.ExternalID,
		Summary:        ev.Title,
		Description:    ev.Description,
		Location:       ev.Location,
		URL:            ev.DeepLink,
		Start:          ev.Start,
		End:            ev.End,
		AllDay:         ev.IsAllDay,
		Status:         strings.ToUpper(string(ev.Status)),
		Transparent:    ev.Transparent,
		OrganizerEmail: ev.Organizer.Email,
		OrganizerName:  ev.Organizer.Name,
	}
	if ev.IsAllDay {
		days := conflict.Bounds(ev)
		out.Start, out.End = days.Start, days.End
	}
	for _, att := range ev.Attendees {
		if att.Email == "" {
			continue
		}
		out.Attendees = append(out.Attendees, ics.Attendee{
			Email:    att.Email,
			Name:     att.Name,
			PartStat: partStats[att.Response],
		})
	}
	return out
}
