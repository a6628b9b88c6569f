package google

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"unified-calendar/internal/model"
	"unified-calendar/pkg/datemath"
)

var responseFromGoogle = map[string]model.ResponseStatus{
	"needsAction": model.ResponseNeedsAction,
	"accepted":    model.ResponseAccepted,
	"declined":    model.ResponseDeclined,
	"tentative":   model.ResponseTentative,
}

var responseToGoogle = map[model.ResponseStatus]string{
	model.ResponseNeedsAction: "needsAction",
	model.ResponseAccepted:    "accepted",
	model.ResponseDeclined:    "declined",
	model.ResponseTentative:   "tentative",
}

func mapResponse(s string) model.ResponseStatus {
	if r, ok := responseFromGoogle[s]; ok {
		return r
	}
	return model.ResponseNeedsAction
}

func mapStatus(s string) model.EventStatus {
	switch s {
	case "cancelled":
		return model.EventStatusCancelled
	case "tentative":
		return model.EventStatusTentative
	default:
		return model.EventStatusConfirmed
	}
}

func (a *adapter) location(tz string) (*time.Location, string) {
	if tz == "" {
		return a.defaultLoc, a.defaultLoc.String()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return a.defaultLoc, a.defaultLoc.String()
	}
	return loc, tz
}

// parseBound reads an EventDateTime. All-day bounds are dates; Google's
// end date is already exclusive.
func parseBound(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool, error) {
	if dt == nil {
		return time.Time{}, false, fmt.Errorf("missing date")
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation(datemath.DateLayout, dt.Date, loc)
		return t, true, err
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	return t, false, err
}

func meetingLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}

// toCanonical maps a Google event. ok is false for events that cannot be
// represented (unparseable or non-positive timed intervals).
func (a *adapter) toCanonical(account model.ConnectedAccount, ev *calendar.Event) (model.CanonicalEvent, bool) {
	var tz string
	if ev.Start != nil {
		tz = ev.Start.TimeZone
	}
	loc, tzName := a.location(tz)

	start, allDay, err := parseBound(ev.Start, loc)
	if err != nil {
		return model.CanonicalEvent{}, false
	}
	end, _, err := parseBound(ev.End, loc)
	if err != nil {
		return model.CanonicalEvent{}, false
	}

	out := model.CanonicalEvent{
		Provider:    model.ProviderGoogle,
		ExternalID:  ev.Id,
		AccountID:   account.ID,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
		TimeZone:    tzName,
		IsAllDay:    allDay,
		Status:      mapStatus(ev.Status),
		Transparent: ev.Transparency == "transparent",
		MeetingLink: meetingLink(ev),
		DeepLink:    ev.HtmlLink,
		Version:     ev.Etag,
		MyResponse:  model.ResponseNeedsAction,
	}
	if !out.Valid() {
		return model.CanonicalEvent{}, false
	}

	if ev.Organizer != nil {
		out.Organizer = model.Organizer{
			Name:   ev.Organizer.DisplayName,
			Email:  ev.Organizer.Email,
			IsSelf: ev.Organizer.Self,
		}
	}

	selfFound := false
	for _, att := range ev.Attendees {
		if att == nil {
			continue
		}
		attendee := model.Attendee{
			Email:    att.Email,
			Name:     att.DisplayName,
			Response: mapResponse(att.ResponseStatus),
			IsSelf:   att.Self,
		}
		if att.Self {
			selfFound = true
			out.MyResponse = attendee.Response
		}
		out.Attendees = append(out.Attendees, attendee)
	}
	if !selfFound && (out.Organizer.IsSelf || len(ev.Attendees) == 0) {
		out.MyResponse = model.ResponseAccepted
	}

	return out, true
}
