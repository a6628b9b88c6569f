package microsoft

import (
	"strings"
	"time"

	"unified-calendar/internal/model"
	"unified-calendar/pkg/datemath"
	"unified-calendar/pkg/msgraph"
)

var responseFromGraph = map[string]model.ResponseStatus{
	"none":                model.ResponseNeedsAction,
	"notResponded":        model.ResponseNeedsAction,
	"organizer":           model.ResponseAccepted,
	"accepted":            model.ResponseAccepted,
	"declined":            model.ResponseDeclined,
	"tentativelyAccepted": model.ResponseTentative,
}

var actionForResponse = map[model.ResponseStatus]msgraph.Action{
	model.ResponseAccepted:  msgraph.ActionAccept,
	model.ResponseDeclined:  msgraph.ActionDecline,
	model.ResponseTentative: msgraph.ActionTentativelyAccept,
}

func mapResponse(s string) model.ResponseStatus {
	if r, ok := responseFromGraph[s]; ok {
		return r
	}
	return model.ResponseNeedsAction
}

func version(ev *msgraph.Event) string {
	if ev.ETag != "" {
		return ev.ETag
	}
	return ev.ChangeKey
}

func (a *adapter) zone(ev *msgraph.Event) (*time.Location, string) {
	if ev.OriginalStartTimeZone == "" {
		return a.defaultLoc, a.defaultLoc.String()
	}
	loc, err := msgraph.LoadLocation(ev.OriginalStartTimeZone)
	if err != nil {
		return a.defaultLoc, a.defaultLoc.String()
	}
	return loc, loc.String()
}

// allDayBound keeps the calendar date Graph reports and places it at
// midnight in the event's own zone.
func allDayBound(v msgraph.DateTimeTimeZone, loc *time.Location) (time.Time, error) {
	date := v.DateTime
	if i := strings.IndexByte(date, 'T'); i > 0 {
		date = date[:i]
	}
	return time.ParseInLocation(datemath.DateLayout, date, loc)
}

// toCanonical maps a Graph event. ok is false for events that cannot be
// represented.
func (a *adapter) toCanonical(account model.ConnectedAccount, ev *msgraph.Event) (model.CanonicalEvent, bool) {
	loc, tzName := a.zone(ev)

	var start, end time.Time
	var err error
	if ev.IsAllDay {
		if start, err = allDayBound(ev.Start, loc); err != nil {
			return model.CanonicalEvent{}, false
		}
		if end, err = allDayBound(ev.End, loc); err != nil {
			return model.CanonicalEvent{}, false
		}
	} else {
		if start, err = msgraph.ParseDateTime(ev.Start); err != nil {
			return model.CanonicalEvent{}, false
		}
		if end, err = msgraph.ParseDateTime(ev.End); err != nil {
			return model.CanonicalEvent{}, false
		}
	}

	out := model.CanonicalEvent{
		Provider:    model.ProviderMicrosoft,
		ExternalID:  ev.ID,
		AccountID:   account.ID,
		Title:       ev.Subject,
		Description: ev.BodyPreview,
		Start:       start,
		End:         end,
		TimeZone:    tzName,
		IsAllDay:    ev.IsAllDay,
		Status:      model.EventStatusConfirmed,
		Transparent: ev.ShowAs == "free",
		DeepLink:    ev.WebLink,
		Version:     version(ev),
		MyResponse:  model.ResponseNeedsAction,
	}
	if !out.Valid() {
		return model.CanonicalEvent{}, false
	}
	if ev.IsCancelled {
		out.Status = model.EventStatusCancelled
	} else if ev.ShowAs == "tentative" {
		out.Status = model.EventStatusTentative
	}
	if ev.Location != nil {
		out.Location = ev.Location.DisplayName
	}
	if ev.OnlineMeeting != nil {
		out.MeetingLink = ev.OnlineMeeting.JoinURL
	}

	self := strings.ToLower(account.AccountEmail)
	if ev.Organizer != nil {
		out.Organizer = model.Organizer{
			Name:   ev.Organizer.EmailAddress.Name,
			Email:  ev.Organizer.EmailAddress.Address,
			IsSelf: ev.IsOrganizer || (self != "" && strings.EqualFold(ev.Organizer.EmailAddress.Address, self)),
		}
	}
	for _, att := range ev.Attendees {
		out.Attendees = append(out.Attendees, model.Attendee{
			Email:    att.EmailAddress.Address,
			Name:     att.EmailAddress.Name,
			Response: mapResponse(att.Status.Response),
			IsSelf:   self != "" && strings.EqualFold(att.EmailAddress.Address, self),
		})
	}

	switch {
	case ev.IsOrganizer:
		out.MyResponse = model.ResponseAccepted
	case ev.ResponseStatus != nil:
		out.MyResponse = mapResponse(ev.ResponseStatus.Response)
	}

	return out, true
}

func toNewEvent(title, description, location string, start, end time.Time, allDay bool, tz string, attendees []string) msgraph.NewEvent {
	ne := msgraph.NewEvent{Subject: title, IsAllDay: allDay}
	if description != "" {
		ne.Body = &msgraph.ItemBody{ContentType: "text", Content: description}
	}
	if location != "" {
		ne.Location = &msgraph.Location{DisplayName: location}
	}
	if allDay {
		if tz == "" {
			tz = "UTC"
		}
		ne.Start = msgraph.DateTimeTimeZone{DateTime: start.Format(datemath.DateLayout) + "T00:00:00", TimeZone: tz}
		ne.End = msgraph.DateTimeTimeZone{DateTime: end.Format(datemath.DateLayout) + "T00:00:00", TimeZone: tz}
	} else {
		ne.Start = msgraph.FormatDateTime(start)
		ne.End = msgraph.FormatDateTime(end)
	}
	for _, email := range attendees {
		ne.Attendees = append(ne.Attendees, msgraph.Attendee{
			Type:         "required",
			EmailAddress: msgraph.EmailAddress{Address: email},
		})
	}
	return ne
}
