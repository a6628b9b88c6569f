// Package ics renders events as an iCalendar (RFC 5545) feed.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

const ProductID = "-//unified-calendar//EN"

// Attendee is one ATTENDEE line. PartStat is an RFC 5545 PARTSTAT value.
type Attendee struct {
	Email    string
	Name     string
	PartStat string
}

// Event is one VEVENT. All-day events carry whole-day Start/End dates in
// their own location; other events are written in UTC.
type Event struct {
	UID            string
	Summary        string
	Description    string
	Location       string
	URL            string
	Start          time.Time
	End            time.Time
	AllDay         bool
	Status         string
	Transparent    bool
	OrganizerEmail string
	OrganizerName  string
	Attendees      []Attendee
}

// Encode writes events as one VCALENDAR stamped with now.
func Encode(w io.Writer, events []Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	for _, ev := range events {
		cal.Children = append(cal.Children, toComponent(ev, now.UTC()))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toComponent(ev Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, ev.UID)
	ve.Props.SetText(ical.PropSummary, ev.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

	if ev.AllDay {
		ve.Props.SetDate(ical.PropDateTimeStart, ev.Start)
		ve.Props.SetDate(ical.PropDateTimeEnd, ev.End)
	} else {
		ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End.UTC())
	}

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.URL != "" {
		ve.Props.SetText(ical.PropURL, ev.URL)
	}
	if ev.Status != "" {
		ve.Props.SetText(ical.PropStatus, ev.Status)
	}
	if ev.Transparent {
		ve.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	}
	if ev.OrganizerEmail != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Value = "mailto:" + ev.OrganizerEmail
		if ev.OrganizerName != "" {
			p.Params.Set(ical.ParamCommonName, ev.OrganizerName)
		}
		ve.Props.Add(p)
	}
	for _, att := range ev.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + att.Email
		if att.Name != "" {
			p.Params.Set(ical.ParamCommonName, att.Name)
		}
		if att.PartStat != "" {
			p.Params.Set(ical.ParamParticipationStatus, att.PartStat)
		}
		ve.Props.Add(p)
	}
	return ve
}
