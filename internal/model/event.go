package model

import "time"

// ResponseStatus is the user's RSVP to a meeting.
type ResponseStatus string

const (
	ResponseNeedsAction ResponseStatus = "needs_action"
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
)

// IsValid reports whether r is one of the four known statuses.
func (r ResponseStatus) IsValid() bool {
	switch r {
	case ResponseNeedsAction, ResponseAccepted, ResponseDeclined, ResponseTentative:
		return true
	}
	return false
}

// CanTransitionTo reports whether a response can move from r to next.
// needs_action is only ever set by the inviting provider; every other
// state is reachable from anywhere, including itself.
func (r ResponseStatus) CanTransitionTo(next ResponseStatus) bool {
	if !r.IsValid() {
		return false
	}
	switch next {
	case ResponseAccepted, ResponseDeclined, ResponseTentative:
		return true
	}
	return false
}

// EventStatus is the provider-reported lifecycle state of an event.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusTentative EventStatus = "tentative"
	EventStatusCancelled EventStatus = "cancelled"
)

// Organizer identifies who owns the meeting.
type Organizer struct {
	Name   string
	Email  string
	IsSelf bool
}

// Attendee is a participant of exactly one CanonicalEvent.
type Attendee struct {
	Email    string
	Name     string
	Response ResponseStatus
	IsSelf   bool
}

// EventKey is the composite identity of a CanonicalEvent.
type EventKey struct {
	Provider   Provider
	ExternalID string
}

// CanonicalEvent is the provider-agnostic event.
// Start < End unless IsAllDay, where the pair denotes whole calendar days.
type CanonicalEvent struct {
	Provider    Provider
	ExternalID  string
	AccountID   string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	IsAllDay    bool
	Status      EventStatus
	Transparent bool // does not block time (free)
	Organizer   Organizer
	Attendees   []Attendee
	MyResponse  ResponseStatus
	MeetingLink string
	DeepLink    string
	Version     string
}

// Key returns the composite identity.
func (e CanonicalEvent) Key() EventKey {
	return EventKey{Provider: e.Provider, ExternalID: e.ExternalID}
}

// Loc returns the event's time zone, falling back to UTC.
func (e CanonicalEvent) Loc() *time.Location {
	if e.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Valid reports whether the interval invariant holds.
func (e CanonicalEvent) Valid() bool {
	if e.Start.IsZero() || e.End.IsZero() {
		return false
	}
	if e.IsAllDay {
		return !e.End.Before(e.Start)
	}
	return e.Start.Before(e.End)
}
