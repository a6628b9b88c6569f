package provider

import (
	"time"

	"unified-calendar/internal/model"
)

// CreateEventInput describes an event to create on a provider.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	TimeZone    string
	Attendees   []string
}

// ResponseActions maps the settable responses to provider verbs.
var ResponseActions = map[model.ResponseStatus]string{
	model.ResponseAccepted:  "accept",
	model.ResponseDeclined:  "decline",
	model.ResponseTentative: "tentativelyAccept",
}
