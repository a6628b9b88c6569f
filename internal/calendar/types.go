package calendar

import (
	"time"

	"unified-calendar/internal/conflict"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

// Config bounds the provider fan-out.
type Config struct {
	// ProviderTimeout bounds each account's fetch, token refresh included.
	ProviderTimeout time.Duration
	// MaxParallel caps concurrent account fetches per request.
	MaxParallel int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ProviderTimeout: 10 * time.Second,
		MaxParallel:     4,
	}
}

// ListEventsInput selects a window and optionally one provider.
// A zero Window means the current week.
type ListEventsInput struct {
	Window   model.Window
	Provider model.Provider
}

// ListEventsOutput is the merged view. Errors has one entry per account
// that could not be read; its events are absent from Events.
type ListEventsOutput struct {
	Window             model.Window
	Events             []model.CanonicalEvent
	ProvidersConnected []model.Provider
	Errors             []*provider.Error
}

type FindConflictsInput struct {
	Window model.Window
	Policy conflict.Policy
}

type FindConflictsOutput struct {
	Window model.Window
	Groups []conflict.Group
	Errors []*provider.Error
}

// FreeBusyInput asks for busy intervals and free slots of at least
// MinDuration inside Window.
type FreeBusyInput struct {
	Window      model.Window
	MinDuration time.Duration
	Policy      conflict.Policy
}

type FreeBusyOutput struct {
	Window model.Window
	Busy   []conflict.Interval
	Free   []conflict.Interval
	Errors []*provider.Error
}

type ExportICSOutput struct {
	Data   []byte
	Errors []*provider.Error
}

type GetEventInput struct {
	Provider model.Provider
	EventID  string
}

// RespondInput sets the caller's RSVP. ExpectedVersion is the version of
// the event the caller last saw.
type RespondInput struct {
	Provider        model.Provider
	EventID         string
	Response        model.ResponseStatus
	ExpectedVersion string
}

type CreateEventInput struct {
	Provider model.Provider
	Event    provider.CreateEventInput
}

// DeleteEventInput removes an event. An empty ExpectedVersion skips the
// version check.
type DeleteEventInput struct {
	Provider        model.Provider
	EventID         string
	ExpectedVersion string
}
