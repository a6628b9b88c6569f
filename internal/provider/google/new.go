package google

import (
	"time"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/gcalendar"
	"unified-calendar/pkg/log"
)

type adapter struct {
	l          log.Logger
	client     *gcalendar.Client
	calendarID string
	defaultLoc *time.Location
}

// New creates the Google Calendar adapter. calendarID defaults to the
// primary calendar; loc is used for all-day events without a zone.
func New(l log.Logger, client *gcalendar.Client, calendarID string, loc *time.Location) provider.Adapter {
	if loc == nil {
		loc = time.UTC
	}
	return &adapter{
		l:          l,
		client:     client,
		calendarID: calendarID,
		defaultLoc: loc,
	}
}

func (a *adapter) Provider() model.Provider {
	return model.ProviderGoogle
}
