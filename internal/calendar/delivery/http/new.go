package http

import (
	"time"

	"unified-calendar/internal/calendar"
	"unified-calendar/pkg/datemath"
	"unified-calendar/pkg/log"
)

type handler struct {
	l     log.Logger
	uc    calendar.UseCase
	dates *datemath.Parser
	now   func() time.Time
}

// New creates a new HTTP handler for the calendar domain. dates resolves
// the start/end query expressions.
func New(l log.Logger, uc calendar.UseCase, dates *datemath.Parser) *handler {
	return &handler{
		l:     l,
		uc:    uc,
		dates: dates,
		now:   time.Now,
	}
}
