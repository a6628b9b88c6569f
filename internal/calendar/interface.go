package calendar

import (
	"context"

	"unified-calendar/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Aggregation
	ListEvents(ctx context.Context, sc model.Scope, input ListEventsInput) (ListEventsOutput, error)
	FindConflicts(ctx context.Context, sc model.Scope, input FindConflictsInput) (FindConflictsOutput, error)
	FreeBusy(ctx context.Context, sc model.Scope, input FreeBusyInput) (FreeBusyOutput, error)
	ExportICS(ctx context.Context, sc model.Scope, input ListEventsInput) (ExportICSOutput, error)

	// Single-event operations against the owning provider
	GetEvent(ctx context.Context, sc model.Scope, input GetEventInput) (model.CanonicalEvent, error)
	Respond(ctx context.Context, sc model.Scope, input RespondInput) (model.CanonicalEvent, error)
	CreateEvent(ctx context.Context, sc model.Scope, input CreateEventInput) (model.CanonicalEvent, error)
	DeleteEvent(ctx context.Context, sc model.Scope, input DeleteEventInput) error
}
