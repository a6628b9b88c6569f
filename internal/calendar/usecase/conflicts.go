package usecase

import (
	"context"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/conflict"
	"unified-calendar/internal/model"
)

// FindConflicts aggregates the window and clusters overlapping events.
func (uc *implUseCase) FindConflicts(ctx context.Context, sc model.Scope, input calendar.FindConflictsInput) (calendar.FindConflictsOutput, error) {
	events, err := uc.ListEvents(ctx, sc, calendar.ListEventsInput{Window: input.Window})
	if err != nil {
		return calendar.FindConflictsOutput{}, err
	}

	return calendar.FindConflictsOutput{
		Window: events.Window,
		Groups: conflict.FindConflicts(events.Events, input.Policy),
		Errors: events.Errors,
	}, nil
}

// FreeBusy returns busy intervals and free slots for the window. This is
// the read-only view handed to assistant collaborators.
func (uc *implUseCase) FreeBusy(ctx context.Context, sc model.Scope, input calendar.FreeBusyInput) (calendar.FreeBusyOutput, error) {
	events, err := uc.ListEvents(ctx, sc, calendar.ListEventsInput{Window: input.Window})
	if err != nil {
		return calendar.FreeBusyOutput{}, err
	}

	busy := conflict.Busy(events.Events, events.Window, input.Policy)
	return calendar.FreeBusyOutput{
		Window: events.Window,
		Busy:   busy,
		Free:   conflict.Free(events.Window, busy, input.MinDuration),
		Errors: events.Errors,
	}, nil
}
