package conflict_test

import (
	"testing"
	"time"

	"unified-calendar/internal/conflict"
	"unified-calendar/internal/model"
)

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func event(p model.Provider, id string, start, end time.Time) model.CanonicalEvent {
	return model.CanonicalEvent{
		Provider:   p,
		ExternalID: id,
		Title:      id,
		Start:      start,
		End:        end,
		Status:     model.EventStatusConfirmed,
		MyResponse: model.ResponseAccepted,
	}
}

func ids(g conflict.Group) []string {
	out := make([]string, len(g.Events))
	for i, e := range g.Events {
		out[i] = e.ExternalID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindConflicts(t *testing.T) {
	t.Run("cross-provider overlap", func(t *testing.T) {
		events := []model.CanonicalEvent{
			event(model.ProviderMicrosoft, "B", at(9, 30), at(10, 30)),
			event(model.ProviderGoogle, "A", at(9, 0), at(10, 0)),
		}

		groups := conflict.FindConflicts(events, conflict.DefaultPolicy())
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if !equalIDs(ids(groups[0]), []string{"A", "B"}) {
			t.Errorf("unexpected members %v", ids(groups[0]))
		}
		if !groups[0].Overlap.Start.Equal(at(9, 30)) || !groups[0].Overlap.End.Equal(at(10, 0)) {
			t.Errorf("expected overlap [09:30,10:00), got [%v,%v)", groups[0].Overlap.Start, groups[0].Overlap.End)
		}
	})

	t.Run("touching events do not conflict", func(t *testing.T) {
		events := []model.CanonicalEvent{
			event(model.ProviderGoogle, "C", at(9, 0), at(10, 0)),
			event(model.ProviderGoogle, "D", at(10, 0), at(11, 0)),
		}
		if groups := conflict.FindConflicts(events, conflict.DefaultPolicy()); len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})

	t.Run("transitive chain forms one group", func(t *testing.T) {
		events := []model.CanonicalEvent{
			event(model.ProviderGoogle, "A", at(9, 0), at(10, 0)),
			event(model.ProviderGoogle, "B", at(9, 45), at(11, 0)),
			event(model.ProviderMicrosoft, "C", at(10, 30), at(12, 0)),
			event(model.ProviderMicrosoft, "E", at(13, 0), at(14, 0)),
		}

		groups := conflict.FindConflicts(events, conflict.DefaultPolicy())
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if !equalIDs(ids(groups[0]), []string{"A", "B", "C"}) {
			t.Errorf("unexpected members %v", ids(groups[0]))
		}
		if !groups[0].Overlap.Start.Equal(at(9, 45)) || !groups[0].Overlap.End.Equal(at(11, 0)) {
			t.Errorf("unexpected overlap [%v,%v)", groups[0].Overlap.Start, groups[0].Overlap.End)
		}
	})

	t.Run("neighbours in a group overlap", func(t *testing.T) {
		events := []model.CanonicalEvent{
			event(model.ProviderGoogle, "1", at(8, 0), at(9, 0)),
			event(model.ProviderGoogle, "2", at(8, 30), at(12, 0)),
			event(model.ProviderGoogle, "3", at(9, 0), at(9, 30)),
			event(model.ProviderGoogle, "4", at(11, 0), at(11, 15)),
			event(model.ProviderGoogle, "5", at(12, 0), at(13, 0)),
		}
		groups := conflict.FindConflicts(events, conflict.DefaultPolicy())
		if len(groups) != 1 || len(groups[0].Events) != 4 {
			t.Fatalf("expected one group of 4, got %v", groups)
		}
		for _, g := range groups {
			maxEnd := g.Events[0].End
			for _, e := range g.Events[1:] {
				if !e.Start.Before(maxEnd) {
					t.Errorf("%s starts at or after the running max end", e.ExternalID)
				}
				if e.End.After(maxEnd) {
					maxEnd = e.End
				}
			}
		}
	})

	t.Run("declined excluded by default and included by policy", func(t *testing.T) {
		declined := event(model.ProviderGoogle, "X", at(9, 0), at(10, 0))
		declined.MyResponse = model.ResponseDeclined
		events := []model.CanonicalEvent{
			declined,
			event(model.ProviderMicrosoft, "Y", at(9, 30), at(10, 30)),
		}

		if groups := conflict.FindConflicts(events, conflict.DefaultPolicy()); len(groups) != 0 {
			t.Errorf("expected declined event to be ignored, got %d groups", len(groups))
		}

		groups := conflict.FindConflicts(events, conflict.Policy{IncludeDeclined: true})
		if len(groups) != 1 || !equalIDs(ids(groups[0]), []string{"X", "Y"}) {
			t.Errorf("expected {X,Y} with declined included, got %v", groups)
		}
	})

	t.Run("cancelled and free excluded by default", func(t *testing.T) {
		cancelled := event(model.ProviderGoogle, "cancelled", at(9, 0), at(10, 0))
		cancelled.Status = model.EventStatusCancelled
		free := event(model.ProviderGoogle, "free", at(9, 0), at(10, 0))
		free.Transparent = true
		events := []model.CanonicalEvent{cancelled, free, event(model.ProviderGoogle, "busy", at(9, 0), at(10, 0))}

		if groups := conflict.FindConflicts(events, conflict.DefaultPolicy()); len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})

	t.Run("tentative and needs_action count", func(t *testing.T) {
		a := event(model.ProviderGoogle, "a", at(9, 0), at(10, 0))
		a.MyResponse = model.ResponseTentative
		b := event(model.ProviderGoogle, "b", at(9, 0), at(10, 0))
		b.MyResponse = model.ResponseNeedsAction

		if groups := conflict.FindConflicts([]model.CanonicalEvent{a, b}, conflict.DefaultPolicy()); len(groups) != 1 {
			t.Errorf("expected 1 group, got %d", len(groups))
		}
	})

	t.Run("all-day uses day boundaries", func(t *testing.T) {
		allDay := model.CanonicalEvent{
			Provider:   model.ProviderGoogle,
			ExternalID: "offsite",
			Start:      day,
			End:        day.AddDate(0, 0, 1),
			IsAllDay:   true,
			TimeZone:   "UTC",
			MyResponse: model.ResponseAccepted,
		}
		sameDay := event(model.ProviderMicrosoft, "lunch", at(12, 0), at(13, 0))
		nextDay := event(model.ProviderMicrosoft, "early", day.AddDate(0, 0, 1), day.AddDate(0, 0, 1).Add(time.Hour))

		groups := conflict.FindConflicts([]model.CanonicalEvent{allDay, sameDay, nextDay}, conflict.DefaultPolicy())
		if len(groups) != 1 || !equalIDs(ids(groups[0]), []string{"offsite", "lunch"}) {
			t.Errorf("expected {offsite, lunch}, got %v", groups)
		}
	})

	t.Run("single-day all-day with equal bounds", func(t *testing.T) {
		allDay := model.CanonicalEvent{
			Provider: model.ProviderGoogle, ExternalID: "holiday",
			Start: day, End: day, IsAllDay: true, MyResponse: model.ResponseAccepted,
		}
		meeting := event(model.ProviderGoogle, "m", at(23, 0), at(23, 30))

		if groups := conflict.FindConflicts([]model.CanonicalEvent{allDay, meeting}, conflict.DefaultPolicy()); len(groups) != 1 {
			t.Errorf("expected 1 group, got %d", len(groups))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if groups := conflict.FindConflicts(nil, conflict.DefaultPolicy()); len(groups) != 0 {
			t.Errorf("expected no groups")
		}
	})
}

func TestBusyAndFree(t *testing.T) {
	window := model.Window{Start: at(8, 0), End: at(18, 0)}
	declined := event(model.ProviderGoogle, "declined", at(15, 0), at(16, 0))
	declined.MyResponse = model.ResponseDeclined

	events := []model.CanonicalEvent{
		event(model.ProviderGoogle, "a", at(7, 0), at(9, 0)),
		event(model.ProviderGoogle, "b", at(9, 0), at(10, 0)),
		event(model.ProviderMicrosoft, "c", at(9, 30), at(10, 30)),
		event(model.ProviderMicrosoft, "d", at(12, 0), at(12, 20)),
		declined,
	}

	busy := conflict.Busy(events, window, conflict.DefaultPolicy())
	want := []conflict.Interval{
		{Start: at(8, 0), End: at(10, 30)},
		{Start: at(12, 0), End: at(12, 20)},
	}
	if len(busy) != len(want) {
		t.Fatalf("expected %d busy intervals, got %v", len(want), busy)
	}
	for i := range want {
		if !busy[i].Start.Equal(want[i].Start) || !busy[i].End.Equal(want[i].End) {
			t.Errorf("busy[%d] = %v, want %v", i, busy[i], want[i])
		}
	}

	free := conflict.Free(window, busy, 30*time.Minute)
	wantFree := []conflict.Interval{
		{Start: at(10, 30), End: at(12, 0)},
		{Start: at(12, 20), End: at(18, 0)},
	}
	if len(free) != len(wantFree) {
		t.Fatalf("expected %d free slots, got %v", len(wantFree), free)
	}
	for i := range wantFree {
		if !free[i].Start.Equal(wantFree[i].Start) || !free[i].End.Equal(wantFree[i].End) {
			t.Errorf("free[%d] = %v, want %v", i, free[i], wantFree[i])
		}
	}

	if short := conflict.Free(model.Window{Start: at(10, 30), End: at(12, 0)}, busy, 2*time.Hour); len(short) != 0 {
		t.Errorf("expected no slot long enough, got %v", short)
	}
}
