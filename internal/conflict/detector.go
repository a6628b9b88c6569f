package conflict

import (
	"sort"
	"time"

	"unified-calendar/internal/model"
	"unified-calendar/pkg/datemath"
)

type entry struct {
	event    model.CanonicalEvent
	interval Interval
}

// Bounds returns the instants an event blocks. All-day events cover whole
// days in their own time zone, from midnight of the first day to midnight
// after the last.
func Bounds(ev model.CanonicalEvent) Interval {
	if !ev.IsAllDay {
		return Interval{Start: ev.Start, End: ev.End}
	}
	loc := ev.Loc()
	start := datemath.StartOfDayIn(ev.Start, loc)
	end := datemath.StartOfDayIn(ev.End, loc)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return Interval{Start: start, End: end}
}

func prepare(events []model.CanonicalEvent, p Policy) []entry {
	entries := make([]entry, 0, len(events))
	for _, ev := range events {
		if !p.Admits(ev) {
			continue
		}
		iv := Bounds(ev)
		if !iv.Start.Before(iv.End) {
			continue
		}
		entries = append(entries, entry{event: ev, interval: iv})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.interval.Start.Equal(b.interval.Start) {
			return a.interval.Start.Before(b.interval.Start)
		}
		if !a.interval.End.Equal(b.interval.End) {
			return a.interval.End.Before(b.interval.End)
		}
		if a.event.Provider != b.event.Provider {
			return a.event.Provider < b.event.Provider
		}
		return a.event.ExternalID < b.event.ExternalID
	})
	return entries
}

// FindConflicts clusters the admitted events with one sweep over their
// start order. An event opens a new cluster when it starts at or after the
// running max end of the current one, so events that only touch never
// collide. Clusters with at least two members are returned.
func FindConflicts(events []model.CanonicalEvent, p Policy) []Group {
	entries := prepare(events, p)

	var groups []Group
	var cluster []entry
	var maxEnd time.Time

	flush := func() {
		if len(cluster) >= 2 {
			groups = append(groups, newGroup(cluster))
		}
	}

	for _, e := range entries {
		if len(cluster) == 0 || !e.interval.Start.Before(maxEnd) {
			flush()
			cluster = []entry{e}
			maxEnd = e.interval.End
			continue
		}
		cluster = append(cluster, e)
		if e.interval.End.After(maxEnd) {
			maxEnd = e.interval.End
		}
	}
	flush()

	return groups
}

// newGroup builds a Group from a sorted cluster of two or more entries.
// The second start is where the first two members begin to overlap, and
// the second-largest end is the last instant any two members overlap.
func newGroup(cluster []entry) Group {
	events := make([]model.CanonicalEvent, len(cluster))
	var top, second time.Time
	for i, e := range cluster {
		events[i] = e.event
		end := e.interval.End
		switch {
		case end.After(top):
			second, top = top, end
		case end.After(second):
			second = end
		}
	}
	return Group{
		Events:  events,
		Overlap: Interval{Start: cluster[1].interval.Start, End: second},
	}
}
