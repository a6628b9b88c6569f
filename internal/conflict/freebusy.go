package conflict

import (
	"time"

	"unified-calendar/internal/model"
)

// Busy merges the admitted events into disjoint busy intervals clipped to
// window. Touching intervals are merged.
func Busy(events []model.CanonicalEvent, window model.Window, p Policy) []Interval {
	var busy []Interval
	for _, e := range prepare(events, p) {
		iv := clip(e.interval, window)
		if !iv.Start.Before(iv.End) {
			continue
		}
		if n := len(busy); n > 0 && !iv.Start.After(busy[n-1].End) {
			if iv.End.After(busy[n-1].End) {
				busy[n-1].End = iv.End
			}
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

// Free returns the gaps of window not covered by busy that last at least
// minDuration. busy must be sorted and disjoint, as Busy returns it.
func Free(window model.Window, busy []Interval, minDuration time.Duration) []Interval {
	var free []Interval
	cursor := window.Start
	for _, b := range busy {
		if b.Start.After(cursor) {
			free = appendIfLongEnough(free, Interval{Start: cursor, End: b.Start}, minDuration)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if window.End.After(cursor) {
		free = appendIfLongEnough(free, Interval{Start: cursor, End: window.End}, minDuration)
	}
	return free
}

func appendIfLongEnough(list []Interval, iv Interval, min time.Duration) []Interval {
	if iv.Duration() < min || iv.Duration() <= 0 {
		return list
	}
	return append(list, iv)
}

func clip(iv Interval, w model.Window) Interval {
	if iv.Start.Before(w.Start) {
		iv.Start = w.Start
	}
	if iv.End.After(w.End) {
		iv.End = w.End
	}
	return iv
}
