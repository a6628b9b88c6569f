package conflict

import (
	"time"

	"unified-calendar/internal/model"
)

// Policy selects which events take part in detection.
type Policy struct {
	IncludeDeclined  bool
	IncludeCancelled bool
	IncludeFree      bool // events marked transparent/free
}

// DefaultPolicy ignores declined, cancelled and free events.
func DefaultPolicy() Policy {
	return Policy{}
}

// Admits reports whether ev participates under p.
func (p Policy) Admits(ev model.CanonicalEvent) bool {
	if !p.IncludeDeclined && ev.MyResponse == model.ResponseDeclined {
		return false
	}
	if !p.IncludeCancelled && ev.Status == model.EventStatusCancelled {
		return false
	}
	if !p.IncludeFree && ev.Transparent {
		return false
	}
	return true
}

// Interval is a half-open [Start, End) range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Group is a maximal cluster of transitively overlapping events, sorted
// by start. Overlap spans from the first to the last instant at which at
// least two members are simultaneously busy.
type Group struct {
	Events  []model.CanonicalEvent
	Overlap Interval
}
