package response

import (
	"encoding/json"
	"time"
)

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// Date is a calendar day. It marshals as DateFormat in its own location,
// so an all-day event keeps the day it was booked on.
type Date time.Time

// NewDate returns the day of t as seen in loc. A nil loc keeps t's location.
func NewDate(t time.Time, loc *time.Location) *Date {
	if loc != nil {
		t = t.In(loc)
	}
	d := Date(t)
	return &d
}

// MarshalJSON implements json.Marshaler for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(DateFormat))
}
