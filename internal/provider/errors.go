package provider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"unified-calendar/internal/model"
)

// Kind classifies provider failures.
type Kind string

const (
	KindAuthExpired Kind = "auth_expired"
	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "unavailable"
	KindForbidden   Kind = "forbidden"
	KindUnknown     Kind = "unknown"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidResponse = errors.New("invalid response transition")
	ErrInvalidEvent    = errors.New("invalid event")
	ErrNotInvited      = errors.New("user is not an attendee of this event")
)

// Error is a classified failure of one provider call.
type Error struct {
	Provider  model.Provider
	AccountID string
	Kind      Kind
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ConflictError reports that an event moved past the version the caller saw.
type ConflictError struct {
	Provider        model.Provider
	EventID         string
	ExpectedVersion string
	CurrentVersion  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s event %s: expected version %q, current %q", e.Provider, e.EventID, e.ExpectedVersion, e.CurrentVersion)
}

// KindOf returns the classification of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsAuthExpired reports whether err is an auth_expired provider error.
func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// KindFromStatus maps an HTTP status to a Kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == 401:
		return KindAuthExpired
	case status == 403:
		return KindForbidden
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Classify wraps a transport-level failure. Deadlines and network errors
// become unavailable; cancellation, typed errors and sentinels are returned
// untouched.
func Classify(p model.Provider, accountID string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return err
	}
	for _, sentinel := range []error{ErrEventNotFound, ErrInvalidResponse, ErrInvalidEvent, ErrNotInvited} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	kind := KindUnknown
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		kind = KindUnavailable
	}
	return &Error{Provider: p, AccountID: accountID, Kind: kind, Message: "request failed", Err: err}
}
