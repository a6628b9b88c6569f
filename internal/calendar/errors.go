package calendar

import "errors"

var (
	ErrMissingUser          = errors.New("user id is required")
	ErrProviderNotConnected = errors.New("provider is not connected")
	ErrMissingEventID       = errors.New("event id is required")
	ErrMissingVersion       = errors.New("expected_version is required")
	ErrInvalidResponse      = errors.New("response must be accepted, declined or tentative")
	ErrInvalidEvent         = errors.New("event needs a title and a start before its end")
)
