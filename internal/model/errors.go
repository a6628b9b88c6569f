package model

import "errors"

var (
	ErrInvalidWindow   = errors.New("invalid window: start must be before end")
	ErrUnknownProvider = errors.New("unknown provider")
)
