package http

import (
	"unified-calendar/internal/credential"
	"unified-calendar/pkg/log"
)

type handler struct {
	l  log.Logger
	uc credential.UseCase
}

// New creates a new HTTP handler for connected accounts.
func New(l log.Logger, uc credential.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
