package http

import (
	"context"
	"errors"
	"net/http"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	pkgErrors "unified-calendar/pkg/errors"
)

var providerKindStatus = map[provider.Kind]int{
	provider.KindAuthExpired: http.StatusUnauthorized,
	provider.KindForbidden:   http.StatusForbidden,
	provider.KindRateLimited: http.StatusTooManyRequests,
	provider.KindUnavailable: http.StatusServiceUnavailable,
	provider.KindUnknown:     http.StatusBadGateway,
}

// mapError translates calendar, provider and credential errors into HTTP
// errors from pkg/errors.
func (h *handler) mapError(err error) error {
	var conflictErr *provider.ConflictError
	if errors.As(err, &conflictErr) {
		return pkgErrors.NewHTTPErrorf(http.StatusConflict,
			"event %s changed upstream (current version %q); fetch it again before retrying",
			conflictErr.EventID, conflictErr.CurrentVersion)
	}
	if credential.IsCredentialError(err) {
		return pkgErrors.NewHTTPError(http.StatusUnauthorized, "account needs to be reconnected")
	}
	var providerErr *provider.Error
	if errors.As(err, &providerErr) {
		status, ok := providerKindStatus[providerErr.Kind]
		if !ok {
			status = http.StatusBadGateway
		}
		return pkgErrors.NewHTTPErrorf(status, "%s: %s", providerErr.Provider, providerErr.Kind)
	}

	switch {
	case errors.Is(err, calendar.ErrMissingUser):
		return pkgErrors.ErrUnauthorized
	case errors.Is(err, model.ErrInvalidWindow),
		errors.Is(err, model.ErrUnknownProvider),
		errors.Is(err, calendar.ErrMissingEventID),
		errors.Is(err, calendar.ErrMissingVersion),
		errors.Is(err, calendar.ErrInvalidResponse),
		errors.Is(err, calendar.ErrInvalidEvent),
		errors.Is(err, provider.ErrInvalidResponse),
		errors.Is(err, provider.ErrInvalidEvent):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, calendar.ErrProviderNotConnected):
		return pkgErrors.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, provider.ErrEventNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, provider.ErrNotInvited):
		return pkgErrors.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return pkgErrors.ErrServiceUnavailable
	default:
		return pkgErrors.ErrInternalServerError
	}
}
