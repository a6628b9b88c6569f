package http

import (
	"errors"
	"net/http"

	"unified-calendar/internal/credential"
	"unified-calendar/internal/model"
	pkgErrors "unified-calendar/pkg/errors"
)

// mapError translates credential errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, credential.ErrAccountNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "account not connected")
	case errors.Is(err, credential.ErrMissingUser):
		return pkgErrors.ErrUnauthorized
	case errors.Is(err, credential.ErrMissingAccessToken),
		errors.Is(err, credential.ErrMissingRefreshToken),
		errors.Is(err, model.ErrUnknownProvider):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	case credential.IsCredentialError(err):
		return pkgErrors.NewHTTPError(http.StatusUnauthorized, "account needs to be connected again")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
