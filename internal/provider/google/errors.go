package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
}

// mapError classifies a Calendar API failure.
func mapError(accountID, eventID string, err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return provider.Classify(model.ProviderGoogle, accountID, err)
	}

	switch apiErr.Code {
	case http.StatusNotFound, http.StatusGone:
		return provider.ErrEventNotFound
	case http.StatusPreconditionFailed:
		return &provider.ConflictError{Provider: model.ProviderGoogle, EventID: eventID}
	}

	kind := provider.KindFromStatus(apiErr.Code)
	if apiErr.Code == http.StatusForbidden {
		for _, item := range apiErr.Errors {
			if rateLimitReasons[item.Reason] {
				kind = provider.KindRateLimited
				break
			}
		}
	}
	return &provider.Error{
		Provider:  model.ProviderGoogle,
		AccountID: accountID,
		Kind:      kind,
		Message:   apiErr.Message,
		Err:       err,
	}
}
