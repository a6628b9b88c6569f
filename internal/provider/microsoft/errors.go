package microsoft

import (
	"errors"
	"net/http"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/msgraph"
)

// mapError classifies a Graph failure.
func mapError(accountID, eventID string, err error) error {
	var apiErr *msgraph.APIError
	if !errors.As(err, &apiErr) {
		return provider.Classify(model.ProviderMicrosoft, accountID, err)
	}

	switch apiErr.StatusCode {
	case http.StatusNotFound:
		return provider.ErrEventNotFound
	case http.StatusPreconditionFailed, http.StatusConflict:
		return &provider.ConflictError{Provider: model.ProviderMicrosoft, EventID: eventID}
	}

	return &provider.Error{
		Provider:  model.ProviderMicrosoft,
		AccountID: accountID,
		Kind:      provider.KindFromStatus(apiErr.StatusCode),
		Message:   apiErr.Message,
		Err:       err,
	}
}
