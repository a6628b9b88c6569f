package credential

import (
	"errors"
	"fmt"

	"unified-calendar/internal/model"
)

var (
	ErrAccountNotFound     = errors.New("connected account not found")
	ErrMissingRefreshToken = errors.New("refresh token is required")
	ErrMissingAccessToken  = errors.New("access token is required")
	ErrMissingUser         = errors.New("user id is required")
)

// Reasons carried by CredentialError.
const (
	ReasonNeedsReauth = "needs_reauth"
	ReasonRevoked     = "revoked"
)

// CredentialError means the stored grant is unusable until the user
// connects the account again.
type CredentialError struct {
	AccountID string
	Provider  model.Provider
	Reason    string
	Err       error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential %s (%s): %s: %v", e.AccountID, e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("credential %s (%s): %s", e.AccountID, e.Provider, e.Reason)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// IsCredentialError reports whether err is a *CredentialError.
func IsCredentialError(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}
