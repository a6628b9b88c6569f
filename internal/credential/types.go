package credential

import (
	"time"

	"unified-calendar/internal/model"
)

// Config tunes token handling.
type Config struct {
	// RefreshMargin is how close to expiry a token may get before it is refreshed.
	RefreshMargin time.Duration
	// RefreshTimeout bounds one refresh flight, independent of its callers.
	RefreshTimeout time.Duration
	// PersistAttempts is how many times a refreshed token write is tried.
	PersistAttempts int
	// PersistDelay is the linear backoff step between write attempts.
	PersistDelay time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RefreshMargin:   120 * time.Second,
		RefreshTimeout:  15 * time.Second,
		PersistAttempts: 3,
		PersistDelay:    200 * time.Millisecond,
	}
}

// ConnectInput is a freshly consented OAuth grant.
type ConnectInput struct {
	UserID       string
	Provider     model.Provider
	AccountEmail string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scopes       []string
}
