package middleware

import (
	"unified-calendar/pkg/log"
)

// Config holds the gateway trust settings.
type Config struct {
	// InternalKey, when set, must be presented in X-Internal-Key by every
	// caller. Internal-only routes always require it.
	InternalKey string
	// RateLimitPerMin caps requests per user. Zero disables limiting.
	RateLimitPerMin int
}

type Middleware struct {
	l           log.Logger
	internalKey string
	limiter     *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	mw := Middleware{
		l:           l,
		internalKey: cfg.InternalKey,
	}
	if cfg.RateLimitPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	return mw
}
