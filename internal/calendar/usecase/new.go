package usecase

import (
	"time"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/datemath"
	"unified-calendar/pkg/log"
)

// implUseCase is the private implementation of calendar.UseCase.
type implUseCase struct {
	l           log.Logger
	credentials credential.UseCase
	adapters    provider.Registry
	dates       *datemath.Parser
	cfg         calendar.Config
	now         func() time.Time
}

// New creates a calendar UseCase. dates resolves the default window.
func New(
	l log.Logger,
	credentials credential.UseCase,
	adapters provider.Registry,
	dates *datemath.Parser,
	cfg calendar.Config,
) calendar.UseCase {
	def := calendar.DefaultConfig()
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = def.ProviderTimeout
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = def.MaxParallel
	}
	return &implUseCase{
		l:           l,
		credentials: credentials,
		adapters:    adapters,
		dates:       dates,
		cfg:         cfg,
		now:         time.Now,
	}
}
