package usecase

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"unified-calendar/internal/credential"
	"unified-calendar/internal/credential/repository"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/encrypter"
	"unified-calendar/pkg/log"
)

// implUseCase is the private implementation of credential.UseCase.
type implUseCase struct {
	l         log.Logger
	repo      repository.Repository
	enc       encrypter.Encrypter
	refresher credential.Refresher
	adapters  provider.Registry
	cfg       credential.Config

	// flights collapses concurrent refreshes of one account into one call.
	flights singleflight.Group
	now     func() time.Time

	// pending holds refreshed tokens the store has not accepted yet, keyed
	// by account ID. Entries are written and flushed inside the account's
	// flight.
	pendingMu sync.Mutex
	pending   map[string]repository.UpdateTokensOptions
}

// New creates a credential UseCase. adapters may be nil; it is only used
// to look up the account email on Connect.
func New(
	l log.Logger,
	repo repository.Repository,
	enc encrypter.Encrypter,
	refresher credential.Refresher,
	adapters provider.Registry,
	cfg credential.Config,
) credential.UseCase {
	def := credential.DefaultConfig()
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = def.RefreshMargin
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = def.RefreshTimeout
	}
	if cfg.PersistAttempts <= 0 {
		cfg.PersistAttempts = def.PersistAttempts
	}
	if cfg.PersistDelay <= 0 {
		cfg.PersistDelay = def.PersistDelay
	}
	return &implUseCase{
		l:         l,
		repo:      repo,
		enc:       enc,
		refresher: refresher,
		adapters:  adapters,
		cfg:       cfg,
		now:       time.Now,
		pending:   make(map[string]repository.UpdateTokensOptions),
	}
}
