package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	repo "unified-calendar/internal/credential/repository"
	"unified-calendar/internal/model"
)

type implRepository struct {
	mu       sync.RWMutex
	accounts map[string]model.ConnectedAccount
}

// New creates an in-process Repository. Used with database.driver=memory
// and in tests.
func New() repo.Repository {
	return &implRepository{accounts: make(map[string]model.ConnectedAccount)}
}

func clone(a model.ConnectedAccount) model.ConnectedAccount {
	a.Scopes = append([]string(nil), a.Scopes...)
	return a
}

func (r *implRepository) GetOneAccount(_ context.Context, opt repo.GetOneAccountOptions) (model.ConnectedAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if opt.ID != "" {
		a, ok := r.accounts[opt.ID]
		if !ok || (opt.UserID != "" && a.UserID != opt.UserID) || (opt.Provider != "" && a.Provider != opt.Provider) {
			return model.ConnectedAccount{}, nil
		}
		return clone(a), nil
	}
	for _, a := range r.sorted() {
		if (opt.UserID == "" || a.UserID == opt.UserID) && (opt.Provider == "" || a.Provider == opt.Provider) {
			return clone(a), nil
		}
	}
	return model.ConnectedAccount{}, nil
}

func (r *implRepository) ListAccounts(_ context.Context, opt repo.ListAccountsOptions) ([]model.ConnectedAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.ConnectedAccount
	for _, a := range r.sorted() {
		if opt.UserID != "" && a.UserID != opt.UserID {
			continue
		}
		if opt.Provider != "" && a.Provider != opt.Provider {
			continue
		}
		if opt.Status != "" && a.Status != opt.Status {
			continue
		}
		out = append(out, clone(a))
	}
	return out, nil
}

func (r *implRepository) ReplaceAccount(_ context.Context, opt repo.CreateAccountOptions) (model.ConnectedAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.accounts {
		if a.UserID == opt.UserID && a.Provider == opt.Provider {
			delete(r.accounts, id)
		}
	}

	now := time.Now().UTC()
	a := model.ConnectedAccount{
		ID:                    uuid.NewString(),
		UserID:                opt.UserID,
		Provider:              opt.Provider,
		AccountEmail:          opt.AccountEmail,
		AccessTokenEncrypted:  opt.AccessTokenEncrypted,
		RefreshTokenEncrypted: opt.RefreshTokenEncrypted,
		TokenExpiry:           opt.TokenExpiry,
		Scopes:                append([]string(nil), opt.Scopes...),
		Status:                model.AccountStatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	r.accounts[a.ID] = a
	return clone(a), nil
}

func (r *implRepository) UpdateTokens(_ context.Context, opt repo.UpdateTokensOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[opt.ID]
	if !ok {
		return repo.ErrNotFound
	}
	a.AccessTokenEncrypted = opt.AccessTokenEncrypted
	a.TokenExpiry = opt.TokenExpiry
	if opt.RefreshTokenEncrypted != "" {
		a.RefreshTokenEncrypted = opt.RefreshTokenEncrypted
	}
	a.UpdatedAt = time.Now().UTC()
	r.accounts[a.ID] = a
	return nil
}

func (r *implRepository) UpdateStatus(_ context.Context, id string, status model.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return nil
}

func (r *implRepository) DeleteAccounts(_ context.Context, opt repo.DeleteAccountsOptions) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.accounts {
		if a.UserID != opt.UserID {
			continue
		}
		if opt.Provider != "" && a.Provider != opt.Provider {
			continue
		}
		delete(r.accounts, id)
		n++
	}
	return n, nil
}

// sorted returns accounts ordered by provider then creation. Caller holds the lock.
func (r *implRepository) sorted() []model.ConnectedAccount {
	out := make([]model.ConnectedAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
