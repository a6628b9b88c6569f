package usecase

import (
	"context"
	"fmt"
	"time"

	"unified-calendar/internal/credential"
	repo "unified-calendar/internal/credential/repository"
	"unified-calendar/internal/model"
	"unified-calendar/pkg/oauth"
)

// GetValidToken returns the stored access token while it is outside the
// refresh margin, and otherwise refreshes it once for all concurrent callers.
func (uc *implUseCase) GetValidToken(ctx context.Context, accountID string) (model.AccessToken, error) {
	acc, err := uc.loadUsable(ctx, accountID)
	if err != nil {
		return model.AccessToken{}, err
	}
	if uc.fresh(acc) && !uc.hasPending(accountID) {
		return uc.decryptAccess(acc)
	}
	return uc.refresh(ctx, accountID, "")
}

// ForceRefresh is called after a provider rejected a token before its
// expiry. If another caller already replaced the rejected token, the
// replacement is returned without a new refresh.
func (uc *implUseCase) ForceRefresh(ctx context.Context, accountID string, rejected string) (model.AccessToken, error) {
	acc, err := uc.loadUsable(ctx, accountID)
	if err != nil {
		return model.AccessToken{}, err
	}
	stored, err := uc.decryptAccess(acc)
	if err != nil {
		return model.AccessToken{}, err
	}
	if stored.Value != rejected && uc.fresh(acc) && !uc.hasPending(accountID) {
		return stored, nil
	}
	return uc.refresh(ctx, accountID, rejected)
}

// loadUsable reads an active account. Tokens that were refreshed but not
// yet stored take precedence over the stored ones.
func (uc *implUseCase) loadUsable(ctx context.Context, accountID string) (model.ConnectedAccount, error) {
	acc, err := uc.repo.GetOneAccount(ctx, repo.GetOneAccountOptions{ID: accountID})
	if err != nil {
		uc.l.Errorf(ctx, "uc.loadUsable GetOneAccount: %v", err)
		return model.ConnectedAccount{}, err
	}
	if acc.ID == "" {
		uc.dropPending(accountID)
		return model.ConnectedAccount{}, credential.ErrAccountNotFound
	}
	if p, ok := uc.pendingFor(accountID); ok {
		acc.AccessTokenEncrypted = p.AccessTokenEncrypted
		acc.TokenExpiry = p.TokenExpiry
		if p.RefreshTokenEncrypted != "" {
			acc.RefreshTokenEncrypted = p.RefreshTokenEncrypted
		}
	}
	if !acc.IsActive() {
		return model.ConnectedAccount{}, &credential.CredentialError{
			AccountID: acc.ID,
			Provider:  acc.Provider,
			Reason:    credential.ReasonNeedsReauth,
		}
	}
	return acc, nil
}

func (uc *implUseCase) fresh(acc model.ConnectedAccount) bool {
	return acc.TokenExpiry.Sub(uc.now()) > uc.cfg.RefreshMargin
}

func (uc *implUseCase) decryptAccess(acc model.ConnectedAccount) (model.AccessToken, error) {
	value, err := uc.enc.Decrypt(acc.AccessTokenEncrypted)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("decrypt access token: %w", err)
	}
	return model.AccessToken{AccountID: acc.ID, Value: value, Expiry: acc.TokenExpiry}, nil
}

// refresh joins or starts the account's refresh flight. The flight runs
// detached from the caller's cancellation so one impatient caller cannot
// fail the others; a caller that gives up just stops waiting.
func (uc *implUseCase) refresh(ctx context.Context, accountID, rejected string) (model.AccessToken, error) {
	ch := uc.flights.DoChan(accountID, func() (any, error) {
		return uc.doRefresh(context.WithoutCancel(ctx), accountID, rejected)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.AccessToken{}, res.Err
		}
		return res.Val.(model.AccessToken), nil
	case <-ctx.Done():
		return model.AccessToken{}, ctx.Err()
	}
}

func (uc *implUseCase) doRefresh(ctx context.Context, accountID, rejected string) (model.AccessToken, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.RefreshTimeout)
	defer cancel()

	// Re-read: a flight that finished just before this one may already
	// have stored a usable token.
	acc, err := uc.loadUsable(ctx, accountID)
	if err != nil {
		return model.AccessToken{}, err
	}
	uc.flushPending(ctx, accountID)
	if uc.fresh(acc) {
		stored, err := uc.decryptAccess(acc)
		if err != nil {
			return model.AccessToken{}, err
		}
		if rejected == "" || stored.Value != rejected {
			return stored, nil
		}
	}

	refreshToken, err := uc.enc.Decrypt(acc.RefreshTokenEncrypted)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("decrypt refresh token: %w", err)
	}

	tok, err := uc.refresher.Refresh(ctx, string(acc.Provider), refreshToken)
	if err != nil {
		if oauth.IsRevoked(err) {
			if mErr := uc.repo.UpdateStatus(ctx, acc.ID, model.AccountStatusNeedsReauth); mErr != nil {
				uc.l.Errorf(ctx, "uc.doRefresh UpdateStatus: %v", mErr)
			}
			uc.dropPending(acc.ID)
			uc.l.Warnf(ctx, "uc.doRefresh: account %s (%s) needs re-authorization", acc.ID, acc.Provider)
			return model.AccessToken{}, &credential.CredentialError{
				AccountID: acc.ID,
				Provider:  acc.Provider,
				Reason:    credential.ReasonRevoked,
				Err:       err,
			}
		}
		uc.l.Errorf(ctx, "uc.doRefresh Refresh: %v", err)
		return model.AccessToken{}, fmt.Errorf("refresh %s token: %w", acc.Provider, err)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = uc.now().Add(time.Hour)
	}

	opt := repo.UpdateTokensOptions{ID: acc.ID, TokenExpiry: expiry}
	if opt.AccessTokenEncrypted, err = uc.enc.Encrypt(tok.AccessToken); err != nil {
		return model.AccessToken{}, fmt.Errorf("encrypt access token: %w", err)
	}
	if tok.RefreshToken != "" && tok.RefreshToken != refreshToken {
		if opt.RefreshTokenEncrypted, err = uc.enc.Encrypt(tok.RefreshToken); err != nil {
			return model.AccessToken{}, fmt.Errorf("encrypt refresh token: %w", err)
		}
	} else if p, ok := uc.pendingFor(acc.ID); ok {
		// An earlier rotation is still unstored; keep it in this write.
		opt.RefreshTokenEncrypted = p.RefreshTokenEncrypted
	}

	if err := uc.persist(ctx, opt); err != nil {
		// Keep the pair in memory so the next call uses the rotated refresh
		// token and retries the write.
		uc.setPending(opt)
		uc.l.Errorf(ctx, "uc.doRefresh persist account %s (rotated=%v): %v", acc.ID, opt.RefreshTokenEncrypted != "", err)
	} else {
		uc.dropPending(acc.ID)
	}

	return model.AccessToken{AccountID: acc.ID, Value: tok.AccessToken, Expiry: expiry}, nil
}

// persist writes refreshed tokens with linear backoff.
func (uc *implUseCase) persist(ctx context.Context, opt repo.UpdateTokensOptions) error {
	var lastErr error
	for attempt := 1; attempt <= uc.cfg.PersistAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * uc.cfg.PersistDelay
			select {
			case <-ctx.Done():
				return fmt.Errorf("persist cancelled after %d attempts: %w", attempt-1, lastErr)
			case <-time.After(delay):
			}
		}

		lastErr = uc.repo.UpdateTokens(ctx, opt)
		if lastErr == nil {
			return nil
		}
		uc.l.Warnf(ctx, "uc.persist attempt %d/%d failed: %v", attempt, uc.cfg.PersistAttempts, lastErr)
	}
	return lastErr
}

// flushPending retries one store write of a pending token pair.
func (uc *implUseCase) flushPending(ctx context.Context, accountID string) {
	p, ok := uc.pendingFor(accountID)
	if !ok {
		return
	}
	if err := uc.repo.UpdateTokens(ctx, p); err != nil {
		uc.l.Warnf(ctx, "uc.flushPending account %s: %v", accountID, err)
		return
	}
	uc.dropPending(accountID)
}

func (uc *implUseCase) pendingFor(accountID string) (repo.UpdateTokensOptions, bool) {
	uc.pendingMu.Lock()
	defer uc.pendingMu.Unlock()
	p, ok := uc.pending[accountID]
	return p, ok
}

func (uc *implUseCase) hasPending(accountID string) bool {
	_, ok := uc.pendingFor(accountID)
	return ok
}

func (uc *implUseCase) setPending(opt repo.UpdateTokensOptions) {
	uc.pendingMu.Lock()
	defer uc.pendingMu.Unlock()
	uc.pending[opt.ID] = opt
}

func (uc *implUseCase) dropPending(accountID string) {
	uc.pendingMu.Lock()
	defer uc.pendingMu.Unlock()
	delete(uc.pending, accountID)
}
