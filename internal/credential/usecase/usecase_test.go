package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"unified-calendar/internal/credential"
	"unified-calendar/internal/credential/repository"
	"unified-calendar/internal/credential/repository/memory"
	"unified-calendar/internal/model"
	"unified-calendar/pkg/encrypter"
	"unified-calendar/pkg/log"
)

type fakeRefresher struct {
	calls   atomic.Int32
	delay   time.Duration
	rotate  bool
	err     error
	expires time.Time
}

func (f *fakeRefresher) Refresh(ctx context.Context, provider string, refreshToken string) (*oauth2.Token, error) {
	n := f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	tok := &oauth2.Token{AccessToken: "access-" + string(rune('0'+n)), Expiry: f.expires}
	if f.rotate {
		tok.RefreshToken = "refresh-rotated"
	} else {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

type fixture struct {
	uc        *implUseCase
	repo      repository.Repository
	enc       encrypter.Encrypter
	refresher *fakeRefresher
	now       time.Time
	account   model.ConnectedAccount
}

func newFixture(t *testing.T, expiresIn time.Duration) *fixture {
	t.Helper()
	enc, err := encrypter.New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("encrypter: %v", err)
	}
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	refresher := &fakeRefresher{delay: 20 * time.Millisecond, expires: now.Add(time.Hour)}
	repo := memory.New()

	uc := New(log.NewNop(), repo, enc, refresher, nil, credential.Config{PersistDelay: time.Millisecond}).(*implUseCase)
	uc.now = func() time.Time { return now }

	acc, err := uc.Connect(context.Background(), credential.ConnectInput{
		UserID:       "user-1",
		Provider:     model.ProviderGoogle,
		AccountEmail: "alpha@example.com",
		AccessToken:  "access-0",
		RefreshToken: "refresh-0",
		Expiry:       now.Add(expiresIn),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return &fixture{uc: uc, repo: repo, enc: enc, refresher: refresher, now: now, account: acc}
}

func (f *fixture) stored(t *testing.T) (model.ConnectedAccount, string, string) {
	t.Helper()
	acc, _ := f.repo.GetOneAccount(context.Background(), repository.GetOneAccountOptions{ID: f.account.ID})
	access, _ := f.enc.Decrypt(acc.AccessTokenEncrypted)
	refresh, _ := f.enc.Decrypt(acc.RefreshTokenEncrypted)
	return acc, access, refresh
}

func TestGetValidToken(t *testing.T) {
	t.Run("fresh token is returned unchanged", func(t *testing.T) {
		f := newFixture(t, 10*time.Minute)

		tok, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value != "access-0" {
			t.Errorf("expected stored token, got %q", tok.Value)
		}
		if f.refresher.calls.Load() != 0 {
			t.Errorf("expected no refresh, got %d", f.refresher.calls.Load())
		}
	})

	t.Run("token 30s from expiry is refreshed once", func(t *testing.T) {
		f := newFixture(t, 30*time.Second)

		tok, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value != "access-1" {
			t.Errorf("expected refreshed token, got %q", tok.Value)
		}
		if f.refresher.calls.Load() != 1 {
			t.Errorf("expected 1 refresh, got %d", f.refresher.calls.Load())
		}

		acc, access, refresh := f.stored(t)
		if access != "access-1" || refresh != "refresh-0" {
			t.Errorf("unexpected stored tokens %q %q", access, refresh)
		}
		if !acc.TokenExpiry.Equal(f.now.Add(time.Hour)) {
			t.Errorf("unexpected stored expiry %v", acc.TokenExpiry)
		}

		again, _ := f.uc.GetValidToken(context.Background(), f.account.ID)
		if again.Value != "access-1" || f.refresher.calls.Load() != 1 {
			t.Errorf("expected cached refreshed token without new refresh")
		}
	})

	t.Run("concurrent callers share one refresh", func(t *testing.T) {
		f := newFixture(t, -time.Minute)

		const callers = 25
		var wg sync.WaitGroup
		results := make([]string, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tok, err := f.uc.GetValidToken(context.Background(), f.account.ID)
				results[i], errs[i] = tok.Value, err
			}(i)
		}
		wg.Wait()

		if got := f.refresher.calls.Load(); got != 1 {
			t.Fatalf("expected exactly 1 refresh, got %d", got)
		}
		for i := range results {
			if errs[i] != nil || results[i] != "access-1" {
				t.Errorf("caller %d got %q, %v", i, results[i], errs[i])
			}
		}
	})

	t.Run("rotated refresh token is stored", func(t *testing.T) {
		f := newFixture(t, 0)
		f.refresher.rotate = true

		if _, err := f.uc.GetValidToken(context.Background(), f.account.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, access, refresh := f.stored(t)
		if access != "access-1" || refresh != "refresh-rotated" {
			t.Errorf("expected both tokens replaced, got %q %q", access, refresh)
		}
	})

	t.Run("revoked grant fails every waiter and marks needs_reauth", func(t *testing.T) {
		f := newFixture(t, 0)
		f.refresher.err = &oauth2.RetrieveError{ErrorCode: "invalid_grant"}

		const callers = 10
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.uc.GetValidToken(context.Background(), f.account.ID)
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if !credential.IsCredentialError(err) {
				t.Errorf("caller %d: expected CredentialError, got %v", i, err)
			}
		}
		if got := f.refresher.calls.Load(); got != 1 {
			t.Errorf("expected 1 refresh attempt, got %d", got)
		}

		acc, _, _ := f.stored(t)
		if acc.Status != model.AccountStatusNeedsReauth {
			t.Errorf("expected needs_reauth, got %s", acc.Status)
		}

		_, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		var ce *credential.CredentialError
		if !errors.As(err, &ce) || ce.Reason != credential.ReasonNeedsReauth {
			t.Errorf("expected fast needs_reauth failure, got %v", err)
		}
		if got := f.refresher.calls.Load(); got != 1 {
			t.Errorf("expected no further refresh, got %d", got)
		}
	})

	t.Run("transient refresh failure is not a credential error", func(t *testing.T) {
		f := newFixture(t, 0)
		f.refresher.err = &oauth2.RetrieveError{ErrorCode: "temporarily_unavailable"}

		_, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err == nil || credential.IsCredentialError(err) {
			t.Fatalf("expected plain error, got %v", err)
		}
		acc, _, _ := f.stored(t)
		if acc.Status != model.AccountStatusActive {
			t.Errorf("account must stay active, got %s", acc.Status)
		}
	})

	t.Run("invalid_client keeps the account active", func(t *testing.T) {
		f := newFixture(t, 0)
		f.refresher.err = &oauth2.RetrieveError{ErrorCode: "invalid_client"}

		_, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err == nil || credential.IsCredentialError(err) {
			t.Fatalf("expected plain error, got %v", err)
		}
		acc, _, _ := f.stored(t)
		if acc.Status != model.AccountStatusActive {
			t.Errorf("account must stay active, got %s", acc.Status)
		}
	})

	t.Run("cancelled caller does not cancel the flight", func(t *testing.T) {
		f := newFixture(t, 0)
		f.refresher.delay = 100 * time.Millisecond

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := f.uc.GetValidToken(ctx, f.account.ID)
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		var patient model.AccessToken
		var patientErr error
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			patient, patientErr = f.uc.GetValidToken(context.Background(), f.account.ID)
		}()
		time.Sleep(10 * time.Millisecond)
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancelled caller to see context.Canceled, got %v", err)
		}
		wg.Wait()
		if patientErr != nil || patient.Value != "access-1" {
			t.Errorf("expected patient caller to get refreshed token, got %q, %v", patient.Value, patientErr)
		}
		if got := f.refresher.calls.Load(); got != 1 {
			t.Errorf("expected 1 refresh, got %d", got)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t, time.Hour)
		if _, err := f.uc.GetValidToken(context.Background(), "missing"); !errors.Is(err, credential.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

// flakyRepo fails every token write while down is set.
type flakyRepo struct {
	repository.Repository
	down   atomic.Bool
	writes atomic.Int32
}

func (r *flakyRepo) UpdateTokens(ctx context.Context, opt repository.UpdateTokensOptions) error {
	r.writes.Add(1)
	if r.down.Load() {
		return errors.New("store unavailable")
	}
	return r.Repository.UpdateTokens(ctx, opt)
}

// rotatingRefresher issues a new refresh token on every call and rejects
// any refresh token it has already seen.
type rotatingRefresher struct {
	mu   sync.Mutex
	sent []string
	used map[string]bool
}

func (r *rotatingRefresher) Refresh(ctx context.Context, provider string, refreshToken string) (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, refreshToken)
	if r.used[refreshToken] {
		return nil, &oauth2.RetrieveError{ErrorCode: "invalid_grant"}
	}
	r.used[refreshToken] = true
	n := len(r.sent)
	return &oauth2.Token{
		AccessToken:  fmt.Sprintf("access-%d", n),
		RefreshToken: fmt.Sprintf("refresh-rotated-%d", n),
	}, nil
}

func (r *rotatingRefresher) sentTokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestUnstoredRotation(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *flakyRepo, *rotatingRefresher) {
		f := newFixture(t, 30*time.Second)
		flaky := &flakyRepo{Repository: f.repo}
		rr := &rotatingRefresher{used: map[string]bool{}}
		f.uc.repo = flaky
		f.uc.refresher = rr
		return f, flaky, rr
	}

	t.Run("next call writes the pending pair", func(t *testing.T) {
		f, flaky, rr := setup(t)
		flaky.down.Store(true)

		tok, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value != "access-1" {
			t.Errorf("expected refreshed token, got %q", tok.Value)
		}
		if _, _, refresh := f.stored(t); refresh != "refresh-0" {
			t.Fatalf("store should still hold the old refresh token, got %q", refresh)
		}

		flaky.down.Store(false)
		tok, err = f.uc.GetValidToken(context.Background(), f.account.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value != "access-1" {
			t.Errorf("expected pending token, got %q", tok.Value)
		}
		if got := rr.sentTokens(); len(got) != 1 {
			t.Errorf("expected no second refresh, sent %v", got)
		}
		_, access, refresh := f.stored(t)
		if access != "access-1" || refresh != "refresh-rotated-1" {
			t.Errorf("expected pending pair stored, got %q %q", access, refresh)
		}
	})

	t.Run("second refresh sends the rotated token", func(t *testing.T) {
		f, flaky, rr := setup(t)
		flaky.down.Store(true)

		if _, err := f.uc.GetValidToken(context.Background(), f.account.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		later := f.now.Add(2 * time.Hour)
		f.uc.now = func() time.Time { return later }

		tok, err := f.uc.GetValidToken(context.Background(), f.account.ID)
		if err != nil {
			t.Fatalf("second refresh failed: %v", err)
		}
		if tok.Value != "access-2" {
			t.Errorf("expected access-2, got %q", tok.Value)
		}
		sent := rr.sentTokens()
		if len(sent) != 2 || sent[0] != "refresh-0" || sent[1] != "refresh-rotated-1" {
			t.Fatalf("expected [refresh-0 refresh-rotated-1], sent %v", sent)
		}
		if acc, _, _ := f.stored(t); acc.Status != model.AccountStatusActive {
			t.Errorf("account must stay active, got %s", acc.Status)
		}

		flaky.down.Store(false)
		if _, err := f.uc.GetValidToken(context.Background(), f.account.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, access, refresh := f.stored(t)
		if access != "access-2" || refresh != "refresh-rotated-2" {
			t.Errorf("expected latest pair stored, got %q %q", access, refresh)
		}
		if got := rr.sentTokens(); len(got) != 2 {
			t.Errorf("expected no further refresh, sent %v", got)
		}
	})

	t.Run("stored write clears the pending pair", func(t *testing.T) {
		f, flaky, _ := setup(t)

		if _, err := f.uc.GetValidToken(context.Background(), f.account.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.uc.hasPending(f.account.ID) {
			t.Errorf("nothing should be pending after a stored write")
		}
		writes := flaky.writes.Load()
		if _, err := f.uc.GetValidToken(context.Background(), f.account.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := flaky.writes.Load(); got != writes {
			t.Errorf("fresh token must not write, got %d writes after %d", got, writes)
		}
	})
}

func TestForceRefresh(t *testing.T) {
	t.Run("rejected stored token is refreshed", func(t *testing.T) {
		f := newFixture(t, time.Hour)

		tok, err := f.uc.ForceRefresh(context.Background(), f.account.ID, "access-0")
		if err != nil || tok.Value != "access-1" {
			t.Fatalf("expected refreshed token, got %q, %v", tok.Value, err)
		}
		if f.refresher.calls.Load() != 1 {
			t.Errorf("expected 1 refresh, got %d", f.refresher.calls.Load())
		}
	})

	t.Run("already replaced token is reused", func(t *testing.T) {
		f := newFixture(t, time.Hour)

		tok, err := f.uc.ForceRefresh(context.Background(), f.account.ID, "some-older-token")
		if err != nil || tok.Value != "access-0" {
			t.Fatalf("expected stored token, got %q, %v", tok.Value, err)
		}
		if f.refresher.calls.Load() != 0 {
			t.Errorf("expected no refresh, got %d", f.refresher.calls.Load())
		}
	})
}

func TestConnect(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()

	t.Run("reconnect replaces the account", func(t *testing.T) {
		acc, err := f.uc.Connect(ctx, credential.ConnectInput{
			UserID: "user-1", Provider: model.ProviderGoogle,
			AccessToken: "a", RefreshToken: "r",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		list, _ := f.uc.ListAccounts(ctx, model.Scope{UserID: "user-1"})
		if len(list) != 1 || list[0].ID != acc.ID {
			t.Errorf("expected single replaced account, got %+v", list)
		}
		if acc.AccessTokenEncrypted == "a" {
			t.Errorf("tokens must be stored encrypted")
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input credential.ConnectInput
			want  error
		}{
			{name: "no user", input: credential.ConnectInput{Provider: model.ProviderGoogle, AccessToken: "a", RefreshToken: "r"}, want: credential.ErrMissingUser},
			{name: "bad provider", input: credential.ConnectInput{UserID: "u", Provider: "yahoo", AccessToken: "a", RefreshToken: "r"}, want: model.ErrUnknownProvider},
			{name: "no refresh token", input: credential.ConnectInput{UserID: "u", Provider: model.ProviderMicrosoft, AccessToken: "a"}, want: credential.ErrMissingRefreshToken},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := f.uc.Connect(ctx, tt.input); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("disconnect", func(t *testing.T) {
		sc := model.Scope{UserID: "user-1"}
		if err := f.uc.Disconnect(ctx, sc, model.ProviderGoogle); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.uc.Disconnect(ctx, sc, model.ProviderGoogle); !errors.Is(err, credential.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound on second disconnect, got %v", err)
		}
	})
}
