package provider_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
)

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   provider.Kind
	}{
		{401, provider.KindAuthExpired},
		{403, provider.KindForbidden},
		{429, provider.KindRateLimited},
		{500, provider.KindUnavailable},
		{503, provider.KindUnavailable},
		{400, provider.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := provider.KindFromStatus(tt.status); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("deadline becomes unavailable", func(t *testing.T) {
		err := provider.Classify(model.ProviderGoogle, "acc", fmt.Errorf("list: %w", context.DeadlineExceeded))
		if provider.KindOf(err) != provider.KindUnavailable {
			t.Errorf("expected unavailable, got %v", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected cause to be kept")
		}
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		err := provider.Classify(model.ProviderGoogle, "acc", context.Canceled)
		if provider.KindOf(err) != "" {
			t.Errorf("expected unclassified cancellation, got %v", err)
		}
	})

	t.Run("already classified kept", func(t *testing.T) {
		in := &provider.Error{Provider: model.ProviderMicrosoft, Kind: provider.KindForbidden}
		if got := provider.Classify(model.ProviderMicrosoft, "acc", in); got != error(in) {
			t.Errorf("expected same error back")
		}
	})

	t.Run("nil", func(t *testing.T) {
		if provider.Classify(model.ProviderGoogle, "acc", nil) != nil {
			t.Errorf("expected nil")
		}
	})
}

func TestRegistry(t *testing.T) {
	r := provider.NewRegistry()
	_, err := r.Get(model.ProviderGoogle)
	if provider.KindOf(err) != provider.KindUnknown {
		t.Errorf("expected unknown kind for missing adapter, got %v", err)
	}
}
