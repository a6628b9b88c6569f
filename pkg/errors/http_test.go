package errors_test

import (
	"errors"
	"net/http"
	"testing"

	pkgErrors "unified-calendar/pkg/errors"
)

func TestHTTPError(t *testing.T) {
	err := pkgErrors.NewHTTPErrorf(http.StatusConflict, "version %s is stale", "v1")
	if err.Error() != "version v1 is stale" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var target *pkgErrors.HTTPError
	wrapped := errors.Join(errors.New("ctx"), err)
	if !errors.As(wrapped, &target) || target.StatusCode != http.StatusConflict {
		t.Errorf("expected HTTPError with 409, got %v", target)
	}
}

func TestValidationError(t *testing.T) {
	v := pkgErrors.NewValidationError()
	if v.Err() != nil {
		t.Fatalf("expected nil error for empty validation")
	}
	v.Add("start", "required")
	if v.Err() == nil {
		t.Fatalf("expected error after Add")
	}
}
