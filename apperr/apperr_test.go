package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{Validation("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{Unauthenticated("who"), http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{Forbidden("no"), http.StatusForbidden, "AUTHORIZATION_ERROR"},
		{NotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{Conflict("dup"), http.StatusConflict, "CONFLICT"},
		{RateLimited("slow down"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{Internal("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, c := range cases {
		if c.err.Status != c.status {
			t.Errorf("%s: status = %d, want %d", c.code, c.err.Status, c.status)
		}
		if c.err.Code != c.code {
			t.Errorf("code = %q, want %q", c.err.Code, c.code)
		}
	}
}

func TestFromPassesThroughTagged(t *testing.T) {
	orig := NotFound("post not found")
	got := From(fmt.Errorf("fetching: %w", orig))
	if got.Status != http.StatusNotFound || got.Message != "post not found" {
		t.Errorf("From(wrapped) = %+v, want the original tagged error", got)
	}
}

func TestFromHidesUnknownErrors(t *testing.T) {
	got := From(errors.New("connection reset by peer"))
	if got.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", got.Status)
	}
	if got.Message == "connection reset by peer" {
		t.Error("driver error message leaked into response")
	}
}
