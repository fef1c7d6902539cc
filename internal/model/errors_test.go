package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "timeframe", Token: "7x"}

	if !strings.Contains(err.Error(), "7x") {
		t.Errorf("Error() = %q, should name the rejected token", err.Error())
	}
	if !IsValidation(err) {
		t.Error("IsValidation = false, want true")
	}

	wrapped := fmt.Errorf("fetch ohlc: %w", err)
	if !IsValidation(wrapped) {
		t.Error("IsValidation on wrapped error = false, want true")
	}
	if IsNotFound(wrapped) {
		t.Error("IsNotFound = true for a validation error")
	}
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &UpstreamError{Upstream: "kraken", Err: cause}

	if !strings.Contains(err.Error(), "kraken") {
		t.Errorf("Error() = %q, should name the upstream", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if !IsUpstream(err) {
		t.Error("IsUpstream = false, want true")
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "pair", Key: "XBTUSD"}

	if !strings.Contains(err.Error(), "XBTUSD") {
		t.Errorf("Error() = %q, should name the key", err.Error())
	}
	if !IsNotFound(fmt.Errorf("add pair: %w", err)) {
		t.Error("IsNotFound on wrapped error = false, want true")
	}
}
