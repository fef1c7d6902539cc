package model

import (
	"errors"
	"fmt"
)

// ValidationError reports a request parameter the service could not accept,
// such as an unknown timeframe token or a malformed pair name.
type ValidationError struct {
	Field string // Parameter name (e.g., "timeframe")
	Token string // The rejected value
	Msg   string // Optional extra context
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Token, e.Msg)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Token)
}

// UpstreamError reports that the exchange or the database web service was
// unreachable or returned a failure. Callers surface it as success=false
// without retrying.
type UpstreamError struct {
	Upstream string // "kraken" or "database"
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFoundError reports that no data exists for the requested resource.
type NotFoundError struct {
	Resource string // e.g., "pair", "symbol", "ohlc data"
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
