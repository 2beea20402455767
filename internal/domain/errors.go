package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrStoreUnavailable = errors.New("usage store unavailable")
	ErrAnalysisFailed   = errors.New("analysis failed")
)

// QuotaExceededError carries enough context for the boundary layer to render
// an audience-specific message. User-facing text is never produced here.
type QuotaExceededError struct {
	Limit int
	Tier  Tier
	Guest bool
}

func (e *QuotaExceededError) Error() string {
	audience := string(e.Tier)
	if e.Guest {
		audience = "guest"
	}
	return fmt.Sprintf("daily quota of %d exhausted for %s", e.Limit, audience)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ConfigError signals a missing required credential or identifier. It is
// fatal for the operation that needs it and never retriable.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Missing)
}

// UpstreamError wraps a non-success response or transport failure from a
// third-party API, preserving upstream detail for diagnostics.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
