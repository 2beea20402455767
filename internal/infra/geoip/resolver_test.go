package geoip

import (
	"errors"
	"testing"

	"server/internal/middleware"
)

// The resolver's lookup method must plug straight into the i18n middleware.
var _ middleware.CountryLookup = (*Resolver)(nil).CountryCode

func TestNewResolverRequiresPath(t *testing.T) {
	for _, path := range []string{"", "   "} {
		if _, err := NewResolver(path); err == nil {
			t.Errorf("NewResolver(%q) returned no error", path)
		}
	}
}

func TestNewResolverMissingDatabase(t *testing.T) {
	if _, err := NewResolver("/nonexistent/country.mmdb"); err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func TestCountryCodeInvalidIP(t *testing.T) {
	var r *Resolver
	if _, err := r.CountryCode("not-an-ip"); err == nil {
		t.Fatal("expected error for invalid ip")
	}
}

func TestCountryCodeWithoutDatabase(t *testing.T) {
	var r *Resolver
	_, err := r.CountryCode("203.0.113.1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCloseWithoutDatabase(t *testing.T) {
	var r *Resolver
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := (&Resolver{}).Close(); err != nil {
		t.Fatalf("Close on unopened resolver returned error: %v", err)
	}
}
