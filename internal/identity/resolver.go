package identity

import (
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/middleware"
)

// The loopback placeholder stands in when no forwarded-origin header is
// present (direct local calls, misconfigured proxies).
const loopbackOrigin = "127.0.0.1"

var originHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// Resolve determines the quota identity for a request. It never fails:
// absence of authentication yields a guest identity keyed by the caller's
// apparent network origin. Guests behind a shared NAT or proxy share an
// origin and therefore a quota.
func Resolve(r *http.Request) (domain.Identity, bool) {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return domain.AuthenticatedIdentity(userID), false
	}
	return domain.GuestIdentity(originAddress(r)), true
}

func originAddress(r *http.Request) string {
	for _, header := range originHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		for _, part := range strings.Split(value, ",") {
			if origin := strings.TrimSpace(part); origin != "" {
				return origin
			}
		}
	}
	return loopbackOrigin
}
