package clerkauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPartyAuthorized(t *testing.T) {
	cases := []struct {
		name    string
		parties []string
		azp     string
		want    bool
	}{
		{name: "no restriction", parties: nil, azp: "https://example.dev", want: true},
		{name: "missing azp allowed", parties: []string{"https://example.dev"}, azp: "", want: true},
		{name: "match", parties: []string{"https://example.dev"}, azp: "https://example.dev", want: true},
		{name: "mismatch", parties: []string{"https://example.dev"}, azp: "https://evil.dev", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVerifier("https://clerk.example.dev", tc.parties)
			if got := v.partyAuthorized(tc.azp); got != tc.want {
				t.Fatalf("partyAuthorized(%q) = %v, want %v", tc.azp, got, tc.want)
			}
		})
	}
}

func TestRefreshRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer server.Close()

	v := NewVerifier(server.URL, nil)
	err := v.refresh(context.Background())
	if err == nil {
		t.Fatal("expected error for non-200 jwks response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("error %q does not name the response status", err)
	}
}

func TestRefreshParsesKeySet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		// 65537 exponent, 2048-bit modulus of an arbitrary throwaway key.
		_, _ = w.Write([]byte(`{"keys":[{"kid":"k1","kty":"RSA","alg":"RS256",` +
			`"e":"AQAB","n":"0vx7agoebGcQSuuPiLJXZptN9nndrQmbXEps2aiAFbWhM78LhWx4cbbfAAtVT86zwu1RK7aPFFxuhDR1L6tSoc_BJECPebWKRXjBZCiFV4n3oknjhMstn64tZ_2W-5JsGY4Hc5n9yBXArwl93lqt7_RN5w6Cf0h4QyQ5v-65YGjQR0_FDW2QvzqY368QQMicAtaSqzs8KJZgnYb9c7d0zgdAZHzu6qMQvRL5hajrn1n91CbOpbISD08qNLyrdkt-bFTWhAI4vMQFh6WeZu0fM4lFd2NcRwr3XPksINHaQ-G_xBniIqbw0Ls1jF44-csFCur-kEgU8awapJzKnqDKgw"}]}`))
	}))
	defer server.Close()

	v := NewVerifier(server.URL, nil)
	if err := v.refresh(context.Background()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if _, ok := v.keyFor("k1"); !ok {
		t.Fatal("expected key k1 in cache after refresh")
	}
}

func TestParseJWTRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"", "one", "a.b", "a.b.c.d", "!!!.###.$$$"} {
		if _, _, _, _, err := parseJWT(token); err == nil {
			t.Fatalf("expected parse error for %q", token)
		}
	}
}
