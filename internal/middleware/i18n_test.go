package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name           string
		xLocale        string
		acceptLanguage string
		country        string
		fallback       string
		want           string
	}{
		{name: "explicit header wins", xLocale: "id", acceptLanguage: "en-US", want: "id"},
		{name: "explicit header normalized", xLocale: "id-ID", want: "id"},
		{name: "unsupported explicit header defaults", xLocale: "zz-!!", want: "en"},
		{name: "accept language english", acceptLanguage: "en-GB,en;q=0.8", want: "en"},
		{name: "accept language indonesian", acceptLanguage: "id-ID,id;q=0.9", want: "id"},
		{name: "country fallback", country: "ID", want: "id"},
		{name: "configured fallback", fallback: "id", want: "id"},
		{name: "default", want: "en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.xLocale != "" {
				req.Header.Set("X-Locale", tc.xLocale)
			}
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}
			if got := detectLocale(req, tc.fallback, tc.country); got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestI18NMiddlewareSetsContext(t *testing.T) {
	var gotLocale string
	handler := I18N("en", func(ip string) (string, error) { return "ID", nil })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotLocale = LocaleFromContext(r.Context())
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.1:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotLocale != "id" {
		t.Fatalf("expected country-derived locale id, got %q", gotLocale)
	}
}
