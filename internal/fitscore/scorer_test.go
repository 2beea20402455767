package fitscore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"server/internal/domain"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

const validAssessment = `{"matchScore": 82, "summary": "Strong backend overlap.",
 "strengths": ["Go", "Postgres"], "gaps": ["No mobile experience"],
 "verdict": "High Match"}`

func newTestScorer(t *testing.T, handler http.HandlerFunc) (*Scorer, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	scorer, err := NewScorer(Options{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewScorer returned error: %v", err)
	}
	return scorer, server
}

func TestNewScorerRequiresAPIKey(t *testing.T) {
	_, err := NewScorer(Options{})
	var cerr *domain.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestAnalyzeValidResponse(t *testing.T) {
	var gotBody map[string]any
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(completionBody(validAssessment)))
	})

	got, err := scorer.Analyze(context.Background(), "Senior Go engineer, Postgres, Kubernetes.")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.MatchScore != 82 {
		t.Fatalf("matchScore = %d", got.MatchScore)
	}
	if got.Verdict != domain.VerdictHighMatch {
		t.Fatalf("verdict = %q", got.Verdict)
	}
	if len(got.Strengths) != 2 || len(got.Gaps) != 1 {
		t.Fatalf("strengths/gaps = %v / %v", got.Strengths, got.Gaps)
	}

	format, _ := gotBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("response_format = %v", gotBody["response_format"])
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v", messages)
	}
	user, _ := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	if !strings.Contains(content, "Senior Go engineer") {
		t.Fatal("job description missing from prompt")
	}
	if !strings.Contains(content, "Candidate profile:") {
		t.Fatal("candidate profile missing from prompt")
	}
}

func TestAnalyzeFencedResponse(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("```json\n" + validAssessment + "\n```")))
	})

	got, err := scorer.Analyze(context.Background(), "Backend role.")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.MatchScore != 82 {
		t.Fatalf("matchScore = %d", got.MatchScore)
	}
}

func TestAnalyzeFailureModes(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"upstream error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			"malformed envelope",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": [`))
			},
		},
		{
			"no choices",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
		},
		{
			"empty content",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionBody("   ")))
			},
		},
		{
			"content is not json",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionBody("I cannot answer that.")))
			},
		},
		{
			"score out of range",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionBody(`{"matchScore": 140, "summary": "x", "strengths": [], "gaps": [], "verdict": "High Match"}`)))
			},
		},
		{
			"unknown verdict",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionBody(`{"matchScore": 50, "summary": "x", "strengths": [], "gaps": [], "verdict": "Maybe"}`)))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scorer, _ := newTestScorer(t, tc.handler)
			got, err := scorer.Analyze(context.Background(), "Backend role.")
			if !errors.Is(err, domain.ErrAnalysisFailed) {
				t.Fatalf("expected ErrAnalysisFailed, got %v", err)
			}
			if got != nil {
				t.Fatalf("expected no partial result, got %+v", got)
			}
		})
	}
}

func TestTrimCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := trimCodeFence(tc.in); got != tc.want {
			t.Errorf("trimCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
