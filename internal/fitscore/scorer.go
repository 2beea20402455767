package fitscore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

const scorerDefaultTimeout = 30 * time.Second

const defaultModel = "gpt-4o-mini"

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Scorer grades a pasted job description against the fixed candidate profile
// using an OpenAI chat completion constrained to JSON output.
type Scorer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewScorer(opts Options) (*Scorer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &domain.ConfigError{Missing: "OPENAI_API_KEY"}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: scorerDefaultTimeout}
	}
	return &Scorer{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze returns a validated assessment or ErrAnalysisFailed. Every failure
// mode collapses into the same sentinel: callers get a full result or nothing,
// never a partial one.
func (s *Scorer) Analyze(ctx context.Context, jobDescription string) (*domain.JobFitAssessment, error) {
	payload := chatRequest{
		Model:       s.model,
		Temperature: 0.2,
		ResponseFormat: &chatFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: buildAnalysisPrompt(jobDescription)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, analysisFailed("encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, analysisFailed("build_request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, analysisFailed("http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, analysisFailed(fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("openai status %d", resp.StatusCode))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, analysisFailed("decode_response", err)
	}
	if len(out.Choices) == 0 {
		return nil, analysisFailed("empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return nil, analysisFailed("empty_response", errors.New("empty response"))
	}
	assessment, err := parseAssessment(text)
	if err != nil {
		return nil, analysisFailed("parse_payload", err)
	}
	return assessment, nil
}

func parseAssessment(raw string) (*domain.JobFitAssessment, error) {
	cleaned := trimCodeFence(raw)
	if cleaned == "" {
		return nil, errors.New("empty payload")
	}
	var assessment domain.JobFitAssessment
	if err := json.Unmarshal([]byte(cleaned), &assessment); err != nil {
		return nil, err
	}
	if err := assessment.Validate(); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Models occasionally wrap JSON in a markdown fence despite the json_object
// response format.
func trimCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func analysisFailed(reason string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrAnalysisFailed, reason, err)
}
