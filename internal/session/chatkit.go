package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

const chatKitDefaultTimeout = 15 * time.Second

type ChatKitOptions struct {
	APIKey     string
	WorkflowID string
	BaseURL    string
	HTTPClient *http.Client
}

// ChatKitClient mints chat session credentials against the hosted ChatKit
// sessions API.
type ChatKitClient struct {
	apiKey     string
	workflowID string
	baseURL    string
	client     *http.Client
}

// NewChatKitClient validates the required credentials up front: a missing API
// key or workflow id is a configuration error, not something a retry fixes.
func NewChatKitClient(opts ChatKitOptions) (*ChatKitClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &domain.ConfigError{Missing: "OPENAI_API_KEY"}
	}
	if strings.TrimSpace(opts.WorkflowID) == "" {
		return nil, &domain.ConfigError{Missing: "CHATKIT_WORKFLOW_ID"}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: chatKitDefaultTimeout}
	}
	return &ChatKitClient{
		apiKey:     strings.TrimSpace(opts.APIKey),
		workflowID: strings.TrimSpace(opts.WorkflowID),
		baseURL:    baseURL,
		client:     client,
	}, nil
}

type chatKitSessionRequest struct {
	Workflow chatKitWorkflow `json:"workflow"`
	User     string          `json:"user"`
}

type chatKitWorkflow struct {
	ID string `json:"id"`
}

type chatKitSessionResponse struct {
	ClientSecret string `json:"client_secret"`
}

// CreateSession exchanges a caller identifier for an opaque session
// credential.
func (c *ChatKitClient) CreateSession(ctx context.Context, user string) (string, error) {
	payload := chatKitSessionRequest{
		Workflow: chatKitWorkflow{ID: c.workflowID},
		User:     user,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", &domain.UpstreamError{Service: "chatkit", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chatkit/sessions", &buf)
	if err != nil {
		return "", &domain.UpstreamError{Service: "chatkit", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "chatkit_beta=v1")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Service: "chatkit", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &domain.UpstreamError{Service: "chatkit", Status: resp.StatusCode, Body: string(body)}
	}

	var out chatKitSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &domain.UpstreamError{Service: "chatkit", Err: err}
	}
	if out.ClientSecret == "" {
		return "", &domain.UpstreamError{Service: "chatkit", Status: resp.StatusCode, Body: "missing client_secret"}
	}
	return out.ClientSecret, nil
}
