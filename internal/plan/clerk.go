package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const clerkDefaultTimeout = 10 * time.Second

type ClerkOptions struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// ClerkClient reads user metadata and organization memberships from the
// Clerk backend API.
type ClerkClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewClerkClient(opts ClerkOptions) (*ClerkClient, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("clerk secret key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.clerk.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: clerkDefaultTimeout}
	}
	return &ClerkClient{
		secretKey: strings.TrimSpace(opts.SecretKey),
		baseURL:   baseURL,
		client:    client,
	}, nil
}

type clerkUser struct {
	PublicMetadata  planMetadata `json:"public_metadata"`
	PrivateMetadata planMetadata `json:"private_metadata"`
}

type planMetadata struct {
	Plan string `json:"plan"`
}

type clerkMemberships struct {
	Data []struct {
		Organization struct {
			PublicMetadata planMetadata `json:"public_metadata"`
		} `json:"organization"`
	} `json:"data"`
}

// Profile fetches the plan markers for a user. Both the user record and the
// organization memberships are consulted; a failure of either fails the
// whole lookup so the resolver can fall back to free.
func (c *ClerkClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var user clerkUser
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s", url.PathEscape(userID)), &user); err != nil {
		return nil, err
	}

	var memberships clerkMemberships
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/organization_memberships", url.PathEscape(userID)), &memberships); err != nil {
		return nil, err
	}

	profile := &Profile{
		PublicPlan:  user.PublicMetadata.Plan,
		PrivatePlan: user.PrivateMetadata.Plan,
	}
	for _, membership := range memberships.Data {
		profile.OrganizationPlans = append(profile.OrganizationPlans, membership.Organization.PublicMetadata.Plan)
	}
	return profile, nil
}

func (c *ClerkClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("clerk status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode clerk response: %w", err)
	}
	return nil
}

var _ Provider = (*ClerkClient)(nil)
