// Package agent integrates with the third-party voice-agent provider.
// The server only brokers the signed-URL exchange; the voice stream
// itself goes straight from the browser to the provider.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client exchanges an API key for short-lived signed conversation
// URLs.
type Client struct {
	baseURL string
	apiKey  string
	agentID string
	http    *http.Client
}

// NewClient creates a provider client.
func NewClient(baseURL, apiKey, agentID string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		agentID: agentID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the provider credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.agentID != ""
}

// SignedURL requests a signed conversation URL for the configured
// agent.
func (c *Client) SignedURL(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/convai/conversation/get_signed_url?agent_id=%s",
		c.baseURL, url.QueryEscape(c.agentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build signed-url request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("signed-url exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("signed-url exchange: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode signed-url response: %w", err)
	}
	if payload.SignedURL == "" {
		return "", fmt.Errorf("signed-url response missing signed_url")
	}
	return payload.SignedURL, nil
}
