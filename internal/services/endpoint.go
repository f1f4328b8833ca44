package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"waguri-backend/internal/models"
)

// EndpointClient talks to a remote chat endpoint over a single JSON
// POST/response exchange. It implements chatsession.Endpoint.
type EndpointClient struct {
	url    string
	client *http.Client
}

const defaultRequestTimeout = 60 * time.Second

// NewEndpointClient creates a client for the given chat endpoint URL.
// A timeout of 0 falls back to 60s so a hung request cannot wedge the
// session forever.
func NewEndpointClient(url string, timeout time.Duration) *EndpointClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &EndpointClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Reply posts {message, history, lang} and returns the response text.
// Transport errors, non-2xx statuses, and malformed bodies all collapse
// into a single failure; callers do not distinguish them.
func (c *EndpointClient) Reply(ctx context.Context, message string, history []models.ChatMessage, lang string) (string, error) {
	payload, err := json.Marshal(models.ChatRequest{
		Message: message,
		History: history,
		Lang:    lang,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	var out models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("chat endpoint returned an empty response")
	}
	return out.Response, nil
}
