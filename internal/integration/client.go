package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrschumacher/integrationhub/internal/logger"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 16 << 20

// NewHTTPClient returns the shared outbound client.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// APIClient calls a provider's REST API with a bearer token. Non-2xx answers
// and transport failures are reported as ItemFetchFailed.
type APIClient struct {
	HTTP     *http.Client
	Provider string
	Token    string
	Header   http.Header
}

// NewAPIClient returns a client for provider authenticated with token.
func NewAPIClient(hc *http.Client, provider, token string) *APIClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &APIClient{HTTP: hc, Provider: provider, Token: token, Header: http.Header{}}
}

// Get fetches url and returns the response body.
func (c *APIClient) Get(ctx context.Context, url string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Post sends body as JSON to url and returns the response body.
func (c *APIClient) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, url, body)
}

// Do performs the request and returns the body of a 2xx response.
func (c *APIClient) Do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, ItemFetchFailed(c.Provider, 0, fmt.Errorf("build request: %w", err))
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, ItemFetchFailed(c.Provider, 0, fmt.Errorf("%s %s: %w", method, url, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, ItemFetchFailed(c.Provider, 0, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Provider API returned an error",
			"provider", c.Provider, "method", method, "url", url, "status", resp.StatusCode)
		return nil, ItemFetchFailed(c.Provider, resp.StatusCode, fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode))
	}
	return data, nil
}
