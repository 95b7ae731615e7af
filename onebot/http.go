package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	retryMaxRetries = 2
	retryBaseDelay  = 500 * time.Millisecond
)

// HTTPClient talks to a OneBot HTTP endpoint: each action is a POST to
// {base}/{action} with the params as a JSON body.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTP client for baseURL. Throttled responses are
// retried through RetryTransport. If logger is nil, a no-op logger is used.
func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Transport: &RetryTransport{
				Base:       http.DefaultTransport,
				MaxRetries: retryMaxRetries,
				BaseDelay:  retryBaseDelay,
				Logger:     logger,
			},
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Call posts params to the action endpoint and decodes the response
// envelope. Non-2xx statuses are returned as *APIError.
func (c *HTTPClient) Call(ctx context.Context, action string, params any) (*Response, error) {
	body, err := json.Marshal(paramsOrEmpty(params))
	if err != nil {
		return nil, fmt.Errorf("onebot: marshal %s params: %w", action, err)
	}

	url := c.baseURL + "/" + action
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("onebot: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("posting onebot action", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("onebot: %s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("onebot: read %s response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(string(data)), 512),
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("onebot: decode %s response: %w", action, err)
	}

	c.logger.Debug("onebot action response",
		"action", action,
		"status", out.Status,
		"retcode", out.Code(),
	)
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
