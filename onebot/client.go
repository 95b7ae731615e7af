// Package onebot is a minimal OneBot v11 action client. It sends actions
// such as send_like to a protocol endpoint over a forward WebSocket or HTTP.
package onebot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/xytu-function/config"
)

const (
	// ActionSendLike sends profile likes to a user.
	ActionSendLike = "send_like"

	defaultTimeout = 5 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20

	userAgent = "xytu-function/0.3.1"
)

var (
	// ErrDisabled is returned by New when no endpoint is configured.
	ErrDisabled = errors.New("onebot: client disabled (no endpoint)")
	// ErrNoResponse is returned when the connection closes before the
	// matching response arrives.
	ErrNoResponse = errors.New("onebot: no response")
)

// Caller issues OneBot actions.
type Caller interface {
	// Call sends action with params. A nil Response with a nil error means
	// the endpoint acknowledged the call without a body.
	Call(ctx context.Context, action string, params any) (*Response, error)
}

// Response is the OneBot v11 action response envelope.
type Response struct {
	Status  string          `json:"status"`
	RetCode *int            `json:"retcode,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Wording string          `json:"wording,omitempty"`
	Echo    json.RawMessage `json:"echo,omitempty"`
}

// OK reports whether the response signals success. An explicit "failed"
// status is a failure whatever the retcode; otherwise status "ok" or a
// retcode of 0 that the endpoint actually sent counts as success.
func (r *Response) OK() bool {
	switch r.Status {
	case "failed":
		return false
	case "ok":
		return true
	}
	return r.RetCode != nil && *r.RetCode == 0
}

// Code returns the retcode, or -1 when the endpoint sent none.
func (r *Response) Code() int {
	if r.RetCode == nil {
		return -1
	}
	return *r.RetCode
}

// Text joins the message and wording fields for display and matching.
func (r *Response) Text() string {
	return strings.TrimSpace(strings.Join(nonEmpty(r.Message, r.Wording), " "))
}

func (r *Response) echo() string {
	var s string
	if err := json.Unmarshal(r.Echo, &s); err != nil {
		return ""
	}
	return s
}

// APIError is returned when the endpoint rejects the request at the
// transport level, e.g. an HTTP 401 or 404.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("onebot API error: %s (body: %s)", e.Status, e.Body)
	}
	return fmt.Sprintf("onebot API error: %s", e.Status)
}

// request is the frame sent for every action.
type request struct {
	Action string `json:"action"`
	Params any    `json:"params"`
	Echo   string `json:"echo,omitempty"`
}

// New builds a Caller from configuration. It returns ErrDisabled when the
// endpoint is empty.
func New(cfg config.OneBotConfig, logger *slog.Logger) (Caller, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, ErrDisabled
	}

	timeout := config.Duration(cfg.Timeout, defaultTimeout)

	switch strings.ToLower(cfg.Transport) {
	case "", "ws":
		return NewWSClient(cfg.Endpoint, cfg.AccessToken, timeout, logger), nil
	case "http":
		return NewHTTPClient(cfg.Endpoint, cfg.AccessToken, timeout, logger), nil
	default:
		return nil, fmt.Errorf("onebot: unknown transport %q", cfg.Transport)
	}
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func paramsOrEmpty(params any) any {
	if params == nil {
		return struct{}{}
	}
	return params
}
