package onebot

import (
	"bytes"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// RetryTransport wraps http.RoundTripper with retry logic for throttled
// responses. On 429 (Too Many Requests) or 503 (Service Unavailable) it
// sleeps and retries up to MaxRetries times with exponential backoff.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// RoundTrip executes the request, replaying the buffered body on each retry.
// A Retry-After header in seconds overrides the backoff delay.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
	}

	for attempt := 0; ; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= t.MaxRetries {
			return resp, nil
		}

		delay := parseRetryAfter(resp.Header)
		if delay <= 0 {
			delay = t.BaseDelay * (1 << uint(attempt))
		}
		if quarter := int64(delay) / 4; quarter > 0 {
			delay += time.Duration(rand.Int64N(quarter))
		}

		logger.Warn("onebot endpoint throttled, retrying",
			"attempt", attempt+1,
			"max_retries", t.MaxRetries,
			"status", resp.StatusCode,
			"delay", delay,
		)

		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()

		timer := time.NewTimer(delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// parseRetryAfter reads an integer-seconds Retry-After header.
func parseRetryAfter(h http.Header) time.Duration {
	val := h.Get("Retry-After")
	if val == "" {
		return 0
	}
	seconds, err := strconv.Atoi(val)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
