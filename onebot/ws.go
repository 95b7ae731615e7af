package onebot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient talks to a OneBot forward WebSocket endpoint. Calls are
// serialised; the connection is dialled on first use and re-dialled on the
// next call after any failure.
type WSClient struct {
	url     string
	token   string
	timeout time.Duration
	logger  *slog.Logger
	dialer  *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
	seq  uint64
}

// NewWSClient creates a WebSocket client for url. If logger is nil, a no-op
// logger is used.
func NewWSClient(url, token string, timeout time.Duration, logger *slog.Logger) *WSClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WSClient{
		url:     url,
		token:   token,
		timeout: timeout,
		logger:  logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
			ReadBufferSize:   8192,
			WriteBufferSize:  8192,
		},
	}
}

// Call sends an action frame and waits for the response with the same echo.
// Frames without a matching echo, such as pushed events, are skipped.
func (c *WSClient) Call(ctx context.Context, action string, params any) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	// Unblock reads and writes when the context ends.
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
		conn.SetWriteDeadline(time.Now())
		close(fired)
	})
	defer stop()

	c.seq++
	echo := fmt.Sprintf("xytu-%d", c.seq)

	c.logger.Debug("sending onebot action", "action", action, "echo", echo)

	if err := conn.WriteJSON(request{Action: action, Params: paramsOrEmpty(params), Echo: echo}); err != nil {
		c.reset()
		return nil, c.wrapErr(ctx, "send "+action, err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.reset()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, fmt.Errorf("onebot: %s: %w", action, ErrNoResponse)
			}
			return nil, c.wrapErr(ctx, "read "+action, err)
		}

		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Debug("skipping non-JSON frame", "error", err)
			continue
		}
		if resp.echo() != echo {
			continue
		}

		c.logger.Debug("onebot action response",
			"action", action,
			"status", resp.Status,
			"retcode", resp.Code(),
		)
		disarmDeadlines(stop, fired, conn)
		return &resp, nil
	}
}

// Close closes the underlying connection, if any.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *WSClient) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	header := http.Header{}
	header.Set("User-Agent", userAgent)
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("onebot: dial %s: %w", c.url, &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
			})
		}
		return nil, fmt.Errorf("onebot: dial %s: %w", c.url, err)
	}

	c.logger.Debug("onebot websocket connected", "url", c.url)
	c.conn = conn
	return conn, nil
}

// deadliner is the part of *websocket.Conn that deadline handling touches.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// disarmDeadlines stops the cancellation hook. If the hook already ran, the
// connection is kept, so its past deadlines are cleared for the next call.
func disarmDeadlines(stop func() bool, fired <-chan struct{}, conn deadliner) {
	if stop() {
		return
	}
	<-fired
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
}

func (c *WSClient) reset() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *WSClient) wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("onebot: %s: %w", op, errors.Join(ctxErr, err))
	}
	return fmt.Errorf("onebot: %s: %w", op, err)
}
