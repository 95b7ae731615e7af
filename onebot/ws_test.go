package onebot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeWSServer answers every action frame using respond. It pushes an
// unrelated event before each reply to exercise echo matching.
func fakeWSServer(t *testing.T, respond func(req map[string]any) any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var dials atomic.Int32
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		dials.Add(1)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req map[string]any
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			conn.WriteJSON(map[string]any{"post_type": "meta_event", "meta_event_type": "heartbeat"})
			conn.WriteMessage(websocket.TextMessage, []byte("not json"))

			reply := respond(req)
			if reply == nil {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			conn.WriteJSON(reply)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &dials
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSClientCall(t *testing.T) {
	var (
		mu        sync.Mutex
		gotParams map[string]any
	)
	srv, dials := fakeWSServer(t, func(req map[string]any) any {
		mu.Lock()
		gotParams, _ = req["params"].(map[string]any)
		mu.Unlock()
		return map[string]any{
			"status":  "ok",
			"retcode": 0,
			"data":    nil,
			"echo":    req["echo"],
		}
	})

	c := NewWSClient(wsURL(srv), "secret", 2*time.Second, nil)
	defer c.Close()

	for i := 0; i < 2; i++ {
		resp, err := c.Call(context.Background(), ActionSendLike, map[string]any{"user_id": int64(12345), "times": 10})
		if err != nil {
			t.Fatalf("Call %d: %v", i, err)
		}
		if !resp.OK() {
			t.Errorf("Call %d: response not OK: %+v", i, resp)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if gotParams["user_id"] != float64(12345) || gotParams["times"] != float64(10) {
		t.Errorf("server saw params %v", gotParams)
	}
	if n := dials.Load(); n != 1 {
		t.Errorf("expected one connection to be reused, dialled %d times", n)
	}
}

func TestWSClientFailedResponse(t *testing.T) {
	srv, _ := fakeWSServer(t, func(req map[string]any) any {
		return map[string]any{
			"status":  "failed",
			"retcode": 200,
			"message": "今日点赞已达上限",
			"echo":    req["echo"],
		}
	})

	c := NewWSClient(wsURL(srv), "secret", 2*time.Second, nil)
	defer c.Close()

	resp, err := c.Call(context.Background(), ActionSendLike, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.OK() {
		t.Error("expected a failed response")
	}
	if !strings.Contains(resp.Text(), "已达上限") {
		t.Errorf("Text() = %q", resp.Text())
	}
}

func TestWSClientClosedBeforeReply(t *testing.T) {
	srv, dials := fakeWSServer(t, func(map[string]any) any { return nil })

	c := NewWSClient(wsURL(srv), "secret", 2*time.Second, nil)
	defer c.Close()

	_, err := c.Call(context.Background(), ActionSendLike, nil)
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}

	// The next call dials again.
	c.Call(context.Background(), ActionSendLike, nil)
	if n := dials.Load(); n != 2 {
		t.Errorf("expected a redial after failure, dialled %d times", n)
	}
}

func TestWSClientUnauthorized(t *testing.T) {
	srv, _ := fakeWSServer(t, func(map[string]any) any { return nil })

	c := NewWSClient(wsURL(srv), "wrong", 2*time.Second, nil)
	_, err := c.Call(context.Background(), ActionSendLike, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestWSClientTimeout(t *testing.T) {
	srv, _ := fakeWSServer(t, func(req map[string]any) any {
		// Reply with a different echo so the client keeps waiting.
		return map[string]any{"status": "ok", "retcode": 0, "echo": "someone-else"}
	})

	c := NewWSClient(wsURL(srv), "secret", 200*time.Millisecond, nil)
	defer c.Close()

	start := time.Now()
	_, err := c.Call(context.Background(), ActionSendLike, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not honoured")
	}
}

// recordingConn remembers the last deadlines set on it.
type recordingConn struct {
	mu    sync.Mutex
	read  []time.Time
	write []time.Time
}

func (r *recordingConn) SetReadDeadline(t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.read = append(r.read, t)
	return nil
}

func (r *recordingConn) SetWriteDeadline(t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write = append(r.write, t)
	return nil
}

func TestDisarmDeadlines(t *testing.T) {
	t.Run("hook not fired", func(t *testing.T) {
		conn := &recordingConn{}
		fired := make(chan struct{})
		stop := context.AfterFunc(context.Background(), func() { close(fired) })

		disarmDeadlines(stop, fired, conn)
		if len(conn.read) != 0 || len(conn.write) != 0 {
			t.Errorf("deadlines touched: read=%v write=%v", conn.read, conn.write)
		}
	})

	t.Run("deadline fired after the reply", func(t *testing.T) {
		conn := &recordingConn{}
		fired := make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		stop := context.AfterFunc(ctx, func() {
			conn.SetReadDeadline(time.Now())
			conn.SetWriteDeadline(time.Now())
			close(fired)
		})
		cancel()

		disarmDeadlines(stop, fired, conn)

		conn.mu.Lock()
		defer conn.mu.Unlock()
		if len(conn.read) != 2 || !conn.read[1].IsZero() {
			t.Errorf("read deadline not cleared: %v", conn.read)
		}
		if len(conn.write) != 2 || !conn.write[1].IsZero() {
			t.Errorf("write deadline not cleared: %v", conn.write)
		}
	})
}
