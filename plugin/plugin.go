// Package plugin defines the contract between a chat host and the handlers
// it dispatches messages to.
package plugin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/xytu-function/config"
)

// Message is an inbound chat message as delivered by the host.
type Message struct {
	// Text is the plain-text body.
	Text string `json:"text"`
	// SenderID is the platform user id of the author.
	SenderID string `json:"sender_id"`
	// SenderName is the display name used in replies.
	SenderName string `json:"sender_name"`
	// Platform identifies the adapter the message came from, e.g. "aiocqhttp".
	Platform string `json:"platform"`
	// Raw carries the adapter's original event payload, untouched.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Reply is an outbound response.
type Reply struct {
	Text string `json:"text"`
	// StopPropagation asks the host not to run later handlers or emit its
	// own default reply.
	StopPropagation bool `json:"stop_propagation,omitempty"`
}

// Handler reacts to messages. OnMessage returns nil when the message is not
// for this handler.
type Handler interface {
	Name() string
	Description() string
	OnMessage(ctx context.Context, msg Message, cfg *config.Config) *Reply
}

// Registry holds handlers in registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. If logger is nil, a no-op logger
// is used.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		handlers: make([]Handler, 0),
		logger:   logger,
	}
}

// Register adds a handler to the registry.
// If a handler with the same name already exists, it is replaced in place.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.handlers {
		if existing.Name() == h.Name() {
			r.handlers[i] = h
			return
		}
	}
	r.handlers = append(r.handlers, h)
}

// Get returns a handler by name. The second return value indicates
// whether the handler was found.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.handlers {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// All returns all registered handlers.
func (r *Registry) All() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Handler, len(r.handlers))
	copy(result, r.handlers)
	return result
}

// Dispatch offers msg to every handler in order and collects their replies.
// A panicking handler is logged and produces no reply. Dispatch stops after
// the first reply that sets StopPropagation.
func (r *Registry) Dispatch(ctx context.Context, msg Message, cfg *config.Config) []Reply {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var replies []Reply
	for _, h := range r.All() {
		if ctx.Err() != nil {
			break
		}
		reply := r.invoke(ctx, h, msg, cfg)
		if reply == nil {
			continue
		}
		replies = append(replies, *reply)
		if reply.StopPropagation {
			r.logger.Debug("propagation stopped", "handler", h.Name())
			break
		}
	}
	return replies
}

func (r *Registry) invoke(ctx context.Context, h Handler, msg Message, cfg *config.Config) (reply *Reply) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("handler panicked", "handler", h.Name(), "panic", p)
			reply = nil
		}
	}()
	return h.OnMessage(ctx, msg, cfg)
}
