// Package xytu is the chat plugin: a status reply describing the host and a
// like action, both behind a wake word.
package xytu

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/xytu-function/like"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
	"gitlab.com/tinyland/lab/xytu-function/sysinfo"
)

// Version is the plugin release reported in lifecycle logs.
const Version = "v0.3.1"

// StatusSource produces a system snapshot. *sysinfo.Resolver satisfies it.
type StatusSource interface {
	Snapshot(ctx context.Context) sysinfo.Snapshot
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithClock overrides the clock used for the greeting.
func WithClock(now func() time.Time) Option {
	return func(p *Plugin) {
		if now != nil {
			p.now = now
		}
	}
}

// Plugin bundles the status and like handlers.
type Plugin struct {
	source StatusSource
	liker  *like.Liker
	logger *slog.Logger
	now    func() time.Time

	status *StatusHandler
	like   *LikeHandler
}

// New creates the plugin. A nil liker leaves the like handler replying with
// its failure text. If logger is nil, a no-op logger is used.
func New(source StatusSource, liker *like.Liker, logger *slog.Logger, opts ...Option) *Plugin {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Plugin{
		source: source,
		liker:  liker,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.status = &StatusHandler{p: p}
	p.like = &LikeHandler{p: p}

	logger.Info("xytu plugin initialised", "version", Version)
	return p
}

// Status returns the status handler.
func (p *Plugin) Status() *StatusHandler {
	return p.status
}

// Like returns the like handler.
func (p *Plugin) Like() *LikeHandler {
	return p.like
}

// Handlers returns both handlers in dispatch order.
func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{p.status, p.like}
}

// Register adds both handlers to reg.
func (p *Plugin) Register(reg *plugin.Registry) {
	for _, h := range p.Handlers() {
		reg.Register(h)
	}
}

// Close is called when the host unloads the plugin.
func (p *Plugin) Close() error {
	p.logger.Info("xytu plugin unloaded")
	return nil
}

func senderName(msg plugin.Message) string {
	if msg.SenderName != "" {
		return msg.SenderName
	}
	return msg.SenderID
}
