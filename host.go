package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gitlab.com/tinyland/lab/xytu-function/config"
	"gitlab.com/tinyland/lab/xytu-function/onebot"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
)

// newClient builds the OneBot client behind a circuit breaker. It returns
// nil without error when no endpoint is configured.
func newClient(cfg config.OneBotConfig, logger *slog.Logger) (*onebot.Breaker, error) {
	c, err := onebot.New(cfg, logger)
	if errors.Is(err, onebot.ErrDisabled) {
		logger.Info("onebot endpoint not configured, likes will fail")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bcfg := onebot.DefaultBreakerConfig()
	bcfg.Logger = logger
	return onebot.NewBreaker(c, bcfg), nil
}

// caller keeps a nil breaker from becoming a non-nil interface.
func caller(b *onebot.Breaker) onebot.Caller {
	if b == nil {
		return nil
	}
	return b
}

// dispatch runs msg through reg and writes each reply on its own line. It
// returns the number of replies.
func dispatch(ctx context.Context, reg *plugin.Registry, cfg *config.Config, msg plugin.Message, w io.Writer) int {
	replies := reg.Dispatch(ctx, msg, cfg)
	for _, r := range replies {
		fmt.Fprintln(w, r.Text)
	}
	return len(replies)
}

// serveREPL treats every non-blank line of r as a message from tmpl's
// sender until EOF or cancellation.
func serveREPL(ctx context.Context, reg *plugin.Registry, cfg *config.Config, tmpl plugin.Message, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		msg := tmpl
		msg.Text = text
		dispatch(ctx, reg, cfg, msg, w)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("repl: read: %w", err)
	}
	return nil
}
