// Package like sends profile likes through a OneBot endpoint and classifies
// the outcome for the reply text.
package like

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/xytu-function/config"
	"gitlab.com/tinyland/lab/xytu-function/onebot"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
)

// Times is the number of likes sent per request.
const Times = 10

// limitMarkers appear in endpoint errors once the daily quota is used up.
var limitMarkers = []string{"已达上限", "点赞失败"}

// Outcome describes the result of a like attempt.
type Outcome struct {
	Success bool
	// Suppress means the endpoint already told the user; the host should not
	// add its own error message.
	Suppress bool
	// LimitReached is set when the endpoint reports the daily limit.
	LimitReached bool
	// Reason is a short diagnostic for logs.
	Reason string
}

// Liker issues send_like actions.
type Liker struct {
	client    onebot.Caller
	platforms []string
	times     int
	logger    *slog.Logger
}

// New creates a Liker. A nil client makes every attempt fail. Empty
// platforms fall back to config.DefaultLikePlatforms. If logger is nil, a
// no-op logger is used.
func New(client onebot.Caller, platforms []string, logger *slog.Logger) *Liker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(platforms) == 0 {
		platforms = config.DefaultLikePlatforms
	}
	return &Liker{
		client:    client,
		platforms: append([]string(nil), platforms...),
		times:     Times,
		logger:    logger,
	}
}

// Supports reports whether likes can be sent on platform.
func (l *Liker) Supports(platform string) bool {
	return slices.Contains(l.platforms, platform)
}

// Like sends likes to the author of msg.
func (l *Liker) Like(ctx context.Context, msg plugin.Message) Outcome {
	if !l.Supports(msg.Platform) {
		l.logger.Warn("like not supported on platform", "platform", msg.Platform)
		return Outcome{Reason: "unsupported platform " + msg.Platform}
	}

	sender := strings.TrimSpace(msg.SenderID)
	if sender == "" {
		l.logger.Error("like: missing sender id")
		return Outcome{Reason: "missing sender id"}
	}
	userID, err := strconv.ParseInt(sender, 10, 64)
	if err != nil {
		l.logger.Error("like: sender id is not numeric", "sender_id", sender)
		return Outcome{Reason: "non-numeric sender id"}
	}

	if l.client == nil {
		l.logger.Error("like: no onebot client configured")
		return Outcome{Reason: "no client"}
	}

	resp, err := l.client.Call(ctx, onebot.ActionSendLike, map[string]any{
		"user_id": userID,
		"times":   l.times,
	})
	return l.classify(userID, resp, err)
}

func (l *Liker) classify(userID int64, resp *onebot.Response, err error) Outcome {
	if err != nil {
		msg := err.Error()
		l.logger.Error("like: send_like failed", "user_id", userID, "error", msg)
		limit := containsMarker(msg)
		return Outcome{Suppress: limit, LimitReached: limit, Reason: msg}
	}

	if resp == nil {
		l.logger.Info("like: empty response, treating as success", "user_id", userID)
		return Outcome{Success: true}
	}

	if resp.OK() {
		l.logger.Info("like: sent", "user_id", userID, "times", l.times)
		return Outcome{Success: true}
	}

	text := resp.Text()
	l.logger.Error("like: endpoint refused",
		"user_id", userID,
		"status", resp.Status,
		"retcode", resp.Code(),
		"message", text,
	)
	return Outcome{
		Suppress:     true,
		LimitReached: containsMarker(text),
		Reason:       text,
	}
}

func containsMarker(s string) bool {
	for _, m := range limitMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
