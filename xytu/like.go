package xytu

import (
	"context"
	"strconv"

	"gitlab.com/tinyland/lab/xytu-function/config"
	"gitlab.com/tinyland/lab/xytu-function/like"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
	"gitlab.com/tinyland/lab/xytu-function/trigger"
)

// LikeHandler sends likes to whoever asks for them.
type LikeHandler struct {
	p *Plugin
}

// Name returns the handler's unique identifier.
func (h *LikeHandler) Name() string { return "xytu.like" }

// Description returns a human-readable description of the handler.
func (h *LikeHandler) Description() string {
	return "Sends 10 profile likes to the sender"
}

// OnMessage answers "<wake word> <like word>" when the feature is enabled.
func (h *LikeHandler) OnMessage(ctx context.Context, msg plugin.Message, cfg *config.Config) (reply *plugin.Reply) {
	if cfg == nil || !cfg.LikeEnabled {
		return nil
	}
	if _, ok := trigger.Match(msg.Text, cfg.WakeWords(), cfg.LikeTriggers()); !ok {
		return nil
	}

	sender := senderName(msg)

	defer func() {
		if r := recover(); r != nil {
			h.p.logger.Error("like request failed", "panic", r)
			reply = &plugin.Reply{Text: "点赞过程中出现错误" + sender}
		}
	}()

	var out like.Outcome
	if h.p.liker != nil {
		out = h.p.liker.Like(ctx, msg)
	} else {
		h.p.logger.Error("like request failed", "error", "like action not configured")
	}

	if out.Success {
		return &plugin.Reply{Text: "给你点了" + strconv.Itoa(like.Times) + "个赞 记得回我哦" + sender}
	}
	return &plugin.Reply{
		Text:            "呀 怎么失败了" + sender + " 明天再来罢",
		StopPropagation: out.Suppress,
	}
}
