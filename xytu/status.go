package xytu

import (
	"context"
	"strings"

	"gitlab.com/tinyland/lab/xytu-function/config"
	"gitlab.com/tinyland/lab/xytu-function/internal/format"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
	"gitlab.com/tinyland/lab/xytu-function/sysinfo"
	"gitlab.com/tinyland/lab/xytu-function/trigger"
)

// StatusErrorText is sent when building the status reply fails.
const StatusErrorText = "获取状态信息时出现错误，请检查插件配置和依赖。"

// StatusHandler replies with a host status report.
type StatusHandler struct {
	p *Plugin
}

// Name returns the handler's unique identifier.
func (h *StatusHandler) Name() string { return "xytu.status" }

// Description returns a human-readable description of the handler.
func (h *StatusHandler) Description() string {
	return "Replies with CPU, memory, system and disk status"
}

// OnMessage answers "<wake word> <status word>" when the feature is enabled.
func (h *StatusHandler) OnMessage(ctx context.Context, msg plugin.Message, cfg *config.Config) (reply *plugin.Reply) {
	if cfg == nil || !cfg.StatusEnabled {
		return nil
	}
	word, ok := trigger.Match(msg.Text, cfg.WakeWords(), cfg.StatusTriggers())
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			h.p.logger.Error("status request failed", "panic", r)
			reply = &plugin.Reply{Text: StatusErrorText}
		}
	}()

	h.p.logger.Debug("status requested", "word", word, "sender", msg.SenderID)

	if h.p.source == nil {
		h.p.logger.Error("status request failed", "error", "no status source")
		return &plugin.Reply{Text: StatusErrorText}
	}

	snap := h.p.source.Snapshot(ctx)
	greeting := format.Greeting(h.p.now().Hour())
	return &plugin.Reply{Text: RenderStatus(greeting, senderName(msg), snap)}
}

// RenderStatus formats a snapshot as the status reply. The Disk block is
// left out when there are no volumes.
func RenderStatus(greeting, sender string, snap sysinfo.Snapshot) string {
	var b strings.Builder
	b.WriteString(greeting + "好呀" + sender + " 随时待命\n")
	b.WriteString("当前状态：\n")
	b.WriteString(" CPU\n")
	b.WriteString("   " + snap.CPU.Model + " | " + snap.CPU.LoadText() + "\n")
	b.WriteString(" RAM\n")
	b.WriteString("   " + snap.Memory.String() + "\n")
	b.WriteString(" System\n")
	b.WriteString("   " + snap.OS.Name + " | " + snap.OS.UptimeText())

	if len(snap.Disks) > 0 {
		b.WriteString("\n Disk")
		for _, d := range snap.Disks {
			b.WriteString("\n   " + d.String())
		}
	}
	return b.String()
}
