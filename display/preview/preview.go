// Package preview renders a system snapshot as a styled terminal card, the
// local counterpart of the chat status reply.
package preview

import (
	"strings"

	"gitlab.com/tinyland/lab/xytu-function/internal/format"
	"gitlab.com/tinyland/lab/xytu-function/sysinfo"
)

const (
	minInner = 30
	maxInner = 72
)

// Options controls the card layout.
type Options struct {
	// Width is the terminal width. Zero means 80.
	Width int
	// Title is shown on the first line. Empty uses DefaultTitle.
	Title string
}

// DefaultTitle heads the card when Options.Title is empty.
const DefaultTitle = "当前状态"

// Render formats snap as a bordered card. The Disk section is left out when
// there are no volumes.
func Render(snap sysinfo.Snapshot, opts Options) string {
	inner := innerWidth(opts.Width)
	bar := inner / 3
	text := inner - 2

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	lines := []string{
		styleTitle.Render(format.TruncateWithEllipsis(title, inner)),
		"",
		styleSection.Render("CPU"),
		"  " + format.TruncateWithEllipsis(snap.CPU.Model, text),
		"  " + Gauge(snap.CPU.Load, bar, snap.CPU.LoadOK) + " " + snap.CPU.LoadText(),
		styleSection.Render("RAM"),
		"  " + Gauge(snap.Memory.Percent, bar, snap.Memory.OK) + " " + snap.Memory.String(),
		styleSection.Render("System"),
		"  " + format.TruncateWithEllipsis(snap.OS.Name+" | "+snap.OS.UptimeText(), text),
	}

	if len(snap.Disks) > 0 {
		lines = append(lines, styleSection.Render("Disk"))
		for _, d := range snap.Disks {
			if d.Failed {
				lines = append(lines, "  "+styleFailure.Render(d.String()))
				continue
			}
			lines = append(lines, "  "+Gauge(d.Percent, bar, true)+" "+
				format.TruncateWithEllipsis(d.String(), text-bar-1))
		}
	}

	return styleCard.Render(strings.Join(lines, "\n"))
}

func innerWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	inner := width - 4
	if inner < minInner {
		return minInner
	}
	if inner > maxInner {
		return maxInner
	}
	return inner
}
