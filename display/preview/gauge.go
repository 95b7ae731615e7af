package preview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gauge thresholds, in percent.
const (
	WarnAt   = 70.0
	DangerAt = 90.0
)

// GaugeColor returns the fill color for percent.
func GaugeColor(percent float64) lipgloss.Color {
	switch {
	case percent >= DangerAt:
		return ColorDanger
	case percent >= WarnAt:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// Gauge renders a bar of the given width: "████░░░░". Percent is clamped
// to 0..100. Unknown values render an empty bar.
func Gauge(percent float64, width int, known bool) string {
	if width <= 0 {
		return ""
	}
	if !known || math.IsNaN(percent) {
		return styleMuted.Render(strings.Repeat("░", width))
	}

	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(width)))

	fill := lipgloss.NewStyle().Foreground(GaugeColor(percent))
	return fill.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}
