package preview

import "github.com/charmbracelet/lipgloss"

// Palette shared by the preview card and the watch view.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#22C55E")
	ColorWarning   = lipgloss.Color("#EAB308")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
)

var (
	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	styleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	styleFailure = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
