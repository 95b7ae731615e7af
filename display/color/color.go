// Package color decides whether terminal output from the preview and watch
// views is styled. It honours NO_COLOR (https://no-color.org/) and turns
// styling off when output is piped.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// isTerminal is swapped in tests.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldDisable reports whether styling should be suppressed for output
// written to fd: NO_COLOR is set (any value) or fd is not a terminal.
func ShouldDisable(fd uintptr) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !isTerminal(fd)
}

// Apply configures the global lipgloss renderer for out and reports whether
// styling is enabled.
func Apply(out *os.File) bool {
	if ShouldDisable(out.Fd()) {
		ForceDisable()
		return false
	}
	return true
}

// ForceDisable switches lipgloss to the Ascii profile so every Render call
// produces plain text.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
