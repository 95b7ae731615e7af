package preview

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// getSize is swapped in tests.
var getSize = term.GetSize

// TerminalWidth returns the width of the terminal behind f. It falls back to
// $COLUMNS and then to 80.
func TerminalWidth(f *os.File) int {
	if f != nil {
		if w, _, err := getSize(f.Fd()); err == nil && w > 0 {
			return w
		}
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
