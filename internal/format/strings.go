package format

import "fmt"

const gib = 1024 * 1024 * 1024

// GiB converts a byte count to gibibytes.
func GiB(bytes uint64) float64 {
	return float64(bytes) / gib
}

// Percent renders a percentage with one decimal place, e.g. "42.5%".
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Usage renders used/total bytes and a percentage as "1.5G/8.0G | 18.8%".
func Usage(used, total uint64, percent float64) string {
	return fmt.Sprintf("%.1fG/%.1fG | %s", GiB(used), GiB(total), Percent(percent))
}

// TruncateWithEllipsis truncates a string to maxWidth characters, appending "..."
// if the string exceeds the limit. If maxWidth is less than 4, the string
// is hard-truncated without an ellipsis suffix.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}

	if maxWidth < 4 {
		return string(runes[:maxWidth])
	}

	return string(runes[:maxWidth-3]) + "..."
}
