// Package format provides shared string and time formatting utilities.
package format

import (
	"fmt"
	"time"
)

// UnknownText is rendered for any value that could not be determined.
const UnknownText = "未知"

// Uptime renders a duration as "D天H小时M分", dropping the day part when it
// is zero. Negative durations render as UnknownText.
func Uptime(d time.Duration) string {
	if d < 0 {
		return UnknownText
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%d天%d小时%d分", days, hours, minutes)
	}
	return fmt.Sprintf("%d小时%d分", hours, minutes)
}

// Greeting returns the time-of-day salutation for the given local hour.
func Greeting(hour int) string {
	switch {
	case hour >= 0 && hour < 6:
		return "凌晨"
	case hour >= 6 && hour < 12:
		return "早上"
	case hour >= 12 && hour < 14:
		return "中午"
	case hour >= 14 && hour < 18:
		return "下午"
	case hour >= 18 && hour < 21:
		return "晚上"
	default:
		return "深夜"
	}
}

// FormatTimeSince formats a time.Time as a human-readable duration since that time.
// Returns strings like "2h ago", "45s ago", or "just now".
func FormatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	if d < 0 {
		d = -d
	}

	if d < 10*time.Second {
		return "just now"
	}

	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}

	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
