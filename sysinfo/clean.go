package sysinfo

import (
	"regexp"
	"strings"
)

var parenGroup = regexp.MustCompile(`\([^()]*\)`)

// redundantModelParts are dropped from processor names. The trademark
// markers are listed first so they go before their letters can be split.
var redundantModelParts = []string{"(R)", "(TM)", "CPU", "Processor", "processor", "@"}

// CleanModel strips vendor noise from a processor name: parenthesized
// groups, trademark markers, the words CPU and Processor, and "@". It
// repeats until nothing changes, so CleanModel(CleanModel(s)) ==
// CleanModel(s). An input that cleans to nothing yields UnknownText.
func CleanModel(model string) string {
	for {
		next := cleanModelOnce(model)
		if next == model {
			break
		}
		model = next
	}
	if model == "" {
		return UnknownText
	}
	return model
}

func cleanModelOnce(s string) string {
	s = parenGroup.ReplaceAllString(s, " ")
	for _, part := range redundantModelParts {
		s = strings.ReplaceAll(s, part, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// acceptModel rejects blank candidates and generic family identifiers such
// as "Intel64 Family 6 Model 158 Stepping 10, GenuineIntel".
func acceptModel(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return !strings.Contains(s, "Family") && !strings.Contains(s, "Model")
}
