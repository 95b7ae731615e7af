// Package trigger decides whether a chat message addresses the plugin.
//
// A message matches when it starts with an activation phrase and the rest of
// the message, once trimmed, is exactly one of the command words. Phrase
// comparison is case-sensitive; word comparison ignores case.
package trigger

import "strings"

// DefaultPhrase is used when no non-blank activation phrase is configured.
const DefaultPhrase = "XYTU"

// Match reports whether text is an activation phrase followed by one of
// words. On a match it returns the configured spelling of the word.
func Match(text string, phrases, words []string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, phrase := range Phrases(phrases) {
		if !strings.HasPrefix(text, phrase) {
			continue
		}
		rest := strings.TrimSpace(text[len(phrase):])
		if rest == "" {
			continue
		}
		for _, word := range words {
			w := strings.TrimSpace(word)
			if w != "" && strings.EqualFold(rest, w) {
				return word, true
			}
		}
	}
	return "", false
}

// Phrases returns the non-blank entries of phrases, or DefaultPhrase alone
// when none remain.
func Phrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{DefaultPhrase}
	}
	return out
}

// WithDefault returns words when at least one entry is non-blank, otherwise a
// copy of defaults.
func WithDefault(words, defaults []string) []string {
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			return words
		}
	}
	return append([]string(nil), defaults...)
}
