package trip

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Field limits, in runes.
const (
	MaxTripName   = 50
	MaxMemberName = 30
	MaxTitle      = 100
	MaxCategory   = 40
	MaxLocation   = 40
	MaxPlace      = 80
	MaxZone       = 80
	MaxNote       = 240
)

// Normalize produces a lookup key:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// CleanLine trims, collapses internal whitespace and truncates to max runes.
// Used for single-line labels such as names and titles.
func CleanLine(s string, max int) string {
	s = whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
	return truncate(s, max)
}

// CleanText trims and truncates to max runes, keeping internal line breaks.
func CleanText(s string, max int) string {
	return strings.TrimSpace(truncate(strings.TrimSpace(s), max))
}

// truncate cuts s to at most max runes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
