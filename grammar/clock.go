package grammar

import (
	"regexp"
	"strings"
)

var clockPattern = regexp.MustCompile(`(?i)\b([01]?\d|2[0-3]):[0-5]\d(?::[0-5]\d)?(?:\s?[ap]\.?m\.?)?`)

// MaskClock replaces every time-of-day substring with spaces of the same
// byte length, so offsets into the original text stay valid.
func MaskClock(text string) string {
	return clockPattern.ReplaceAllStringFunc(text, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
}

// HasClock reports whether text contains a time-of-day substring.
func HasClock(text string) bool {
	return clockPattern.MatchString(text)
}
