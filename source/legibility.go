package source

import (
	"regexp"
	"unicode"
)

var cidPattern = regexp.MustCompile(`\(cid:\d+\)`)

// LegibilityConfig holds the thresholds for judging a digital text layer.
type LegibilityConfig struct {
	// MaxPlaceholderFraction is the largest tolerated share of placeholder
	// runes (U+FFFD, control characters, private-use runes, "(cid:N)").
	// Default: 0.10
	MaxPlaceholderFraction float64

	// MinASCIIFraction is the smallest tolerated share of printable ASCII
	// among non-space runes.
	// Default: 0.60
	MinASCIIFraction float64

	// MinRunes is the fewest usable (non-space, non-placeholder) runes.
	// Default: 20
	MinRunes int
}

// DefaultLegibilityConfig returns sensible default configuration
func DefaultLegibilityConfig() LegibilityConfig {
	return LegibilityConfig{
		MaxPlaceholderFraction: 0.10,
		MinASCIIFraction:       0.60,
		MinRunes:               20,
	}
}

// Legibility summarizes the character makeup of a text sample.
type Legibility struct {
	Runes        int // non-space runes, each "(cid:N)" counted once
	Placeholders int
	ASCII        int // printable ASCII runes
}

// Usable returns the number of non-placeholder runes.
func (l Legibility) Usable() int {
	return l.Runes - l.Placeholders
}

// PlaceholderFraction returns Placeholders / Runes.
func (l Legibility) PlaceholderFraction() float64 {
	if l.Runes == 0 {
		return 0
	}
	return float64(l.Placeholders) / float64(l.Runes)
}

// ASCIIFraction returns ASCII / Runes.
func (l Legibility) ASCIIFraction() float64 {
	if l.Runes == 0 {
		return 0
	}
	return float64(l.ASCII) / float64(l.Runes)
}

// Legible reports whether the sample passes every threshold.
func (l Legibility) Legible(config LegibilityConfig) bool {
	return l.PlaceholderFraction() <= config.MaxPlaceholderFraction &&
		l.ASCIIFraction() >= config.MinASCIIFraction &&
		l.Usable() >= config.MinRunes
}

// Measure counts the runes of text.
func Measure(text string) Legibility {
	var l Legibility

	cids := len(cidPattern.FindAllStringIndex(text, -1))
	l.Runes += cids
	l.Placeholders += cids
	text = cidPattern.ReplaceAllString(text, " ")

	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		l.Runes++
		switch {
		case isPlaceholder(r):
			l.Placeholders++
		case r > 0x20 && r < 0x7f:
			l.ASCII++
		}
	}
	return l
}

func isPlaceholder(r rune) bool {
	return r == unicode.ReplacementChar ||
		unicode.IsControl(r) ||
		unicode.Is(unicode.Co, r)
}
