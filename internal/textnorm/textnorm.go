// Package textnorm normalizes extracted text before matching: accent
// folding, whitespace collapsing and repair of fake-bold glyph doubling.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes diacritics and upper-cases s, so "Depósito" and "DEPOSITO"
// compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// NFC returns s in canonical composed form.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Collapse trims s and replaces every whitespace run with a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Contains reports whether needle occurs in haystack after folding both.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Undouble repairs words whose every glyph was emitted twice, as some
// fake-bold encodings do: "SSAALLDDOO" becomes "SALDO". Words are only
// changed when the whole word is doubled, so "BOOKKEEPER" and "1100" keep
// their spelling unless every pair repeats.
func Undouble(s string) string {
	words := strings.Split(s, " ")
	changed := false
	for i, w := range words {
		if u, ok := undoubleWord(w); ok {
			words[i] = u
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(words, " ")
}

func undoubleWord(w string) (string, bool) {
	r := []rune(w)
	if len(r) < 4 || len(r)%2 != 0 {
		return w, false
	}
	letters := 0
	out := make([]rune, 0, len(r)/2)
	for i := 0; i < len(r); i += 2 {
		if r[i] != r[i+1] {
			return w, false
		}
		if unicode.IsLetter(r[i]) {
			letters++
		}
		out = append(out, r[i])
	}
	// A doubled number ("1100", "5500.00") is ambiguous; leave it.
	if letters == 0 {
		return w, false
	}
	return string(out), true
}

// DoubledFraction returns the fraction of words of four or more runes that
// are fully doubled. Sources use it to decide whether a page needs Undouble.
func DoubledFraction(s string) float64 {
	total, doubled := 0, 0
	for _, w := range strings.Fields(s) {
		if len([]rune(w)) < 4 {
			continue
		}
		total++
		if _, ok := undoubleWord(w); ok {
			doubled++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(doubled) / float64(total)
}
