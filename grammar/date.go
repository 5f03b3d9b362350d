package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrUnknownGrammar is returned when a profile names a grammar that does not
// exist.
var ErrUnknownGrammar = errors.New("unknown grammar")

// Date grammar names accepted by DateByName.
const (
	DayMonth     = "day-month"
	MonthDay     = "month-day"
	DayMonthYear = "day-month-year"
	Hyphenated   = "hyphenated"
	DayOnly      = "day-only"
)

// Match is a grammar match inside a string. Start and End are byte offsets.
type Match struct {
	Text  string
	Start int
	End   int
}

// Len returns the number of bytes consumed by the match.
func (m Match) Len() int {
	return m.End - m.Start
}

// DateGrammar recognizes one date dialect.
type DateGrammar interface {
	// Name returns the dialect name used in layout profiles.
	Name() string

	// Prefix matches a date at the start of text, ignoring leading spaces.
	// The returned End is the offset just past the date.
	Prefix(text string) (Match, bool)

	// FindAll returns every non-overlapping date in text, in order.
	FindAll(text string) []Match

	// Full reports whether the whole of text, trimmed, is a date.
	Full(text string) bool
}

const monthNames = `(?:JAN(?:UARY)?|ENE(?:RO)?|FEB(?:RUARY|RERO)?|MAR(?:CH|ZO)?|APR(?:IL)?|ABR(?:IL)?|MAY(?:O)?|JUN(?:E|IO)?|JUL(?:Y|IO)?|AUG(?:UST)?|AGO(?:STO)?|SEP(?:TEMBER|TIEMBRE|T)?|SET|OCT(?:OBER|UBRE)?|NOV(?:EMBER|IEMBRE)?|DEC(?:EMBER)?|DIC(?:IEMBRE)?)`

const day = `(?:0?[1-9]|[12][0-9]|3[01])`

const month = `(?:0?[1-9]|1[0-2])`

// regexGrammar is a DateGrammar built from an ordered set of patterns.
type regexGrammar struct {
	name     string
	patterns []*regexp.Regexp

	// reject is consulted with the text and the end of a candidate match;
	// it returns true when the character following the match makes it
	// something other than a date.
	reject func(text string, end int) bool

	// extend may lengthen a match, for dialects whose base pattern
	// undercaptures.
	extend func(text string, m Match) Match

	// prefixOnly restricts FindAll to a single match at the start of text.
	prefixOnly bool
}

func (g *regexGrammar) Name() string { return g.name }

func (g *regexGrammar) FindAll(text string) []Match {
	if g.prefixOnly {
		if m, ok := g.Prefix(text); ok {
			return []Match{m}
		}
		return nil
	}

	var candidates []Match
	for _, re := range g.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			m := Match{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
			if g.extend != nil {
				m = g.extend(text, m)
			}
			if g.reject != nil && g.reject(text, m.End) {
				continue
			}
			candidates = append(candidates, m)
		}
	}

	// Earliest start wins, then the longest match.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].Len() > candidates[j].Len()
	})

	var out []Match
	lastEnd := -1
	for _, m := range candidates {
		if m.Start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.End
	}
	return out
}

func (g *regexGrammar) Prefix(text string) (Match, bool) {
	lead := len(text) - len(strings.TrimLeft(text, " \t"))

	var best Match
	found := false
	for _, re := range g.patterns {
		loc := re.FindStringIndex(text[lead:])
		if loc == nil || loc[0] != 0 {
			continue
		}
		m := Match{Text: text[lead : lead+loc[1]], Start: lead, End: lead + loc[1]}
		if g.extend != nil {
			m = g.extend(text, m)
		}
		if g.reject != nil && g.reject(text, m.End) {
			continue
		}
		if !found || m.Len() > best.Len() {
			best = m
			found = true
		}
	}
	return best, found
}

func (g *regexGrammar) Full(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	m, ok := g.Prefix(trimmed)
	return ok && m.Start == 0 && m.End == len(trimmed)
}

// followedBy reports whether text[end] is one of the given bytes.
func followedBy(text string, end int, chars string) bool {
	return end < len(text) && strings.IndexByte(chars, text[end]) >= 0
}

// followedByDigit reports whether text[end] is an ASCII digit.
func followedByDigit(text string, end int) bool {
	return end < len(text) && text[end] >= '0' && text[end] <= '9'
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// NewDayMonth returns the day-month grammar: "15 JAN", "01/JUN", "15/01".
func NewDayMonth() DateGrammar {
	return &regexGrammar{
		name: DayMonth,
		patterns: mustCompile(
			`\b`+day+`\s?[/\-]?\s?`+monthNames+`\b`,
			`\b`+day+`/`+month+`\b`,
		),
		// A following "/2024" or ".5" means a longer date or a number.
		reject: func(text string, end int) bool {
			return followedBy(text, end, "/.,") && end+1 < len(text) && followedByDigit(text, end+1)
		},
	}
}

// NewMonthDay returns the month-day grammar: "JAN 15", "01/15".
func NewMonthDay() DateGrammar {
	return &regexGrammar{
		name: MonthDay,
		patterns: mustCompile(
			`\b`+monthNames+`\.?\s?[/\-]?\s?`+day+`\b`,
			`\b`+month+`/`+day+`\b`,
		),
		reject: func(text string, end int) bool {
			return followedBy(text, end, "/.,:") && end+1 < len(text) && followedByDigit(text, end+1)
		},
	}
}

// NewDayMonthYear returns the day-month-year grammar: "15/01/2024",
// "15-01-24", "15 JAN 2024", "15/JAN/2024".
func NewDayMonthYear() DateGrammar {
	return &regexGrammar{
		name: DayMonthYear,
		patterns: mustCompile(
			`\b`+day+`[/\-.]`+month+`[/\-.](?:\d{4}|\d{2})\b`,
			`\b`+day+`[\s/\-]?`+monthNames+`[\s/\-]?(?:\d{4}|\d{2})\b`,
		),
		reject: func(text string, end int) bool {
			return followedBy(text, end, ".,") && end+1 < len(text) && followedByDigit(text, end+1)
		},
	}
}

var hyphenYear = regexp.MustCompile(`^-(?:\d{4}|\d{2})\b`)

// NewHyphenated returns the hyphenated grammar: "15-JAN-24", "15-JAN-2024".
// The base pattern stops after the month; the match is then re-scanned for
// a hyphenated year suffix so the year is not left behind in the
// description.
func NewHyphenated() DateGrammar {
	return &regexGrammar{
		name: Hyphenated,
		patterns: mustCompile(
			`\b` + day + `-` + monthNames + `\b`,
		),
		extend: func(text string, m Match) Match {
			if loc := hyphenYear.FindStringIndex(text[m.End:]); loc != nil {
				m.End += loc[1]
				m.Text = text[m.Start:m.End]
			}
			return m
		},
	}
}

// NewDayOnly returns the day-only grammar: a bare day number leading the
// row. It never matches in the middle of text.
func NewDayOnly() DateGrammar {
	return &regexGrammar{
		name:       DayOnly,
		patterns:   mustCompile(`^` + day + `\b`),
		prefixOnly: true,
		reject: func(text string, end int) bool {
			// "12.50" and "12,000" are amounts, not days.
			return followedBy(text, end, ".,/:") && end+1 < len(text) && followedByDigit(text, end+1)
		},
	}
}

// DateByName returns the grammar registered under name.
func DateByName(name string) (DateGrammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DayMonth, "":
		return NewDayMonth(), nil
	case MonthDay:
		return NewMonthDay(), nil
	case DayMonthYear:
		return NewDayMonthYear(), nil
	case Hyphenated, "hyphenated-year":
		return NewHyphenated(), nil
	case DayOnly:
		return NewDayOnly(), nil
	default:
		return nil, fmt.Errorf("date grammar %q: %w", name, ErrUnknownGrammar)
	}
}
