package tables

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/internal/textnorm"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// KeyValueConfig holds configuration for summary figure extraction
type KeyValueConfig struct {
	// MiscTitle is the title of figures printed before any heading.
	// Default: "Misc"
	MiscTitle string

	// FromSuffix and ToSuffix are appended to the label of a figure that
	// holds a date range, one row per bound.
	// Default: " - From", " - To"
	FromSuffix string
	ToSuffix   string

	// MaxHeadingLength is the longest row treated as a heading by the
	// uppercase rule.
	// Default: 60
	MaxHeadingLength int
}

// DefaultKeyValueConfig returns sensible default configuration
func DefaultKeyValueConfig() KeyValueConfig {
	return KeyValueConfig{
		MiscTitle:        "Misc",
		FromSuffix:       " - From",
		ToSuffix:         " - To",
		MaxHeadingLength: 60,
	}
}

var (
	percentRe = regexp.MustCompile(`\d+(?:[.,]\d+)?\s?%`)
	integerRe = regexp.MustCompile(`\b\d+\b`)
)

// span is a figure found in a row.
type span struct {
	start, end int
	text       string
	date       bool
}

// kvItem is one labeled row before expansion into key-values.
type kvItem struct {
	label  string
	values []span
	raw    string
}

type kvGroup struct {
	title string
	items []kvItem
}

// KeyValueExtractor collects the labeled figures printed around the
// transaction table: account summaries, yields and statement periods.
//
// Rows are fed in document order. A heading opens a group. A row holding
// figures becomes an item labeled by the text before its first figure, and
// a plain row right after an item extends that item's label once. Any
// other row closes the group.
type KeyValueExtractor struct {
	config   KeyValueConfig
	dates    grammar.DateGrammar
	amounts  grammar.AmountGrammar
	headings []*regexp.Regexp

	groups []kvGroup
	// current indexes the open group, or is -1.
	current int
	// extend is set while the next row may continue the last label.
	extend bool
}

// NewKeyValueExtractor creates an extractor using the profile's grammars
// and headings.
func NewKeyValueExtractor(c *profile.Compiled, config KeyValueConfig) *KeyValueExtractor {
	x := &KeyValueExtractor{
		config:  config,
		dates:   c.Dates,
		amounts: c.Amounts,
		current: -1,
	}
	for _, h := range c.Profile.Headings {
		h = textnorm.Fold(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		re, err := regexp.Compile(h)
		if err != nil {
			re = regexp.MustCompile(regexp.QuoteMeta(h))
		}
		x.headings = append(x.headings, re)
	}
	return x
}

// Row feeds one row of text.
func (x *KeyValueExtractor) Row(text string) {
	text = textnorm.Collapse(text)
	if text == "" {
		return
	}
	values := x.figures(text)

	if len(values) == 0 {
		switch {
		case x.isHeading(text):
			x.groups = append(x.groups, kvGroup{title: text})
			x.current = len(x.groups) - 1
		case x.extend:
			g := &x.groups[x.current]
			last := &g.items[len(g.items)-1]
			last.label = model.JoinText(last.label, text)
			last.raw = model.JoinText(last.raw, text)
		default:
			x.current = -1
		}
		x.extend = false
		return
	}

	if x.current < 0 {
		x.groups = append(x.groups, kvGroup{title: x.config.MiscTitle})
		x.current = len(x.groups) - 1
	}
	g := &x.groups[x.current]
	label := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text[:values[0].start]), ":"))
	if label == "" && len(g.items) > 0 {
		last := &g.items[len(g.items)-1]
		last.values = append(last.values, values...)
		last.raw = model.JoinText(last.raw, text)
	} else {
		g.items = append(g.items, kvItem{label: label, values: values, raw: text})
	}
	x.extend = true
}

// Break closes the open group. It is called when a transaction starts.
func (x *KeyValueExtractor) Break() {
	x.current = -1
	x.extend = false
}

// Pairs returns the collected figures. Two dates in one item become a
// from and a to row; a percent followed by another figure becomes one row
// holding both.
func (x *KeyValueExtractor) Pairs() []model.KeyValue {
	var out []model.KeyValue
	for _, g := range x.groups {
		for _, it := range g.items {
			out = append(out, x.expand(g.title, it)...)
		}
	}
	return out
}

func (x *KeyValueExtractor) expand(title string, it kvItem) []model.KeyValue {
	kv := func(label, value, percent string) model.KeyValue {
		return model.KeyValue{Title: title, Label: label, Value: value, Percent: percent, Raw: it.raw}
	}

	var out []model.KeyValue
	values := it.values

	var dates []int
	for i, v := range values {
		if v.date {
			dates = append(dates, i)
		}
	}
	if len(dates) >= 2 {
		out = append(out,
			kv(it.label+x.config.FromSuffix, values[dates[0]].text, ""),
			kv(it.label+x.config.ToSuffix, values[dates[1]].text, ""),
		)
		rest := make([]span, 0, len(values)-2)
		for i, v := range values {
			if i != dates[0] && i != dates[1] {
				rest = append(rest, v)
			}
		}
		values = rest
	}

	for i := 0; i < len(values); i++ {
		v := values[i]
		if strings.Contains(v.text, "%") && i+1 < len(values) {
			out = append(out, kv(it.label, values[i+1].text, v.text))
			i++
			continue
		}
		out = append(out, kv(it.label, v.text, ""))
	}
	return out
}

// figures returns the non-overlapping percents, dates, amounts and bare
// integers of text in reading order.
func (x *KeyValueExtractor) figures(text string) []span {
	var found []span
	taken := func(start, end int) bool {
		for _, s := range found {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}
	add := func(start, end int, date bool) {
		if start < end && !taken(start, end) {
			found = append(found, span{start: start, end: end, text: strings.TrimSpace(text[start:end]), date: date})
		}
	}

	for _, loc := range percentRe.FindAllStringIndex(text, -1) {
		add(loc[0], loc[1], false)
	}
	for _, m := range x.dates.FindAll(text) {
		add(m.Start, m.End, true)
	}
	for _, m := range x.amounts.FindAll(text) {
		add(m.Start, m.End, false)
	}
	for _, loc := range integerRe.FindAllStringIndex(text, -1) {
		add(loc[0], loc[1], false)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })
	return found
}

// isHeading reports whether a row without figures titles a block: it names
// one of the profile's headings or is a short, mostly uppercase line.
func (x *KeyValueExtractor) isHeading(text string) bool {
	folded := textnorm.Fold(text)
	for _, re := range x.headings {
		if re.MatchString(folded) {
			return true
		}
	}
	if len(text) >= x.config.MaxHeadingLength {
		return false
	}

	letters, upper := 0, 0
	for _, w := range strings.Fields(text) {
		if !strings.ContainsFunc(w, unicode.IsLetter) {
			continue
		}
		letters++
		if strings.ToUpper(w) == w {
			upper++
		}
	}
	return letters > 0 && upper >= max(1, letters/2)
}
