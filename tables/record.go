package tables

import (
	"strings"
	"unicode"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// RecordExtractor turns one row group into a candidate record.
type RecordExtractor struct {
	dates   grammar.DateGrammar
	amounts grammar.AmountGrammar
	columns *layout.ColumnAssigner
}

// NewRecordExtractor creates an extractor for a compiled profile and a
// column set.
func NewRecordExtractor(c *profile.Compiled, columns *layout.ColumnAssigner) *RecordExtractor {
	return &RecordExtractor{dates: c.Dates, amounts: c.Amounts, columns: columns}
}

// Dated reports whether the record's date is a full match of the date
// grammar.
func (x *RecordExtractor) Dated(r *model.Record) bool {
	return r != nil && x.dates.Full(r.Date)
}

// Extract builds a record from row. Every non-blank token ends up in the
// date, an amount column, a named field or the description.
func (x *RecordExtractor) Extract(row model.RowGroup) *model.Record {
	rec := model.NewRecord(row.Page)

	var tokens []model.Token
	for _, t := range row.SortedByX() {
		if !t.IsBlank() {
			tokens = append(tokens, t)
		}
	}

	tokens = x.takeDateColumn(rec, tokens)

	for _, t := range tokens {
		for _, m := range x.amounts.FindAll(t.Text) {
			rec.RawAmounts = append(rec.RawAmounts, model.RawAmount{
				Text:   m.Text,
				Center: t.SpanCenter(m.Start, m.End),
			})
		}
	}

	var prefix string
	if rec.Date == "" && len(tokens) > 0 && x.inDateColumn(tokens[0]) {
		if m, ok := x.dates.Prefix(tokens[0].Text); ok {
			rec.Date = m.Text
			prefix = strings.TrimSpace(tokens[0].Text[m.End:])
			tokens = tokens[1:]
		}
	}

	x.assignColumns(rec, tokens)
	if prefix != "" {
		rec.Description = model.JoinText(prefix, rec.Description)
	}
	return rec
}

// inDateColumn reports whether t may open with an inline date: it must
// start or be centered inside the date column when the profile has one.
func (x *RecordExtractor) inDateColumn(t model.Token) bool {
	dateRange, ok := x.columns.Range(profile.ColumnDate)
	if !ok {
		return true
	}
	dateRange = dateRange.Normalized()
	t = t.Normalized()
	return dateRange.Contains(t.X0) || dateRange.Contains(t.CenterX())
}

// takeDateColumn reconstructs the date from tokens inside the date column
// and returns the tokens left for column assignment.
func (x *RecordExtractor) takeDateColumn(rec *model.Record, tokens []model.Token) []model.Token {
	dateRange, ok := x.columns.Range(profile.ColumnDate)
	if !ok {
		return tokens
	}

	var inRange []int
	for i, t := range tokens {
		if dateRange.Contains(t.CenterX()) {
			inRange = append(inRange, i)
		}
	}
	if len(inRange) == 0 {
		return tokens
	}

	// A single token holding the whole date.
	for _, i := range inRange {
		if x.dates.Full(tokens[i].Text) {
			rec.Date = strings.TrimSpace(tokens[i].Text)
			return without(tokens, i)
		}
	}

	texts := make([]string, len(inRange))
	for j, i := range inRange {
		texts[j] = strings.TrimSpace(tokens[i].Text)
	}

	candidates := []string{
		strings.Join(texts, " "),
		strings.Join(texts, ""),
	}
	candidates = append(candidates, mergeFragments(texts)...)

	for _, c := range candidates {
		if x.dates.Full(c) {
			rec.Date = c
			return without(tokens, inRange...)
		}
	}
	return tokens
}

// mergeFragments rebuilds a date broken into single-character or partial
// fragments: digits are glued to digits, letters to letters, and date
// separators are kept. Two spellings are returned, with and without a
// space where a digit run meets a letter run.
func mergeFragments(texts []string) []string {
	var runs []string
	var kinds []rune
	for _, s := range texts {
		for _, r := range s {
			var kind rune
			switch {
			case unicode.IsDigit(r):
				kind = 'd'
			case unicode.IsLetter(r):
				kind = 'l'
			case r == '/' || r == '-' || r == '.':
				kind = 's'
			default:
				continue
			}
			if n := len(runs); n > 0 && kinds[n-1] == kind && kind != 's' {
				runs[n-1] += string(r)
				continue
			}
			runs = append(runs, string(r))
			kinds = append(kinds, kind)
		}
	}
	if len(runs) == 0 {
		return nil
	}

	var spaced, glued strings.Builder
	for i, run := range runs {
		if i > 0 && kinds[i] != 's' && kinds[i-1] != 's' {
			spaced.WriteByte(' ')
		}
		spaced.WriteString(run)
		glued.WriteString(run)
	}
	return []string{spaced.String(), glued.String()}
}

func without(tokens []model.Token, drop ...int) []model.Token {
	skip := make(map[int]bool, len(drop))
	for _, i := range drop {
		skip[i] = true
	}
	out := make([]model.Token, 0, len(tokens)-len(drop))
	for i, t := range tokens {
		if !skip[i] {
			out = append(out, t)
		}
	}
	return out
}

// assignColumns places the remaining tokens. Numeric columns receive the
// amount text; anything else in a numeric column, the date column or no
// column at all joins the description.
func (x *RecordExtractor) assignColumns(rec *model.Record, tokens []model.Token) {
	var desc []string
	for _, t := range tokens {
		text := strings.TrimSpace(t.Text)
		col, ok := x.columns.Assign(t)
		switch {
		case !ok, col == profile.ColumnDescription, col == profile.ColumnDate:
			desc = append(desc, text)
		case x.columns.IsNumeric(col):
			matches := x.amounts.FindAll(text)
			for _, m := range matches {
				rec.Amounts[col] = model.JoinText(rec.Amounts[col], m.Text)
			}
			if rest := grammar.Strip(x.amounts, text); rest != "" {
				desc = append(desc, rest)
			}
		default:
			rec.AppendField(col, text)
		}
	}
	rec.AppendDescription(strings.Join(desc, " "))
}
