package tables

import (
	"log/slog"
	"sort"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// SplitConfig holds configuration for row splitting
type SplitConfig struct {
	// DateSlack is subtracted from each date top to form the cut, so the
	// dated token itself falls after the cut.
	// Default: 0.5
	DateSlack float64

	// DateEpsilon is the minimum vertical distance between two date tops
	// for them to count as distinct.
	// Default: 0.01
	DateEpsilon float64

	// AmountEpsilon is the minimum vertical distance between two amount
	// tops in one numeric column for them to count as distinct.
	// Default: 1.0
	AmountEpsilon float64
}

// DefaultSplitConfig returns sensible default configuration
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		DateSlack:     0.5,
		DateEpsilon:   0.01,
		AmountEpsilon: 1.0,
	}
}

// Splitter divides a row group that visually holds more than one record.
//
// Two signals are used. The date signal looks for dates at two or more
// distinct tops; when it fires its cuts are used. Only when it does not
// fire is the amount signal consulted: two or more amounts at distinct
// tops inside a single numeric column.
type Splitter struct {
	config   SplitConfig
	dates    grammar.DateGrammar
	amounts  grammar.AmountGrammar
	columns  *layout.ColumnAssigner
	restrict bool
	logger   *slog.Logger
}

// NewSplitter creates a splitter for a compiled profile and a column set.
func NewSplitter(c *profile.Compiled, columns *layout.ColumnAssigner, config SplitConfig, l *slog.Logger) *Splitter {
	return &Splitter{
		config:   config,
		dates:    c.Dates,
		amounts:  c.Amounts,
		columns:  columns,
		restrict: c.Profile.RestrictDatesToColumn,
		logger:   logger.Or(l),
	}
}

// Split returns the sub-rows of row. With no cut points the result is the
// original row alone. Tokens are never lost or duplicated: a token holding
// several dates or amounts is replaced by virtual tokens that partition its
// text.
func (s *Splitter) Split(row model.RowGroup) []model.RowGroup {
	if row.Len() == 0 {
		return []model.RowGroup{row}
	}

	dateTokens, dateTops := s.dateSignal(row.Tokens)
	dateCuts := cutsFromTops(dateTops, s.config.DateEpsilon, s.config.DateSlack)

	amountTokens, amountCuts := s.amountSignal(row.Tokens)

	switch {
	case len(dateCuts) > 0:
		if len(amountCuts) > 0 && !sameCuts(dateCuts, amountCuts) {
			s.logger.Debug("row split signals disagree, using date cuts",
				"page", row.Page, "top", row.Top, "date_cuts", dateCuts, "amount_cuts", amountCuts)
		}
		return partition(dateTokens, dateCuts, row.Page)
	case len(amountCuts) > 0:
		return partition(amountTokens, amountCuts, row.Page)
	default:
		return []model.RowGroup{row}
	}
}

// dateSignal returns the row's tokens with multi-date tokens replaced by
// virtual tokens, and the tops of every date found.
func (s *Splitter) dateSignal(tokens []model.Token) ([]model.Token, []float64) {
	dateRange, hasDateColumn := s.columns.Range(profile.ColumnDate)
	restrict := s.restrict && hasDateColumn

	var out []model.Token
	var tops []float64
	for _, tok := range tokens {
		tok = tok.Normalized()
		if restrict && !dateRange.Normalized().Contains(tok.CenterX()) {
			out = append(out, tok)
			continue
		}

		matches := s.dates.FindAll(grammar.MaskClock(tok.Text))
		if len(matches) < 2 {
			if len(matches) == 1 {
				tops = append(tops, tok.Top)
			}
			out = append(out, tok)
			continue
		}

		virtual := cutVertically(tok, matches)
		for _, v := range virtual {
			tops = append(tops, v.Top)
		}
		out = append(out, virtual...)
	}
	return out, tops
}

// amountSignal returns the row's tokens with multi-amount numeric tokens
// replaced by virtual tokens, and the cuts implied by numeric columns that
// hold amounts at distinct tops.
func (s *Splitter) amountSignal(tokens []model.Token) ([]model.Token, []float64) {
	topsByColumn := make(map[string][]float64)
	var order []string

	var out []model.Token
	for _, tok := range tokens {
		tok = tok.Normalized()
		col, ok := s.columns.Assign(tok)
		if !ok || !s.columns.IsNumeric(col) {
			out = append(out, tok)
			continue
		}

		matches := s.amounts.FindAll(tok.Text)
		if len(matches) == 0 {
			out = append(out, tok)
			continue
		}
		if _, seen := topsByColumn[col]; !seen {
			order = append(order, col)
		}
		if len(matches) == 1 {
			topsByColumn[col] = append(topsByColumn[col], tok.Top)
			out = append(out, tok)
			continue
		}

		virtual := cutVertically(tok, matches)
		for _, v := range virtual {
			topsByColumn[col] = append(topsByColumn[col], v.Top)
		}
		out = append(out, virtual...)
	}

	var cuts []float64
	for _, col := range order {
		cuts = append(cuts, cutsFromTops(topsByColumn[col], s.config.AmountEpsilon, 0)...)
	}
	return out, dedupeCuts(cuts)
}

// cutVertically splits a token at the start of every match after the first.
// The i-th of k pieces is moved down by i*height/k, so pieces read as
// stacked lines while keeping the token's horizontal extent.
func cutVertically(tok model.Token, matches []grammar.Match) []model.Token {
	k := len(matches)
	h := tok.Height()
	step := h / float64(k)

	starts := make([]int, k)
	for i, m := range matches {
		starts[i] = m.Start
	}
	starts[0] = 0

	out := make([]model.Token, 0, k)
	for i := 0; i < k; i++ {
		end := len(tok.Text)
		if i+1 < k {
			end = starts[i+1]
		}
		v := tok
		v.Text = tok.Text[starts[i]:end]
		v.Top = tok.Top + float64(i)*step
		v.Bottom = v.Top + step
		if step == 0 {
			v.Bottom = v.Top
		}
		out = append(out, v)
	}
	return out
}

// cutsFromTops sorts tops, collapses those closer than eps, and returns a
// cut at every distinct top after the first, minus slack.
func cutsFromTops(tops []float64, eps, slack float64) []float64 {
	if len(tops) < 2 {
		return nil
	}
	sorted := append([]float64(nil), tops...)
	sort.Float64s(sorted)

	var cuts []float64
	last := sorted[0]
	for _, t := range sorted[1:] {
		if t-last > eps {
			cuts = append(cuts, t-slack)
			last = t
		}
	}
	return cuts
}

func dedupeCuts(cuts []float64) []float64 {
	if len(cuts) == 0 {
		return nil
	}
	sort.Float64s(cuts)
	out := cuts[:1]
	for _, c := range cuts[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

func sameCuts(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// partition assigns every token to the segment after the last cut at or
// above its top. Empty segments are dropped.
func partition(tokens []model.Token, cuts []float64, page int) []model.RowGroup {
	segments := make([][]model.Token, len(cuts)+1)
	for _, tok := range tokens {
		idx := sort.SearchFloat64s(cuts, tok.Top)
		// SearchFloat64s finds the first cut >= top; a token exactly on
		// a cut belongs to the later segment.
		if idx < len(cuts) && cuts[idx] == tok.Top {
			idx++
		}
		segments[idx] = append(segments[idx], tok)
	}

	var out []model.RowGroup
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		top := seg[0].Top
		for _, t := range seg[1:] {
			if t.Top < top {
				top = t.Top
			}
		}
		out = append(out, model.RowGroup{Tokens: seg, Top: top, Page: page})
	}
	return out
}
