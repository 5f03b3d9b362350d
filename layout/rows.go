package layout

import (
	"math"
	"sort"

	"github.com/tsawler/ledgerscan/model"
)

// DefaultRowTolerance is the vertical distance within which tokens share a
// row when no tolerance is configured.
const DefaultRowTolerance = 3.0

// RowConfig holds configuration for row detection
type RowConfig struct {
	// Tolerance is the maximum distance between a token's top and the top
	// of the row's first token for the token to join the row.
	// Default: 3.0 points
	Tolerance float64

	// SplitOnLineHint starts a new row when two consecutive tokens carry
	// different recognizer line indexes, even inside the tolerance.
	// Default: false
	SplitOnLineHint bool
}

// DefaultRowConfig returns sensible default configuration
func DefaultRowConfig() RowConfig {
	return RowConfig{
		Tolerance: DefaultRowTolerance,
	}
}

// RowDetector groups tokens into visual table rows
type RowDetector struct {
	config RowConfig
}

// NewRowDetector creates a new row detector with default configuration
func NewRowDetector() *RowDetector {
	return &RowDetector{
		config: DefaultRowConfig(),
	}
}

// NewRowDetectorWithConfig creates a row detector with custom configuration
func NewRowDetectorWithConfig(config RowConfig) *RowDetector {
	if config.Tolerance <= 0 {
		config.Tolerance = DefaultRowTolerance
	}
	return &RowDetector{
		config: config,
	}
}

// Config returns the detector's configuration.
func (d *RowDetector) Config() RowConfig {
	return d.config
}

// Detect partitions tokens into rows. Tokens are ordered by page and then
// by top edge (stable, so equal tops keep their input order); a new row
// starts when the page changes or a token's top is more than the tolerance
// away from the top of the row's first token. Every input token appears in
// exactly one row.
func (d *RowDetector) Detect(tokens []model.Token) []model.RowGroup {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]model.Token, len(tokens))
	for i, t := range tokens {
		sorted[i] = t.Normalized()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Top < sorted[j].Top
	})

	var rows []model.RowGroup
	var current []model.Token
	rowTop := 0.0

	flush := func() {
		if len(current) > 0 {
			rows = append(rows, model.NewRowGroup(current))
		}
	}

	for _, tok := range sorted {
		if len(current) == 0 {
			current = []model.Token{tok}
			rowTop = tok.Top
			continue
		}

		prev := current[len(current)-1]
		if tok.Page != prev.Page ||
			math.Abs(tok.Top-rowTop) > d.config.Tolerance ||
			d.hintBreak(prev, tok) {
			flush()
			current = []model.Token{tok}
			rowTop = tok.Top
			continue
		}
		current = append(current, tok)
	}
	flush()

	return rows
}

func (d *RowDetector) hintBreak(prev, tok model.Token) bool {
	if !d.config.SplitOnLineHint || prev.LineHint == nil || tok.LineHint == nil {
		return false
	}
	return *prev.LineHint != *tok.LineHint
}

// Flatten returns every token of rows in row order.
func Flatten(rows []model.RowGroup) []model.Token {
	var out []model.Token
	for _, r := range rows {
		out = append(out, r.Tokens...)
	}
	return out
}
