package tables

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// AmountConfig holds configuration for amount reconciliation
type AmountConfig struct {
	// Tolerance widens every numeric column range on both sides.
	// Default: 2.0
	Tolerance float64

	// MaxDistance is the farthest an amount center may be from a numeric
	// column midpoint to be attributed to it when no widened range
	// contains it.
	// Default: 40.0
	MaxDistance float64
}

// DefaultAmountConfig returns sensible default configuration
func DefaultAmountConfig() AmountConfig {
	return AmountConfig{
		Tolerance:   2.0,
		MaxDistance: 40.0,
	}
}

// AmountReconciler settles which raw amounts of a finished record belong to
// which numeric column, and cleans them out of the description.
type AmountReconciler struct {
	config  AmountConfig
	columns *layout.ColumnAssigner
	amounts grammar.AmountGrammar
	logger  *slog.Logger
}

// NewAmountReconciler creates a reconciler over a column set.
func NewAmountReconciler(columns *layout.ColumnAssigner, amounts grammar.AmountGrammar, config AmountConfig, l *slog.Logger) *AmountReconciler {
	return &AmountReconciler{config: config, columns: columns, amounts: amounts, logger: logger.Or(l)}
}

// Reconcile fills empty or malformed numeric columns from the record's raw
// amounts and strips every amount that is not kept inline from the
// description. Well-formed column values are never overwritten, and an
// amount is placed in at most as many columns as it occurs in RawAmounts.
func (r *AmountReconciler) Reconcile(rec *model.Record) {
	if rec.Amounts == nil {
		rec.Amounts = make(map[string]string)
	}

	occurrences := make(map[string]int)
	for _, raw := range rec.RawAmounts {
		occurrences[raw.Text]++
	}
	assigned := make(map[string]int)
	for _, v := range rec.Amounts {
		v = strings.TrimSpace(v)
		if r.amounts.WellFormed(v) {
			assigned[normalizedAmount(r.amounts, v)]++
		}
	}

	descRange, hasDesc := r.columns.Range(profile.ColumnDescription)
	var inline []string

	for _, raw := range rec.RawAmounts {
		col, ok := r.columnFor(raw.Center)
		if !ok {
			if hasDesc && descRange.Contains(raw.Center) {
				inline = append(inline, raw.Text)
				continue
			}
			r.logger.Debug("amount not attributable to a column",
				"page", rec.Page, "amount", raw.Text, "center", raw.Center)
			continue
		}

		existing := strings.TrimSpace(rec.Amounts[col])
		if existing != "" && r.amounts.WellFormed(existing) {
			continue
		}
		if assigned[raw.Text] >= occurrences[raw.Text] {
			continue
		}
		rec.Amounts[col] = raw.Text
		assigned[raw.Text]++
	}

	rec.Inline = inline
	rec.Description = r.cleanDescription(rec.Description, inline)
}

// columnFor finds the numeric column for an amount center: the nearest
// midpoint among widened ranges containing it, else the nearest midpoint
// within MaxDistance.
func (r *AmountReconciler) columnFor(center float64) (string, bool) {
	numeric := r.columns.Numeric()

	best := ""
	bestDist := math.Inf(1)
	for _, c := range numeric {
		if !c.Range.Expand(r.config.Tolerance).Contains(center) {
			continue
		}
		if d := c.Range.DistanceToMid(center); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	if best != "" {
		return best, true
	}

	for _, c := range numeric {
		if d := c.Range.DistanceToMid(center); d <= r.config.MaxDistance && d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best, best != ""
}

// cleanDescription removes amounts from the description except those kept
// inline. Inline figures that an earlier merge already stripped are
// appended again so they are not lost.
func (r *AmountReconciler) cleanDescription(desc string, inline []string) string {
	out := grammar.Strip(r.amounts, desc, inline...)

	present := make(map[string]int)
	for _, m := range r.amounts.FindAll(out) {
		present[m.Text]++
	}
	for _, a := range inline {
		if present[a] > 0 {
			present[a]--
			continue
		}
		out = model.JoinText(out, a)
	}
	return out
}

// normalizedAmount returns the grammar's canonical text for a well-formed
// value, matching the form used in RawAmounts.
func normalizedAmount(g grammar.AmountGrammar, v string) string {
	if m := g.FindAll(v); len(m) == 1 {
		return m[0].Text
	}
	return v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
