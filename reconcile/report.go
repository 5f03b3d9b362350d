package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// Tolerance is the largest difference, exclusive, at which a declared and
// a computed value still match.
var Tolerance = decimal.New(1, -2)

// Entry is the reconciliation of one control concept.
type Entry struct {
	Concept    string           `json:"concept"`
	Kind       string           `json:"kind"`
	Column     string           `json:"column,omitempty"`
	Declared   *decimal.Decimal `json:"declared,omitempty"`
	Computed   decimal.Decimal  `json:"computed"`
	Difference decimal.Decimal  `json:"difference"`
	Matched    bool             `json:"matched"`
	Found      bool             `json:"found"`
}

// Report is the result of reconciling a statement.
type Report struct {
	Entries []Entry `json:"entries"`

	// Passed is true when every entry matched.
	Passed bool `json:"passed"`

	// Unparsed lists column values that could not be read as amounts and
	// were left out of the sums.
	Unparsed []string `json:"unparsed,omitempty"`
}

// Failed returns the entries that did not match.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.Matched {
			out = append(out, e)
		}
	}
	return out
}

// Totals sums every numeric column over records whose description is not
// excluded from totals. Values that are not readable amounts are skipped
// and returned separately.
func Totals(records []model.Record, c *profile.Compiled) (map[string]decimal.Decimal, []string) {
	sums := make(map[string]decimal.Decimal)
	for _, name := range c.Profile.NumericColumns() {
		sums[name] = decimal.Zero
	}

	var unparsed []string
	for _, rec := range records {
		if c.Excluded(rec.Description) {
			continue
		}
		for name := range sums {
			v := strings.TrimSpace(rec.Amounts[name])
			if v == "" {
				continue
			}
			d, err := grammar.ParseAmount(v)
			if err != nil {
				unparsed = append(unparsed, v)
				continue
			}
			sums[name] = sums[name].Add(d)
		}
	}
	return sums, unparsed
}

// Last returns the last readable value of a column in document order.
func Last(records []model.Record, column string) (decimal.Decimal, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		v := strings.TrimSpace(records[i].Amounts[column])
		if v == "" {
			continue
		}
		if d, err := grammar.ParseAmount(v); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

// Check computes every control of the profile (or the default controls
// when it declares none) and compares them with the declared values,
// keyed by concept.
func Check(records []model.Record, c *profile.Compiled, declared map[string]decimal.Decimal) *Report {
	controls := c.Profile.Controls
	if len(controls) == 0 {
		controls = DefaultControls(c.Profile)
	}

	sums, unparsed := Totals(records, c)
	report := &Report{Passed: true, Unparsed: unparsed}

	for _, ctl := range controls {
		e := Entry{Concept: ctl.Concept, Kind: ctl.Kind, Column: ctl.Column}
		switch ctl.Kind {
		case profile.ControlSum:
			e.Computed = sums[ctl.Column]
		case profile.ControlLast:
			e.Computed, _ = Last(records, ctl.Column)
		case profile.ControlCount:
			e.Computed = decimal.NewFromInt(int64(len(records)))
		}

		if d, ok := declared[ctl.Concept]; ok {
			d := d
			e.Declared = &d
			e.Found = true
			e.Difference = d.Sub(e.Computed)
			e.Matched = Matches(d, e.Computed)
		}
		if !e.Matched {
			report.Passed = false
		}
		report.Entries = append(report.Entries, e)
	}
	return report
}

// Matches reports whether two values differ by less than Tolerance.
func Matches(declared, computed decimal.Decimal) bool {
	return declared.Sub(computed).Abs().LessThan(Tolerance)
}
