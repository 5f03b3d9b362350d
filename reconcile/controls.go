package reconcile

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/profile"
)

// DefaultControls returns the controls used when a profile declares none:
// a sum for every numeric column other than the balance, the last balance,
// and the record count. Labels are empty, so their declared values must
// come from elsewhere.
func DefaultControls(p *profile.Profile) []profile.Control {
	var out []profile.Control
	hasBalance := false
	for _, name := range p.NumericColumns() {
		if name == profile.ColumnBalance {
			hasBalance = true
			continue
		}
		out = append(out, profile.Control{Concept: "Total " + name, Kind: profile.ControlSum, Column: name})
	}
	if hasBalance {
		out = append(out, profile.Control{Concept: "Closing balance", Kind: profile.ControlLast, Column: profile.ColumnBalance})
	}
	out = append(out, profile.Control{Concept: "Transactions", Kind: profile.ControlCount})
	return out
}

// ParseControls finds the declared value of every control whose label
// pattern matches text. The label's first capture group holds the value;
// a pattern without a group uses the first amount after the match.
// Controls that do not match are absent from the result.
func ParseControls(text string, controls []profile.Control) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	amounts := grammar.NewStandardAmount()

	for _, c := range controls {
		if c.Label == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + c.Label)
		if err != nil {
			return nil, fmt.Errorf("control %q: %w", c.Concept, err)
		}

		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		var raw string
		if len(loc) >= 4 && loc[2] >= 0 {
			raw = text[loc[2]:loc[3]]
		} else if m := amounts.FindAll(text[loc[1]:]); len(m) > 0 {
			raw = m[0].Text
		} else {
			continue
		}

		v, err := grammar.ParseAmount(raw)
		if err != nil {
			continue
		}
		out[c.Concept] = v
	}
	return out, nil
}
