package tables

import (
	"strings"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
)

// MergeContinuation folds an undated continuation record into the dated
// record before it.
//
// The continuation's description, with amounts removed, is appended to the
// previous description and its named fields are appended field by field.
// Each raw amount is routed to the numeric column containing its center
// and set there unless the column already holds the same text, which is a
// duplicate. Every raw amount is also recorded on the previous record for
// later reconciliation.
func MergeContinuation(prev, cont *model.Record, columns *layout.ColumnAssigner, amounts grammar.AmountGrammar) {
	if prev == nil || cont == nil {
		return
	}

	if desc := grammar.Strip(amounts, cont.Description); desc != "" {
		prev.AppendDescription(desc)
	}
	for _, name := range sortedKeys(cont.Fields) {
		if v := strings.TrimSpace(cont.Fields[name]); v != "" {
			prev.AppendField(name, v)
		}
	}

	if prev.Amounts == nil {
		prev.Amounts = make(map[string]string)
	}
	for _, raw := range cont.RawAmounts {
		col, ok := columns.AssignX(raw.Center)
		if !ok || !columns.IsNumeric(col) {
			continue
		}
		if strings.TrimSpace(prev.Amounts[col]) == raw.Text {
			continue
		}
		prev.Amounts[col] = raw.Text
	}
	prev.RawAmounts = append(prev.RawAmounts, cont.RawAmounts...)
}
