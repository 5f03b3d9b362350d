package ledgerscan

import (
	"fmt"
	"io"

	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
	"github.com/tsawler/ledgerscan/reconcile"
	"github.com/tsawler/ledgerscan/source"
	"github.com/tsawler/ledgerscan/tables"
	"github.com/tsawler/ledgerscan/xlsx"
)

// Statement is the result of extracting one document.
type Statement struct {
	File    string
	Profile string
	RunID   string

	// Records are the accepted transactions in document order.
	Records []model.Record

	Report *reconcile.Report

	// KeyValues are the labeled figures printed around the transactions,
	// such as opening balances, yields and the statement period.
	KeyValues []model.KeyValue

	// Pages is the number of pages processed.
	Pages int

	// Tokens is the number of tokens read from those pages.
	Tokens int

	// HeaderFooter lists the page headers and footers dropped before
	// reconstruction, with digits shown as "#".
	HeaderFooter []string

	// OCR is set when the records come from recognized page images.
	OCR bool

	// Degraded is set when the text layer was illegible, OCR failed, and
	// the text layer was used anyway.
	Degraded bool

	// Legibility measures page 1 of the text layer, when it was read.
	Legibility source.Legibility

	Stats tables.Stats

	compiled *profile.Compiled
}

// Columns returns the statement's column names in profile order. A
// reference column is appended when the profile extracts references from
// descriptions and has no positional reference column.
func (s *Statement) Columns() []string {
	if s.compiled == nil {
		return nil
	}
	cols := s.columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func (s *Statement) columns() []profile.Column {
	cols := s.compiled.Profile.Columns
	if s.compiled.Reference == nil {
		return cols
	}
	for _, c := range cols {
		if c.Name == profile.ColumnReference {
			return cols
		}
	}
	out := make([]profile.Column, len(cols), len(cols)+1)
	copy(out, cols)
	return append(out, profile.Column{Name: profile.ColumnReference})
}

// Table renders the records as a table in column order, followed by a
// TOTAL row summing the profile's total columns, which default to every
// numeric column except the balance. Records excluded from totals still
// appear as rows.
func (s *Statement) Table() *model.Table {
	if s.compiled == nil {
		return model.NewTable()
	}
	cols := s.columns()
	t := model.NewTable(s.Columns()...)

	for _, rec := range s.Records {
		row := make([]model.Cell, len(cols))
		for i, c := range cols {
			row[i] = cellFor(rec, c)
		}
		t.AddRow(row...)
	}

	sums, _ := reconcile.Totals(s.Records, s.compiled)
	total := make([]model.Cell, len(cols))
	labeled := false
	for i, c := range cols {
		switch {
		case c.IsNumeric() && s.compiled.Profile.InTotal(c.Name):
			total[i] = model.Cell{Text: sums[c.Name].StringFixed(2), Numeric: true}
		case c.IsNumeric():
			total[i] = model.Cell{Numeric: true}
		case !labeled:
			total[i] = model.Cell{Text: model.TotalLabel}
			labeled = true
		}
	}
	t.AddRow(total...)
	return t
}

func cellFor(rec model.Record, c profile.Column) model.Cell {
	switch {
	case c.Name == profile.ColumnDate:
		return model.Cell{Text: rec.Date}
	case c.Name == profile.ColumnDescription:
		return model.Cell{Text: rec.Description}
	case c.IsNumeric():
		return model.Cell{Text: rec.Amounts[c.Name], Numeric: true}
	default:
		return model.Cell{Text: rec.Fields[c.Name]}
	}
}

// Mismatches returns the control totals that were declared but did not
// match.
func (s *Statement) Mismatches() []reconcile.Entry {
	if s.Report == nil {
		return nil
	}
	var out []reconcile.Entry
	for _, e := range s.Report.Entries {
		if e.Found && !e.Matched {
			out = append(out, e)
		}
	}
	return out
}

// Reconciled reports whether at least one control total was declared and
// every declared total matched.
func (s *Statement) Reconciled() bool {
	if s.Report == nil {
		return false
	}
	found := false
	for _, e := range s.Report.Entries {
		if e.Found {
			found = true
		}
	}
	return found && len(s.Mismatches()) == 0
}

// WriteXLSX writes the statement table, its reconciliation report and its
// key-values as an Excel workbook.
func (s *Statement) WriteXLSX(w io.Writer) error {
	return xlsx.Write(w, s.Table(), s.Report, s.KeyValues)
}

// SaveXLSX saves the workbook to path.
func (s *Statement) SaveXLSX(path string) error {
	return xlsx.WriteFile(path, s.Table(), s.Report, s.KeyValues)
}

// warnings derives the statement's reconciliation and engine warnings.
func (s *Statement) warnings() []Warning {
	var out []Warning
	if s.Stats.Orphans > 0 {
		out = append(out, Warning{
			Type:    WarningOrphans,
			Message: fmt.Sprintf("%d continuation row(s) before the first dated record", s.Stats.Orphans),
		})
	}
	if s.Report == nil {
		return out
	}
	if n := len(s.Report.Unparsed); n > 0 {
		out = append(out, Warning{
			Type:    WarningUnparsedAmounts,
			Message: fmt.Sprintf("%d value(s) not readable as amounts", n),
		})
	}

	found := false
	for _, e := range s.Report.Entries {
		if e.Found {
			found = true
		}
	}
	if !found {
		out = append(out, Warning{Type: WarningNoControls, Message: "no control totals found in the statement"})
	}
	for _, e := range s.Mismatches() {
		out = append(out, Warning{
			Type:    WarningMismatch,
			Message: fmt.Sprintf("%s: declared %s, computed %s", e.Concept, e.Declared.StringFixed(2), e.Computed.StringFixed(2)),
		})
	}
	return out
}
