// Package layout groups positioned tokens into table rows and maps them to
// the semantic columns of a layout profile.
//
// # Rows
//
// The [RowDetector] orders tokens by page and top edge and cuts a new row
// whenever a token's top drifts more than a tolerance from the top of the
// row's first token:
//
//	rows := layout.NewRowDetector().Detect(tokens)
//
// The tolerance defaults to 3 points and is normally taken from the
// profile's row_tolerance:
//
//	d := layout.NewRowDetectorWithConfig(layout.RowConfig{Tolerance: p.Tolerance()})
//
// # Columns
//
// The [ColumnAssigner] resolves a token's horizontal center against the
// profile's coordinate ranges. Ranges may overlap; numeric columns (debit,
// credit, balance, amount or any column flagged numeric) take priority, and
// among them the nearest midpoint wins:
//
//	a := layout.NewColumnAssigner(p.Columns)
//	name, ok := a.Assign(tok)
//
// # Headers and footers
//
// The [HeaderFooterDetector] finds rows repeated at the same height near
// the top or bottom of several pages, such as the bank's letterhead or a
// "Page 2 of 5" line. Digits are masked when comparing rows, but only page
// number rows may differ in them:
//
//	result := layout.NewHeaderFooterDetector().Detect(pages)
//	rows := result.Filter(pages[1])
package layout
