// Package xlsx writes statements to Excel workbooks.
//
// A workbook has a "Transactions" sheet holding the statement table with
// its TOTAL row and a "Reconciliation" sheet holding one row per control
// concept. Statements with summary figures get a third "Key-Values" sheet.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/reconcile"
)

// Sheet names.
const (
	SheetTransactions   = "Transactions"
	SheetReconciliation = "Reconciliation"
	SheetKeyValues      = "Key-Values"
)

// Built-in excelize number format 4 is "#,##0.00".
const amountFormat = 4

var reconciliationHeader = []string{
	"Concept", "Kind", "Column", "Declared", "Computed", "Difference", "Found", "Matched",
}

var keyValueHeader = []string{"Title", "Label", "Value", "Percent", "Raw"}

// NewWorkbook builds a workbook from a statement table, its reconciliation
// report and its key-values. report may be nil; the key-value sheet is only
// added when pairs is not empty. The caller must Close the returned file.
func NewWorkbook(table *model.Table, report *reconcile.Report, pairs []model.KeyValue) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetReconciliation); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if len(pairs) > 0 {
		if _, err := f.NewSheet(SheetKeyValues); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet: %w", err)
		}
	}

	w := &sheetWriter{f: f}
	if err := w.init(); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.transactions(table); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetTransactions, err)
	}
	if err := w.reconciliation(report); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetReconciliation, err)
	}
	if err := w.keyValues(pairs); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetKeyValues, err)
	}
	return f, nil
}

// Write encodes the workbook to w.
func Write(w io.Writer, table *model.Table, report *reconcile.Report, pairs []model.KeyValue) error {
	f, err := NewWorkbook(table, report, pairs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook to path.
func WriteFile(path string, table *model.Table, report *reconcile.Report, pairs []model.KeyValue) error {
	f, err := NewWorkbook(table, report, pairs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	bold   int
	amount int
	total  int
}

func (w *sheetWriter) init() error {
	var err error
	if w.bold, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if w.amount, err = w.f.NewStyle(&excelize.Style{NumFmt: amountFormat}); err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if w.total, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: amountFormat}); err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	return nil
}

func (w *sheetWriter) transactions(table *model.Table) error {
	if table == nil {
		return nil
	}
	if err := w.header(SheetTransactions, table.Header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		r := i + 2
		isTotal := isTotalRow(row)
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, r)
			if err != nil {
				return err
			}
			style := 0
			if isTotal {
				style = w.bold
			}
			if err := w.cell(SheetTransactions, name, cell); err != nil {
				return err
			}
			if cell.Numeric {
				style = w.amount
				if isTotal {
					style = w.total
				}
			}
			if style != 0 {
				if err := w.f.SetCellStyle(SheetTransactions, name, name, style); err != nil {
					return err
				}
			}
		}
	}

	if col := table.Column("description"); col >= 0 {
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		return w.f.SetColWidth(SheetTransactions, letter, letter, 48)
	}
	return nil
}

func isTotalRow(row []model.Cell) bool {
	for _, c := range row {
		if !c.Numeric && c.Text == model.TotalLabel {
			return true
		}
	}
	return false
}

// cell writes numeric cells as numbers when they parse, text otherwise.
func (w *sheetWriter) cell(sheet, name string, cell model.Cell) error {
	if cell.Numeric && cell.Text != "" {
		if d, err := grammar.ParseAmount(cell.Text); err == nil {
			return w.f.SetCellValue(sheet, name, d.InexactFloat64())
		}
	}
	return w.f.SetCellValue(sheet, name, cell.Text)
}

func (w *sheetWriter) reconciliation(report *reconcile.Report) error {
	if err := w.header(SheetReconciliation, reconciliationHeader); err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	r := 2
	for _, e := range report.Entries {
		var declared interface{}
		if e.Declared != nil {
			declared = e.Declared.InexactFloat64()
		}
		row := []interface{}{
			e.Concept, e.Kind, e.Column,
			declared, e.Computed.InexactFloat64(), e.Difference.InexactFloat64(),
			e.Found, e.Matched,
		}
		start := "A" + strconv.Itoa(r)
		if err := w.f.SetSheetRow(SheetReconciliation, start, &row); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(SheetReconciliation, "D"+strconv.Itoa(r), "F"+strconv.Itoa(r), w.amount); err != nil {
			return err
		}
		r++
	}

	row := []interface{}{"Passed", report.Passed}
	start := "A" + strconv.Itoa(r+1)
	if err := w.f.SetSheetRow(SheetReconciliation, start, &row); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(SheetReconciliation, start, start, w.bold); err != nil {
		return err
	}
	return w.f.SetColWidth(SheetReconciliation, "A", "A", 24)
}

func (w *sheetWriter) keyValues(pairs []model.KeyValue) error {
	if len(pairs) == 0 {
		return nil
	}
	if err := w.header(SheetKeyValues, keyValueHeader); err != nil {
		return err
	}
	for i, kv := range pairs {
		row := []interface{}{kv.Title, kv.Label, kv.Value, kv.Percent, kv.Raw}
		if err := w.f.SetSheetRow(SheetKeyValues, "A"+strconv.Itoa(i+2), &row); err != nil {
			return err
		}
	}
	if err := w.f.SetColWidth(SheetKeyValues, "A", "B", 32); err != nil {
		return err
	}
	return w.f.SetColWidth(SheetKeyValues, "E", "E", 64)
}

func (w *sheetWriter) header(sheet string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	if err := w.f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", last, w.bold)
}
