package model

import (
	"strings"
)

// TotalLabel marks the synthetic row summing a table's numeric columns.
const TotalLabel = "TOTAL"

// Table is a rendered statement: a header row, one row per record and,
// usually, a trailing TOTAL row.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// Cell is one table value.
type Cell struct {
	Text string

	// Numeric is set for amount columns.
	Numeric bool
}

// NewTable creates an empty table with the given header.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow appends a row. Short rows are padded to the header width.
func (t *Table) AddRow(cells ...Cell) {
	for len(cells) < len(t.Header) {
		cells = append(cells, Cell{})
	}
	t.Rows = append(t.Rows, cells)
}

// RowCount returns the number of rows, header excluded.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	return len(t.Header)
}

// GetCell returns the cell at the given row and column (0-indexed, header
// excluded).
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// GetText returns the table as tab-separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Header, "\t"))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Header) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(texts []string) {
		for _, text := range texts {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(text, "|", "\\|"))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Header)
	for j := range t.Header {
		if t.numericColumn(j) {
			sb.WriteString("|---:")
		} else {
			sb.WriteString("|---")
		}
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows {
		writeRow(cellTexts(row))
	}
	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	writeRow := func(texts []string) {
		for j, text := range texts {
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(texts)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(cellTexts(row))
	}
	return sb.String()
}

func (t *Table) numericColumn(col int) bool {
	for _, row := range t.Rows {
		if col < len(row) && row[col].Numeric {
			return true
		}
	}
	return false
}

func cellTexts(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text
	}
	return out
}
