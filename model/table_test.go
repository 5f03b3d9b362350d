package model

import "testing"

func makeTable() *Table {
	t := NewTable("date", "description", "debit")
	t.AddRow(Cell{Text: "15 JAN"}, Cell{Text: "GROCERY, STORE"}, Cell{Text: "45.00", Numeric: true})
	t.AddRow(Cell{Text: TotalLabel}, Cell{}, Cell{Text: "45.00", Numeric: true})
	return t
}

func TestTable_AddRowPads(t *testing.T) {
	table := NewTable("a", "b", "c")
	table.AddRow(Cell{Text: "x"})

	if table.RowCount() != 1 || len(table.Rows[0]) != 3 {
		t.Errorf("Expected one row of 3 cells, got %v", table.Rows)
	}
	if table.ColCount() != 3 {
		t.Errorf("Expected 3 columns, got %d", table.ColCount())
	}
}

func TestTable_GetCell(t *testing.T) {
	table := makeTable()

	if c := table.GetCell(0, 2); c == nil || c.Text != "45.00" {
		t.Errorf("Expected 45.00 at (0,2), got %v", c)
	}
	if table.GetCell(5, 0) != nil || table.GetCell(0, -1) != nil {
		t.Error("Expected nil for out-of-range cells")
	}
	if table.Column("debit") != 2 || table.Column("credit") != -1 {
		t.Error("Expected Column to find debit and miss credit")
	}
}

func TestTable_ToCSV(t *testing.T) {
	want := "date,description,debit\n15 JAN,\"GROCERY, STORE\",45.00\nTOTAL,,45.00\n"
	if got := makeTable().ToCSV(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTable_ToMarkdown(t *testing.T) {
	want := "| date | description | debit |\n" +
		"|---|---|---:|\n" +
		"| 15 JAN | GROCERY, STORE | 45.00 |\n" +
		"| TOTAL |  | 45.00 |\n"
	if got := makeTable().ToMarkdown(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
