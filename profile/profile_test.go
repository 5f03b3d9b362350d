package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
)

func makeProfile() *Profile {
	return &Profile{
		Name: "test",
		Columns: []Column{
			{Name: ColumnDate, Range: model.Range{Min: 0, Max: 60}},
			{Name: ColumnDescription, Range: model.Range{Min: 60, Max: 300}},
			{Name: ColumnDebit, Range: model.Range{Min: 300, Max: 380}},
			{Name: "fee", Range: model.Range{Min: 380, Max: 420}, Numeric: true},
		},
	}
}

func TestLoadFile(t *testing.T) {
	reg, err := LoadFile("testdata/profiles.yaml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Expected 3 profiles, got %d", reg.Len())
	}
	want := []string{"amex", "bbva", "td"}
	for i, name := range reg.Names() {
		if name != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, name)
		}
	}

	p, err := reg.Get("bbva")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(p.Columns) != 6 {
		t.Errorf("Expected 6 columns, got %d", len(p.Columns))
	}
	if p.Columns[3].Name != ColumnDebit || p.Columns[3].Range.Min != 330 {
		t.Errorf("Unexpected debit column: %+v", p.Columns[3])
	}
	if p.RowTolerance != 2.5 {
		t.Errorf("Expected row tolerance 2.5, got %f", p.RowTolerance)
	}
	if !p.RestrictDatesToColumn {
		t.Error("Expected RestrictDatesToColumn")
	}
	if len(p.OCRColumns) != 6 {
		t.Errorf("Expected 6 OCR columns, got %d", len(p.OCRColumns))
	}
	if len(p.Controls) != 3 || p.Controls[2].Kind != ControlLast {
		t.Errorf("Unexpected controls: %+v", p.Controls)
	}
	if len(p.Headings) != 5 || p.Headings[1] != "Rendimiento" {
		t.Errorf("Unexpected headings: %v", p.Headings)
	}

	c, err := p.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if c.Reference == nil || c.Reference.FindString("SPEI ENVIADO Ref. 0123456 BANORTE") != "Ref. 0123456" {
		t.Errorf("Expected the reference pattern to match 'Ref. 0123456'")
	}

	amex, err := reg.Get("amex")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(amex.TotalColumns) != 1 || amex.TotalColumns[0] != ColumnAmount {
		t.Errorf("Expected total columns [amount], got %v", amex.TotalColumns)
	}
}

func TestLoadReader_JSON(t *testing.T) {
	input := `{"profiles": {"simple": {"columns": [{"name": "date", "min": 0, "max": 50}, {"name": "amount", "min": 50, "max": 100}]}}}`
	reg, err := LoadReader(strings.NewReader(input), "json")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	p, err := reg.Get("simple")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got := p.NumericColumns(); len(got) != 1 || got[0] != ColumnAmount {
		t.Errorf("Expected [amount], got %v", got)
	}
}

func TestLoadReader_NoProfiles(t *testing.T) {
	_, err := LoadReader(strings.NewReader(`other: 1`), "yaml")
	if !errors.Is(err, ErrNoProfile) {
		t.Errorf("Expected ErrNoProfile, got %v", err)
	}
}

func TestLoadReader_UnknownGrammar(t *testing.T) {
	input := "profiles:\n  x:\n    date_grammar: lunar\n    columns:\n      - {name: date, min: 0, max: 10}\n"
	_, err := LoadReader(strings.NewReader(input), "yaml")
	if !errors.Is(err, grammar.ErrUnknownGrammar) {
		t.Errorf("Expected ErrUnknownGrammar, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr bool
	}{
		{"valid", func(p *Profile) {}, false},
		{"no name", func(p *Profile) { p.Name = "" }, true},
		{"no columns", func(p *Profile) { p.Columns = nil }, true},
		{"duplicate column", func(p *Profile) { p.Columns[1].Name = ColumnDate }, true},
		{"bad skip pattern", func(p *Profile) { p.SkipPatterns = []string{"("} }, true},
		{"sum without column", func(p *Profile) {
			p.Controls = []Control{{Concept: "x", Kind: ControlSum}}
		}, true},
		{"unknown control kind", func(p *Profile) {
			p.Controls = []Control{{Concept: "x", Kind: "avg", Column: "debit"}}
		}, true},
		{"bad reference pattern", func(p *Profile) { p.ReferencePattern = "(" }, true},
		{"total column not numeric", func(p *Profile) { p.TotalColumns = []string{ColumnDescription} }, true},
		{"total column missing", func(p *Profile) { p.TotalColumns = []string{"credit"} }, true},
		{"total column numeric", func(p *Profile) { p.TotalColumns = []string{"fee"} }, false},
		{"count control", func(p *Profile) {
			p.Controls = []Control{{Concept: "n", Kind: ControlCount}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := makeProfile()
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestColumn_IsNumeric(t *testing.T) {
	p := makeProfile()
	got := p.NumericColumns()
	if len(got) != 2 || got[0] != ColumnDebit || got[1] != "fee" {
		t.Errorf("Expected [debit fee], got %v", got)
	}
}

func TestColumnsFor(t *testing.T) {
	p := makeProfile()
	if cols := p.ColumnsFor(true); len(cols) != 4 {
		t.Errorf("Expected digital columns without OCR set, got %d", len(cols))
	}
	p.OCRColumns = []Column{{Name: ColumnDate, Range: model.Range{Min: 0, Max: 250}}}
	if cols := p.ColumnsFor(true); len(cols) != 1 {
		t.Errorf("Expected OCR columns, got %d", len(cols))
	}
	if cols := p.ColumnsFor(false); len(cols) != 4 {
		t.Errorf("Expected digital columns, got %d", len(cols))
	}
}

func TestTolerance(t *testing.T) {
	p := makeProfile()
	if p.Tolerance() != DefaultRowTolerance {
		t.Errorf("Expected default tolerance, got %f", p.Tolerance())
	}
	p.RowTolerance = 5
	if p.Tolerance() != 5 {
		t.Errorf("Expected 5, got %f", p.Tolerance())
	}
}

func TestCompiled_SkipAndExclude(t *testing.T) {
	p := makeProfile()
	p.SkipPatterns = []string{"estimado cliente"}
	p.ExcludeFromTotals = []string{"^SALDO ANTERIOR"}
	c, err := p.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !c.Skipped("ESTIMADO CLIENTE: le informamos") {
		t.Error("Expected boilerplate row to be skipped")
	}
	if c.Skipped("01/JUN SPEI RECIBIDO") {
		t.Error("Expected transaction row not to be skipped")
	}
	if !c.Excluded("Saldo anterior") {
		t.Error("Expected opening balance to be excluded")
	}
	if c.Dates.Name() != grammar.DayMonth {
		t.Errorf("Expected default date grammar, got %s", c.Dates.Name())
	}
}

func TestDetect(t *testing.T) {
	reg, err := LoadFile("testdata/profiles.yaml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"BBVA México, S.A. ESTADO DE CUENTA MAESTRA", "bbva"},
		{"Your TD Canada Trust statement", "td"},
		{"AMERICAN EXPRESS Platinum", "amex"},
	}
	for _, tt := range tests {
		p, err := reg.Detect(tt.text)
		if err != nil {
			t.Errorf("Detect(%q) failed: %v", tt.text, err)
			continue
		}
		if p.Name != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.text, p.Name, tt.want)
		}
	}

	if _, err := reg.Detect("Unknown Credit Union"); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Expected ErrNoProfile, got %v", err)
	}
}

func TestInTotal(t *testing.T) {
	p := makeProfile()
	if !p.InTotal(ColumnDebit) || p.InTotal(ColumnBalance) {
		t.Error("Expected debit summed and balance left out by default")
	}

	p.TotalColumns = []string{ColumnBalance}
	if p.InTotal(ColumnDebit) || !p.InTotal(ColumnBalance) {
		t.Error("Expected only the configured columns summed")
	}
}
