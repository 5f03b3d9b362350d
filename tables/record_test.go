package tables

import (
	"testing"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

func makeExtractor(t *testing.T, p *profile.Profile) *RecordExtractor {
	t.Helper()
	c, cols := makeCompiled(t, p)
	return NewRecordExtractor(c, cols)
}

func TestRecordExtractor_Basic(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("GROCERY STORE", 100, 100),
		makeTokenAt("45.00", 320, 360, 100),
		makeTokenAt("955.00", 490, 530, 100),
	))

	if rec.Date != "15 JAN" {
		t.Errorf("Expected date '15 JAN', got %q", rec.Date)
	}
	if !x.Dated(rec) {
		t.Error("Expected record to be dated")
	}
	if rec.Description != "GROCERY STORE" {
		t.Errorf("Expected description 'GROCERY STORE', got %q", rec.Description)
	}
	if rec.Amounts["debit"] != "45.00" {
		t.Errorf("Expected debit 45.00, got %q", rec.Amounts["debit"])
	}
	if rec.Amounts["balance"] != "955.00" {
		t.Errorf("Expected balance 955.00, got %q", rec.Amounts["balance"])
	}
	if len(rec.RawAmounts) != 2 {
		t.Fatalf("Expected 2 raw amounts, got %d", len(rec.RawAmounts))
	}
	if rec.RawAmounts[0].Center != 340 {
		t.Errorf("Expected center 340, got %f", rec.RawAmounts[0].Center)
	}
}

func TestRecordExtractor_DateFromTwoTokens(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(
		makeTokenAt("15", 20, 32, 100),
		makeTokenAt("JAN", 35, 55, 100),
		makeToken("RENT", 100, 100),
	))
	if rec.Date != "15 JAN" {
		t.Errorf("Expected date '15 JAN', got %q", rec.Date)
	}
	if rec.Description != "RENT" {
		t.Errorf("Expected description 'RENT', got %q", rec.Description)
	}
}

func TestRecordExtractor_DateFromFragments(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(
		makeTokenAt("0", 14, 18, 100),
		makeTokenAt("1/", 19, 26, 100),
		makeTokenAt("J", 28, 32, 100),
		makeTokenAt("UN", 33, 42, 100),
		makeToken("SPEI RECIBIDO", 100, 100),
	))
	if rec.Date != "01/JUN" {
		t.Errorf("Expected date '01/JUN', got %q", rec.Date)
	}
	if rec.Description != "SPEI RECIBIDO" {
		t.Errorf("Expected description 'SPEI RECIBIDO', got %q", rec.Description)
	}
}

func TestRecordExtractor_InlineDate(t *testing.T) {
	p := makeProfile()
	p.Columns = p.Columns[1:] // no date column
	p.Columns[0].Range = model.Range{Min: 0, Max: 300}
	x := makeExtractor(t, p)

	rec := x.Extract(makeRow(
		makeToken("15 JAN GROCERY", 20, 100),
		makeToken("STORE", 120, 100),
		makeTokenAt("45.00", 320, 360, 100),
	))
	if rec.Date != "15 JAN" {
		t.Errorf("Expected date '15 JAN', got %q", rec.Date)
	}
	if rec.Description != "GROCERY STORE" {
		t.Errorf("Expected description 'GROCERY STORE', got %q", rec.Description)
	}
}

func TestRecordExtractor_InlineDateOutsideDateColumn(t *testing.T) {
	tests := []struct {
		name     string
		restrict bool
		grammar  string
		text     string
	}{
		{"date word in description", false, grammar.DayMonth, "12 MAY INVOICE"},
		{"date word with restricted dates", true, grammar.DayMonth, "12 MAY INVOICE"},
		{"day-only quantity", false, grammar.DayOnly, "3 BOXES PAPER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := makeProfile()
			p.RestrictDatesToColumn = tt.restrict
			p.DateGrammar = tt.grammar
			x := makeExtractor(t, p)

			rec := x.Extract(makeRow(makeToken(tt.text, 100, 112)))
			if rec.Date != "" {
				t.Errorf("Expected no date, got %q", rec.Date)
			}
			if rec.Description != tt.text {
				t.Errorf("Expected description %q, got %q", tt.text, rec.Description)
			}
		})
	}
}

func TestRecordExtractor_HyphenatedYear(t *testing.T) {
	p := makeProfile()
	p.DateGrammar = grammar.Hyphenated
	x := makeExtractor(t, p)

	rec := x.Extract(makeRow(
		makeToken("15-JAN-24 CARD PURCHASE", 20, 100),
	))
	if rec.Date != "15-JAN-24" {
		t.Errorf("Expected date '15-JAN-24', got %q", rec.Date)
	}
	if rec.Description != "CARD PURCHASE" {
		t.Errorf("Expected description 'CARD PURCHASE', got %q", rec.Description)
	}
}

func TestRecordExtractor_Undated(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(makeToken("REF 123", 100, 112)))
	if x.Dated(rec) {
		t.Error("Expected record to be undated")
	}
	if rec.Description != "REF 123" {
		t.Errorf("Expected description 'REF 123', got %q", rec.Description)
	}
	if !rec.HasContent() {
		t.Error("Expected record to have content")
	}
}

func TestRecordExtractor_NumericLeftoverJoinsDescription(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("FEE", 100, 100),
		makeTokenAt("12.00 CR", 310, 370, 100),
	))
	if rec.Amounts["debit"] != "12.00" {
		t.Errorf("Expected debit 12.00, got %q", rec.Amounts["debit"])
	}
	if rec.Description != "FEE CR" {
		t.Errorf("Expected description 'FEE CR', got %q", rec.Description)
	}
}

func TestRecordExtractor_NamedFields(t *testing.T) {
	p := makeProfile()
	p.Columns = []profile.Column{
		{Name: profile.ColumnDate, Range: model.Range{Min: 10, Max: 50}},
		{Name: "settlement", Range: model.Range{Min: 50, Max: 90}},
		{Name: profile.ColumnDescription, Range: model.Range{Min: 90, Max: 300}},
		{Name: profile.ColumnDebit, Range: model.Range{Min: 300, Max: 380}},
	}
	x := makeExtractor(t, p)

	rec := x.Extract(makeRow(
		makeTokenAt("01/JUN", 15, 45, 100),
		makeTokenAt("02/JUN", 55, 85, 100),
		makeToken("SPEI RECIBIDO", 100, 100),
	))
	if rec.Date != "01/JUN" {
		t.Errorf("Expected date '01/JUN', got %q", rec.Date)
	}
	if rec.Fields["settlement"] != "02/JUN" {
		t.Errorf("Expected settlement '02/JUN', got %q", rec.Fields["settlement"])
	}
	if rec.Description != "SPEI RECIBIDO" {
		t.Errorf("Expected description 'SPEI RECIBIDO', got %q", rec.Description)
	}
}

func TestRecordExtractor_UnassignedGoesToDescription(t *testing.T) {
	x := makeExtractor(t, makeProfile())
	rec := x.Extract(makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("MARGIN", 600, 100),
	))
	if rec.Description != "MARGIN" {
		t.Errorf("Expected unassigned token in description, got %q", rec.Description)
	}
}

func TestMergeFragments(t *testing.T) {
	got := mergeFragments([]string{"1", "5", "J", "A", "N"})
	if len(got) != 2 || got[0] != "15 JAN" || got[1] != "15JAN" {
		t.Errorf("Unexpected merge: %v", got)
	}
	got = mergeFragments([]string{"1", "5/", "0", "1"})
	if got[0] != "15/01" {
		t.Errorf("Expected '15/01', got %q", got[0])
	}
	if got := mergeFragments([]string{"*"}); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}
