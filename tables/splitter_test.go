package tables

import (
	"sort"
	"strings"
	"testing"

	"github.com/tsawler/ledgerscan/model"
)

func makeSplitter(t *testing.T, restrict bool) *Splitter {
	t.Helper()
	p := makeProfile()
	p.RestrictDatesToColumn = restrict
	c, cols := makeCompiled(t, p)
	return NewSplitter(c, cols, DefaultSplitConfig(), nil)
}

func partTexts(parts []model.RowGroup) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Text()
	}
	return out
}

func TestSplitter_NoCuts(t *testing.T) {
	s := makeSplitter(t, false)
	row := makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("GROCERY STORE", 100, 100),
		makeTokenAt("45.00", 320, 360, 100),
	)
	parts := s.Split(row)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(parts))
	}
	if parts[0].Len() != 3 {
		t.Errorf("Expected the original row, got %d tokens", parts[0].Len())
	}
}

func TestSplitter_MultiDateToken(t *testing.T) {
	s := makeSplitter(t, false)
	stacked := model.NewToken("15 JAN 16 JAN", 20, 100, 60, 116, 1)
	row := makeRow(
		stacked,
		makeToken("GROCERY", 100, 100),
		makeToken("FUEL", 100, 108),
		makeTokenAt("45.00", 320, 360, 100),
		makeTokenAt("30.00", 320, 360, 108),
	)

	parts := s.Split(row)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d: %v", len(parts), partTexts(parts))
	}
	want := []string{"15 JAN GROCERY 45.00", "16 JAN FUEL 30.00"}
	for i, got := range partTexts(parts) {
		if got != want[i] {
			t.Errorf("Part %d: expected %q, got %q", i, want[i], got)
		}
	}
	if parts[1].Top != 108 {
		t.Errorf("Expected second part top 108, got %f", parts[1].Top)
	}
}

func TestSplitter_DatesAtDistinctTops(t *testing.T) {
	s := makeSplitter(t, false)
	row := makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("GROCERY", 100, 100),
		makeToken("16 JAN", 20, 102.5),
		makeToken("FUEL", 100, 102.5),
	)
	parts := s.Split(row)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(parts))
	}
	if parts[0].Text() != "15 JAN GROCERY" || parts[1].Text() != "16 JAN FUEL" {
		t.Errorf("Unexpected parts: %v", partTexts(parts))
	}
}

func TestSplitter_SameTopDatesDoNotSplit(t *testing.T) {
	s := makeSplitter(t, false)
	row := makeRow(
		makeToken("01/JUN", 20, 100),
		makeToken("02/JUN", 75, 100),
		makeToken("SPEI RECIBIDO", 120, 100),
	)
	if parts := s.Split(row); len(parts) != 1 {
		t.Errorf("Expected 1 part, got %d", len(parts))
	}
}

func TestSplitter_RestrictDatesToColumn(t *testing.T) {
	row := makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("TRANSFER", 100, 100),
		makeToken("REF 16 JAN", 100, 102.5),
	)

	if parts := makeSplitter(t, false).Split(row); len(parts) != 2 {
		t.Errorf("Expected unrestricted split into 2 parts, got %d", len(parts))
	}
	if parts := makeSplitter(t, true).Split(row); len(parts) != 1 {
		t.Errorf("Expected restricted splitter to keep 1 part, got %d", len(parts))
	}
}

func TestSplitter_StackedAmounts(t *testing.T) {
	s := makeSplitter(t, false)
	row := makeRow(
		makeToken("A", 100, 100),
		makeToken("B", 100, 108),
		model.NewToken("45.00 30.00", 310, 100, 370, 116, 1),
	)
	parts := s.Split(row)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d: %v", len(parts), partTexts(parts))
	}
	if parts[0].Text() != "A 45.00" || parts[1].Text() != "B 30.00" {
		t.Errorf("Unexpected parts: %v", partTexts(parts))
	}
}

func TestSplitter_AmountEpsilon(t *testing.T) {
	s := makeSplitter(t, false)

	close := makeRow(
		makeTokenAt("45.00", 310, 350, 100),
		makeTokenAt("30.00", 320, 360, 100.5),
	)
	if parts := s.Split(close); len(parts) != 1 {
		t.Errorf("Expected amounts within epsilon to stay together, got %d parts", len(parts))
	}

	apart := makeRow(
		makeTokenAt("45.00", 310, 350, 100),
		makeTokenAt("30.00", 320, 360, 102),
	)
	if parts := s.Split(apart); len(parts) != 2 {
		t.Errorf("Expected 2 parts, got %d", len(parts))
	}

	// Amounts in different numeric columns at different tops are a
	// debit and a balance, not two records.
	columns := makeRow(
		makeTokenAt("45.00", 310, 350, 100),
		makeTokenAt("955.00", 480, 530, 102),
	)
	if parts := s.Split(columns); len(parts) != 1 {
		t.Errorf("Expected 1 part, got %d", len(parts))
	}
}

func TestSplitter_DateSignalWins(t *testing.T) {
	s := makeSplitter(t, false)
	row := makeRow(
		makeToken("15 JAN", 20, 100),
		makeToken("16 JAN", 20, 102.5),
		makeTokenAt("45.00", 310, 350, 100),
		makeTokenAt("30.00", 310, 350, 101.8),
	)
	parts := s.Split(row)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(parts))
	}
	// The date cut sits at 102.0, so the amount at 101.8 stays with the
	// first date.
	if parts[0].Len() != 3 {
		t.Errorf("Expected 3 tokens in first part, got %d: %v", parts[0].Len(), partTexts(parts))
	}
}

func TestSplitter_TokensPreserved(t *testing.T) {
	s := makeSplitter(t, false)
	stacked := model.NewToken("15 JAN 16 JAN 17 JAN", 15, 100, 68, 124, 1)
	row := makeRow(
		stacked,
		makeToken("A", 100, 100),
		makeToken("B", 100, 108),
		makeToken("C", 100, 116),
	)
	parts := s.Split(row)
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d: %v", len(parts), partTexts(parts))
	}

	var pieces []string
	count := 0
	for _, p := range parts {
		for _, tok := range p.Tokens {
			count++
			if tok.X0 == stacked.X0 {
				pieces = append(pieces, tok.Text)
			}
		}
	}
	if count != 6 {
		t.Errorf("Expected 6 tokens after split, got %d", count)
	}
	if got := strings.Join(pieces, ""); got != stacked.Text {
		t.Errorf("Expected virtual tokens to partition %q, got %q", stacked.Text, got)
	}
}

func TestCutsFromTops(t *testing.T) {
	cuts := cutsFromTops([]float64{110, 100, 100.005, 120}, 0.01, 0.5)
	want := []float64{109.5, 119.5}
	if len(cuts) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cuts)
	}
	sort.Float64s(cuts)
	for i := range want {
		if cuts[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, cuts)
		}
	}
	if cuts := cutsFromTops([]float64{100}, 0.01, 0.5); cuts != nil {
		t.Errorf("Expected no cuts for a single top, got %v", cuts)
	}
}
