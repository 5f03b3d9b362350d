package tables

import (
	"testing"

	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// makeProfile returns a statement layout with date, description, debit,
// credit and balance columns.
func makeProfile() *profile.Profile {
	return &profile.Profile{
		Name: "test",
		Columns: []profile.Column{
			{Name: profile.ColumnDate, Range: model.Range{Min: 10, Max: 70}},
			{Name: profile.ColumnDescription, Range: model.Range{Min: 70, Max: 300}},
			{Name: profile.ColumnDebit, Range: model.Range{Min: 300, Max: 380}},
			{Name: profile.ColumnCredit, Range: model.Range{Min: 380, Max: 460}},
			{Name: profile.ColumnBalance, Range: model.Range{Min: 460, Max: 560}},
		},
	}
}

func makeCompiled(t *testing.T, p *profile.Profile) (*profile.Compiled, *layout.ColumnAssigner) {
	t.Helper()
	c, err := p.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return c, layout.NewColumnAssigner(p.Columns)
}

// makeToken creates a token of 8 units height whose width is 5 units per
// byte of text.
func makeToken(text string, x0, top float64) model.Token {
	return model.NewToken(text, x0, top, x0+float64(len(text))*5, top+8, 1)
}

// makeTokenAt creates a token with an explicit horizontal extent.
func makeTokenAt(text string, x0, x1, top float64) model.Token {
	return model.NewToken(text, x0, top, x1, top+8, 1)
}

func makeRow(tokens ...model.Token) model.RowGroup {
	return model.NewRowGroup(tokens)
}
