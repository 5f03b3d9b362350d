package source

import (
	"regexp"
	"strings"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// CorrectionContext describes where a recognized token sits.
type CorrectionContext struct {
	// Column is the assigned column name, empty when the token falls
	// outside every column.
	Column string

	Numeric bool

	Amounts grammar.AmountGrammar
}

// Corrector repairs a recognized token's text.
type Corrector interface {
	Correct(text string, ctx CorrectionContext) string
}

// CorrectorFunc adapts a function to the Corrector interface.
type CorrectorFunc func(text string, ctx CorrectionContext) string

// Correct calls f.
func (f CorrectorFunc) Correct(text string, ctx CorrectionContext) string {
	return f(text, ctx)
}

// Chain applies correctors in order.
type Chain []Corrector

// Correct runs every corrector on the output of the previous one.
func (c Chain) Correct(text string, ctx CorrectionContext) string {
	for _, corrector := range c {
		text = corrector.Correct(text, ctx)
	}
	return text
}

// DefaultCorrectors returns the standard post-recognition chain.
func DefaultCorrectors() Chain {
	return Chain{
		CorrectorFunc(FixConfusables),
		CorrectorFunc(FixDecimalPoint),
		CorrectorFunc(FixCurrencyMarker),
	}
}

var (
	semicolonPoint = regexp.MustCompile(`(\d);(\s*)(\d)`)
	colonPoint     = regexp.MustCompile(`(\d):(\d)`)
	trailingColon  = regexp.MustCompile(`(\d)[:;]$`)
)

// FixDecimalPoint repairs a decimal point read as ";" or ":" inside
// numbers in numeric columns: "1,234;56" becomes "1,234.56".
func FixDecimalPoint(text string, ctx CorrectionContext) string {
	if !ctx.Numeric {
		return text
	}
	text = semicolonPoint.ReplaceAllString(text, "$1.$3")
	text = colonPoint.ReplaceAllString(text, "$1.$2")
	return trailingColon.ReplaceAllString(text, "$1")
}

var confusables = strings.NewReplacer(
	"O", "0", "o", "0",
	"l", "1", "I", "1",
	"S", "5",
	"B", "8",
)

// FixConfusables replaces letters commonly read for digits (O, l, I, S, B)
// in numeric-column tokens that already hold a digit and are only digits,
// separators and signs once replaced. Separators misread as ";" or ":"
// are left for FixDecimalPoint.
func FixConfusables(text string, ctx CorrectionContext) string {
	if !ctx.Numeric || !strings.ContainsAny(text, "0123456789") {
		return text
	}
	// A leading S may be a misread marker; leave it to FixCurrencyMarker.
	prefix := ""
	if ctx.Amounts != nil && ctx.Amounts.RequiresMarker() && strings.HasPrefix(text, "S") {
		prefix, text = "S", text[1:]
	}
	fixed := confusables.Replace(text)
	if strings.Trim(fixed, "0123456789.,;:-$ ") != "" {
		return prefix + text
	}
	return prefix + fixed
}

// FixCurrencyMarker replaces a leading 8, 5 or S with "$" when the amount
// grammar requires a marker and only the replaced text is an amount.
func FixCurrencyMarker(text string, ctx CorrectionContext) string {
	if !ctx.Numeric || ctx.Amounts == nil || !ctx.Amounts.RequiresMarker() {
		return text
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || ctx.Amounts.WellFormed(trimmed) {
		return text
	}

	sign := ""
	if strings.HasPrefix(trimmed, "-") {
		sign, trimmed = "-", trimmed[1:]
	}
	if trimmed == "" || !strings.ContainsRune("85S", rune(trimmed[0])) {
		return text
	}
	candidate := sign + "$" + trimmed[1:]
	if ctx.Amounts.WellFormed(candidate) {
		return candidate
	}
	return text
}

// ColumnCorrector applies a corrector chain to tokens with the context of
// the column each token falls in.
type ColumnCorrector struct {
	assigner *layout.ColumnAssigner
	amounts  grammar.AmountGrammar
	chain    Corrector
}

// NewColumnCorrector creates a corrector over cols. A nil chain uses
// DefaultCorrectors.
func NewColumnCorrector(cols []profile.Column, amounts grammar.AmountGrammar, chain Corrector) *ColumnCorrector {
	if chain == nil {
		chain = DefaultCorrectors()
	}
	return &ColumnCorrector{
		assigner: layout.NewColumnAssigner(cols),
		amounts:  amounts,
		chain:    chain,
	}
}

// Apply returns corrected copies of tokens.
func (c *ColumnCorrector) Apply(tokens []model.Token) []model.Token {
	out := make([]model.Token, len(tokens))
	for i, t := range tokens {
		ctx := CorrectionContext{Amounts: c.amounts}
		if name, ok := c.assigner.Assign(t); ok {
			ctx.Column = name
			ctx.Numeric = c.assigner.IsNumeric(name)
		}
		out[i] = t.WithText(c.chain.Correct(t.Text, ctx))
	}
	return out
}
