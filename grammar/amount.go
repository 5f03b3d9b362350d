package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount grammar names accepted by AmountByName.
const (
	StandardAmount = "standard"
	CurrencyAmount = "currency"
)

// AmountGrammar recognizes monetary amounts.
type AmountGrammar interface {
	// Name returns the grammar name used in layout profiles.
	Name() string

	// FindAll returns every amount in text. Match.Text holds the signed
	// number without any currency marker; Start and End cover the whole
	// printed span, marker included.
	FindAll(text string) []Match

	// WellFormed reports whether the whole of text, trimmed, is one amount.
	WellFormed(text string) bool

	// RequiresMarker reports whether the grammar only accepts amounts
	// printed with a currency marker.
	RequiresMarker() bool
}

type amountGrammar struct {
	name   string
	re     *regexp.Regexp
	marker bool
}

// The number group is either properly grouped thousands or a plain digit
// run, followed by a two-digit decimal part.
const amountNumber = `(?:\d{1,3}(?:[.,]\d{3})+|\d+)[.,]\d{2}`

// NewStandardAmount returns the grammar for plain grouped decimals, with an
// optional sign and currency marker: "1,234.56", "-45.00", "$ 12.00".
func NewStandardAmount() AmountGrammar {
	return &amountGrammar{
		name: StandardAmount,
		re:   regexp.MustCompile(`(-)?(\$\s?)?(-)?(` + amountNumber + `)`),
	}
}

// NewCurrencyAmount returns the grammar that requires a "$" marker:
// "$1,234.56", "-$45.00".
func NewCurrencyAmount() AmountGrammar {
	return &amountGrammar{
		name:   CurrencyAmount,
		re:     regexp.MustCompile(`(-)?(\$\s?)(-)?(` + amountNumber + `)`),
		marker: true,
	}
}

// AmountByName returns the amount grammar registered under name.
func AmountByName(name string) (AmountGrammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StandardAmount, "":
		return NewStandardAmount(), nil
	case CurrencyAmount:
		return NewCurrencyAmount(), nil
	default:
		return nil, fmt.Errorf("amount grammar %q: %w", name, ErrUnknownGrammar)
	}
}

func (g *amountGrammar) Name() string { return g.name }

func (g *amountGrammar) RequiresMarker() bool { return g.marker }

func (g *amountGrammar) FindAll(text string) []Match {
	var out []Match
	for _, loc := range g.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		// Part of a longer digit run: "45.001" or "12345.67" seen from
		// the middle.
		if end < len(text) && isDigit(text[end]) {
			continue
		}
		if end+1 < len(text) && (text[end] == '.' || text[end] == ',') && isDigit(text[end+1]) {
			continue
		}
		if start > 0 && (isDigit(text[start-1]) || text[start-1] == '.' || text[start-1] == ',') {
			continue
		}
		number := text[loc[8]:loc[9]]
		if loc[2] >= 0 || loc[6] >= 0 {
			number = "-" + number
		}
		out = append(out, Match{Text: number, Start: start, End: end})
	}
	return out
}

func (g *amountGrammar) WellFormed(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	matches := g.FindAll(trimmed)
	return len(matches) == 1 && matches[0].Start == 0 && matches[0].End == len(trimmed)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Strip removes every amount found by g from text and collapses the
// whitespace left behind. Amounts listed in keep are left in place.
func Strip(g AmountGrammar, text string, keep ...string) string {
	matches := g.FindAll(text)
	if len(matches) == 0 {
		return strings.Join(strings.Fields(text), " ")
	}
	kept := make(map[string]int, len(keep))
	for _, k := range keep {
		kept[k]++
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		if kept[m.Text] > 0 {
			kept[m.Text]--
			continue
		}
		sb.WriteString(text[last:m.Start])
		sb.WriteByte(' ')
		last = m.End
	}
	sb.WriteString(text[last:])
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ParseAmount converts printed amount text to a decimal. The separator
// followed by exactly two trailing digits is the decimal separator; any
// other '.', ',', space or currency marker is dropped. A leading or
// trailing '-' makes the value negative.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	negative := false
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		negative = true
		s = strings.Trim(s, "-")
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	s = strings.NewReplacer("$", "", " ", "", "\u00a0", "").Replace(s)
	s = strings.TrimPrefix(s, "-")

	if len(s) >= 3 && (s[len(s)-3] == '.' || s[len(s)-3] == ',') {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:len(s)-3])
		s = intPart + "." + s[len(s)-2:]
	} else {
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", text, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
