package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
)

// ErrNoProfile is returned when no profile matches a document or a named
// profile does not exist.
var ErrNoProfile = errors.New("no layout profile")

// Well-known column names.
const (
	ColumnDate        = "date"
	ColumnDescription = "description"
	ColumnDebit       = "debit"
	ColumnCredit      = "credit"
	ColumnBalance     = "balance"
	ColumnAmount      = "amount"
	ColumnReference   = "reference"
)

// numericNames are treated as numeric even when the profile does not flag
// them.
var numericNames = map[string]bool{
	ColumnDebit:   true,
	ColumnCredit:  true,
	ColumnBalance: true,
	ColumnAmount:  true,
}

// DefaultRowTolerance is the vertical distance, in page units, within which
// tokens share a row when the profile does not say otherwise.
const DefaultRowTolerance = 3.0

// Column is a named horizontal band of the transaction table.
type Column struct {
	Name    string
	Range   model.Range
	Numeric bool
}

// IsNumeric reports whether the column holds amounts.
func (c Column) IsNumeric() bool {
	return c.Numeric || numericNames[strings.ToLower(c.Name)]
}

// Control kinds.
const (
	ControlSum   = "sum"   // column total over accepted records
	ControlLast  = "last"  // last non-empty value of the column
	ControlCount = "count" // number of accepted records
)

// Control declares one document-level control total: where its declared
// value is printed and how to compute it from the records.
type Control struct {
	Concept string
	Kind    string
	Column  string

	// Label is a regular expression with one capture group around the
	// declared amount, matched against header and footer text.
	Label string
}

// Profile is the layout description of one statement family.
type Profile struct {
	Name string

	// Columns are in configuration order; ranges may overlap.
	Columns []Column

	// OCRColumns replaces Columns on recognizer pages when set. Its
	// ranges are in raster pixels at the source DPI.
	OCRColumns []Column

	StartMarker string
	EndMarker   string

	DateGrammar   string
	AmountGrammar string

	RowTolerance float64

	// RestrictDatesToColumn limits date detection in the row splitter to
	// tokens inside the date column.
	RestrictDatesToColumn bool

	// SkipPatterns are regular expressions for boilerplate rows that are
	// dropped before extraction.
	SkipPatterns []string

	// ExcludeFromTotals are regular expressions over the description of
	// records that do not count toward column totals.
	ExcludeFromTotals []string

	Controls []Control

	// Keywords identify the issuer in first-page text.
	Keywords []string

	// Headings are titles of the summary blocks printed outside the
	// transaction table ("Saldo Promedio", "Rendimiento").
	Headings []string

	// ReferencePattern is a regular expression for a reference embedded in
	// the description. The match moves to the "reference" field.
	ReferencePattern string

	// TotalColumns are the numeric columns summed in the TOTAL row. Empty
	// means every numeric column except the balance.
	TotalColumns []string
}

// Validate checks the profile for structural problems.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile has no name")
	}
	if len(p.Columns) == 0 {
		return fmt.Errorf("profile %q: no columns", p.Name)
	}
	seen := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		if c.Name == "" {
			return fmt.Errorf("profile %q: column with no name", p.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("profile %q: duplicate column %q", p.Name, c.Name)
		}
		seen[c.Name] = true
	}
	if p.RowTolerance < 0 {
		return fmt.Errorf("profile %q: negative row tolerance", p.Name)
	}
	for _, ctl := range p.Controls {
		switch ctl.Kind {
		case ControlSum, ControlLast:
			if ctl.Column == "" {
				return fmt.Errorf("profile %q: control %q needs a column", p.Name, ctl.Concept)
			}
		case ControlCount:
		default:
			return fmt.Errorf("profile %q: control %q has unknown kind %q", p.Name, ctl.Concept, ctl.Kind)
		}
	}
	for _, name := range p.TotalColumns {
		c, ok := p.Column(name)
		if !ok || !c.IsNumeric() {
			return fmt.Errorf("profile %q: total column %q is not a numeric column", p.Name, name)
		}
	}
	_, err := p.Compile()
	return err
}

// InTotal reports whether the TOTAL row sums the named numeric column.
func (p *Profile) InTotal(name string) bool {
	if len(p.TotalColumns) == 0 {
		return name != ColumnBalance
	}
	for _, n := range p.TotalColumns {
		if n == name {
			return true
		}
	}
	return false
}

// ColumnsFor returns the column set to use for a page.
func (p *Profile) ColumnsFor(ocr bool) []Column {
	if ocr && len(p.OCRColumns) > 0 {
		return p.OCRColumns
	}
	return p.Columns
}

// Column returns the named column from the digital column set.
func (p *Profile) Column(name string) (Column, bool) {
	return findColumn(p.Columns, name)
}

func findColumn(cols []Column, name string) (Column, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// NumericColumns returns the names of the numeric columns in configuration
// order.
func (p *Profile) NumericColumns() []string {
	var out []string
	for _, c := range p.Columns {
		if c.IsNumeric() {
			out = append(out, c.Name)
		}
	}
	return out
}

// Tolerance returns the row tolerance, or DefaultRowTolerance when unset.
func (p *Profile) Tolerance() float64 {
	if p.RowTolerance > 0 {
		return p.RowTolerance
	}
	return DefaultRowTolerance
}

// Compiled holds a profile's grammars and patterns ready for matching.
type Compiled struct {
	Profile *Profile
	Dates   grammar.DateGrammar
	Amounts grammar.AmountGrammar
	Skip    []*regexp.Regexp
	Exclude []*regexp.Regexp

	// Reference is nil when the profile has no reference pattern.
	Reference *regexp.Regexp
}

// Compile resolves the profile's grammar names and compiles its patterns.
func (p *Profile) Compile() (*Compiled, error) {
	dates, err := grammar.DateByName(p.DateGrammar)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	amounts, err := grammar.AmountByName(p.AmountGrammar)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	skip, err := compileAll(p.SkipPatterns)
	if err != nil {
		return nil, fmt.Errorf("profile %q: skip pattern: %w", p.Name, err)
	}
	exclude, err := compileAll(p.ExcludeFromTotals)
	if err != nil {
		return nil, fmt.Errorf("profile %q: exclusion pattern: %w", p.Name, err)
	}
	c := &Compiled{Profile: p, Dates: dates, Amounts: amounts, Skip: skip, Exclude: exclude}
	if p.ReferencePattern != "" {
		if c.Reference, err = regexp.Compile(`(?i)` + p.ReferencePattern); err != nil {
			return nil, fmt.Errorf("profile %q: reference pattern: %w", p.Name, err)
		}
	}
	return c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, s := range patterns {
		re, err := regexp.Compile(`(?i)` + s)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Skipped reports whether a row's text matches a boilerplate pattern.
func (c *Compiled) Skipped(text string) bool {
	for _, re := range c.Skip {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Excluded reports whether a record description is excluded from totals.
func (c *Compiled) Excluded(description string) bool {
	for _, re := range c.Exclude {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}
