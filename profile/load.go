package profile

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/viper"

	"github.com/tsawler/ledgerscan/model"
)

type columnConfig struct {
	Name    string  `mapstructure:"name"`
	Min     float64 `mapstructure:"min"`
	Max     float64 `mapstructure:"max"`
	Numeric bool    `mapstructure:"numeric"`
}

type controlConfig struct {
	Concept string `mapstructure:"concept"`
	Kind    string `mapstructure:"kind"`
	Column  string `mapstructure:"column"`
	Label   string `mapstructure:"label"`
}

type profileConfig struct {
	Columns               []columnConfig  `mapstructure:"columns"`
	OCRColumns            []columnConfig  `mapstructure:"ocr_columns"`
	StartMarker           string          `mapstructure:"start_marker"`
	EndMarker             string          `mapstructure:"end_marker"`
	DateGrammar           string          `mapstructure:"date_grammar"`
	AmountGrammar         string          `mapstructure:"amount_grammar"`
	RowTolerance          float64         `mapstructure:"row_tolerance"`
	RestrictDatesToColumn bool            `mapstructure:"restrict_dates_to_column"`
	SkipPatterns          []string        `mapstructure:"skip_patterns"`
	ExcludeFromTotals     []string        `mapstructure:"exclude_from_totals"`
	Controls              []controlConfig `mapstructure:"controls"`
	Keywords              []string        `mapstructure:"keywords"`
	Headings              []string        `mapstructure:"headings"`
	ReferencePattern      string          `mapstructure:"reference_pattern"`
	TotalColumns          []string        `mapstructure:"total_columns"`
}

// LoadFile reads every profile in a YAML, JSON or TOML file. The format is
// taken from the file extension.
func LoadFile(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}
	return fromViper(v)
}

// LoadReader reads profiles from r in the given format ("yaml", "json" or
// "toml").
func LoadReader(r io.Reader, format string) (*Registry, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Registry, error) {
	var raw map[string]profileConfig
	if err := v.UnmarshalKey("profiles", &raw); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("profiles file defines no profiles: %w", ErrNoProfile)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	reg := NewRegistry()
	for _, name := range names {
		p := raw[name].toProfile(name)
		if err := reg.Add(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (c profileConfig) toProfile(name string) *Profile {
	p := &Profile{
		Name:                  name,
		Columns:               toColumns(c.Columns),
		OCRColumns:            toColumns(c.OCRColumns),
		StartMarker:           c.StartMarker,
		EndMarker:             c.EndMarker,
		DateGrammar:           c.DateGrammar,
		AmountGrammar:         c.AmountGrammar,
		RowTolerance:          c.RowTolerance,
		RestrictDatesToColumn: c.RestrictDatesToColumn,
		SkipPatterns:          c.SkipPatterns,
		ExcludeFromTotals:     c.ExcludeFromTotals,
		Keywords:              c.Keywords,
		Headings:              c.Headings,
		ReferencePattern:      c.ReferencePattern,
		TotalColumns:          c.TotalColumns,
	}
	for _, ctl := range c.Controls {
		p.Controls = append(p.Controls, Control{
			Concept: ctl.Concept,
			Kind:    ctl.Kind,
			Column:  ctl.Column,
			Label:   ctl.Label,
		})
	}
	return p
}

func toColumns(cols []columnConfig) []Column {
	if len(cols) == 0 {
		return nil
	}
	out := make([]Column, len(cols))
	for i, c := range cols {
		// Ranges are kept as configured; consumers normalize them.
		out[i] = Column{Name: c.Name, Range: model.Range{Min: c.Min, Max: c.Max}, Numeric: c.Numeric}
	}
	return out
}
