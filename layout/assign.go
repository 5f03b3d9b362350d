package layout

import (
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/profile"
)

// ColumnAssigner maps horizontal positions to the semantic columns of a
// layout profile.
//
// Numeric columns take priority: among the numeric ranges containing a
// center, the one whose midpoint is nearest wins, and an exact tie goes to
// the column configured first. Only when no numeric range contains the
// center is the first containing non-numeric column used.
type ColumnAssigner struct {
	columns []profile.Column
}

// NewColumnAssigner creates an assigner over cols. Inverted ranges are
// normalized.
func NewColumnAssigner(cols []profile.Column) *ColumnAssigner {
	normalized := make([]profile.Column, len(cols))
	for i, c := range cols {
		c.Range = c.Range.Normalized()
		normalized[i] = c
	}
	return &ColumnAssigner{columns: normalized}
}

// Columns returns the assigner's columns in configuration order.
func (a *ColumnAssigner) Columns() []profile.Column {
	return a.columns
}

// Assign returns the column of the token's horizontal center.
func (a *ColumnAssigner) Assign(t model.Token) (string, bool) {
	return a.AssignX(t.Normalized().CenterX())
}

// AssignX returns the column for a horizontal center c.
func (a *ColumnAssigner) AssignX(c float64) (string, bool) {
	best := -1
	bestDist := 0.0
	for i, col := range a.columns {
		if !col.IsNumeric() || !col.Range.Contains(c) {
			continue
		}
		dist := col.Range.DistanceToMid(c)
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return a.columns[best].Name, true
	}

	for _, col := range a.columns {
		if !col.IsNumeric() && col.Range.Contains(c) {
			return col.Name, true
		}
	}
	return "", false
}

// Column returns the named column.
func (a *ColumnAssigner) Column(name string) (profile.Column, bool) {
	for _, c := range a.columns {
		if c.Name == name {
			return c, true
		}
	}
	return profile.Column{}, false
}

// Range returns the named column's range.
func (a *ColumnAssigner) Range(name string) (model.Range, bool) {
	c, ok := a.Column(name)
	return c.Range, ok
}

// IsNumeric reports whether the named column holds amounts.
func (a *ColumnAssigner) IsNumeric(name string) bool {
	c, ok := a.Column(name)
	return ok && c.IsNumeric()
}

// Numeric returns the numeric columns in configuration order.
func (a *ColumnAssigner) Numeric() []profile.Column {
	var out []profile.Column
	for _, c := range a.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}
