package model

import (
	"sort"
	"strings"
)

// RawAmount is an amount substring seen while extracting a record, with the
// estimated horizontal center of the text it came from.
type RawAmount struct {
	Text   string
	Center float64
}

// Record is a candidate transaction built from one or more row groups.
type Record struct {
	Date        string
	Description string

	// Amounts maps numeric column names (debit, credit, balance...) to the
	// amount text assigned to them.
	Amounts map[string]string

	// RawAmounts lists every amount substring seen for this record, in
	// document order.
	RawAmounts []RawAmount

	// Fields holds text from other named columns, such as a settlement date
	// or a reference column.
	Fields map[string]string

	// Inline lists amount figures that were deliberately left in the
	// description because they sat inside the description column.
	Inline []string

	Page int
}

// NewRecord creates an empty record for the given page.
func NewRecord(page int) *Record {
	return &Record{
		Amounts: make(map[string]string),
		Fields:  make(map[string]string),
		Page:    page,
	}
}

// HasContent reports whether the record carries any description, field or
// amount content.
func (r *Record) HasContent() bool {
	if strings.TrimSpace(r.Description) != "" || len(r.RawAmounts) > 0 {
		return true
	}
	for _, v := range r.Amounts {
		if v != "" {
			return true
		}
	}
	for _, v := range r.Fields {
		if v != "" {
			return true
		}
	}
	return false
}

// AppendDescription appends text to the description with a single space.
func (r *Record) AppendDescription(text string) {
	r.Description = JoinText(r.Description, text)
}

// AppendField appends text to a named field with a single space.
func (r *Record) AppendField(name, text string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[name] = JoinText(r.Fields[name], text)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	out.Amounts = make(map[string]string, len(r.Amounts))
	for k, v := range r.Amounts {
		out.Amounts[k] = v
	}
	out.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	out.RawAmounts = append([]RawAmount(nil), r.RawAmounts...)
	out.Inline = append([]string(nil), r.Inline...)
	return &out
}

// AmountColumns returns the names of populated amount columns, sorted.
func (r *Record) AmountColumns() []string {
	names := make([]string, 0, len(r.Amounts))
	for k, v := range r.Amounts {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// JoinText joins two text fragments with a single space, collapsing any
// whitespace runs.
func JoinText(a, b string) string {
	return strings.Join(strings.Fields(a+" "+b), " ")
}
