package model

import (
	"sort"
	"strings"
)

// RowGroup is an ordered set of tokens believed to share one visual table
// line.
type RowGroup struct {
	Tokens []Token
	Top    float64 // Top of the first token in the row
	Page   int
}

// NewRowGroup creates a row group anchored on its first token.
func NewRowGroup(tokens []Token) RowGroup {
	if len(tokens) == 0 {
		return RowGroup{}
	}
	return RowGroup{Tokens: tokens, Top: tokens[0].Normalized().Top, Page: tokens[0].Page}
}

// Len returns the number of tokens in the row.
func (r RowGroup) Len() int {
	return len(r.Tokens)
}

// SortedByX returns the row's tokens ordered left to right. Ties keep
// their original order.
func (r RowGroup) SortedByX() []Token {
	out := make([]Token, len(r.Tokens))
	for i, t := range r.Tokens {
		out[i] = t.Normalized()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X0 < out[j].X0
	})
	return out
}

// Text returns the row's token texts joined left to right.
func (r RowGroup) Text() string {
	tokens := r.SortedByX()
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Bottom returns the lowest bottom edge among the row's tokens.
func (r RowGroup) Bottom() float64 {
	bottom := r.Top
	for _, t := range r.Tokens {
		if n := t.Normalized(); n.Bottom > bottom {
			bottom = n.Bottom
		}
	}
	return bottom
}
