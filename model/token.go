package model

import "strings"

// Token is a positioned text fragment. Coordinates are top-down page units
// (points for digital text layers, pixels or converted points for OCR).
type Token struct {
	Text   string
	X0, X1 float64
	Top    float64
	Bottom float64
	Page   int

	// LineHint is the recognizer's line index, set only for OCR tokens.
	LineHint *int

	// Confidence is the recognizer's word confidence (0-100), set only for
	// OCR tokens.
	Confidence *float64
}

// NewToken creates a token from its text and box.
func NewToken(text string, x0, top, x1, bottom float64, page int) Token {
	return Token{Text: text, X0: x0, X1: x1, Top: top, Bottom: bottom, Page: page}
}

// Normalized returns a copy with X0 <= X1 and Top <= Bottom.
func (t Token) Normalized() Token {
	if t.X0 > t.X1 {
		t.X0, t.X1 = t.X1, t.X0
	}
	if t.Top > t.Bottom {
		t.Top, t.Bottom = t.Bottom, t.Top
	}
	return t
}

// BBox returns the token's bounding box.
func (t Token) BBox() BBox {
	return BBox{X0: t.X0, Top: t.Top, X1: t.X1, Bottom: t.Bottom}
}

// CenterX returns the horizontal center of the token.
func (t Token) CenterX() float64 {
	return (t.X0 + t.X1) / 2
}

// Height returns the vertical extent of the token.
func (t Token) Height() float64 {
	n := t.Normalized()
	return n.Bottom - n.Top
}

// IsOCR reports whether the token came from a recognizer.
func (t Token) IsOCR() bool {
	return t.Confidence != nil
}

// IsBlank reports whether the token carries no visible text.
func (t Token) IsBlank() bool {
	return strings.TrimSpace(t.Text) == ""
}

// WithText returns a copy of the token carrying different text.
func (t Token) WithText(text string) Token {
	t.Text = text
	return t
}

// Slice returns a copy covering the byte span [start, end) of the token's
// text, with the horizontal extent estimated proportionally to the span.
func (t Token) Slice(start, end int) Token {
	n := t.Normalized()
	total := len(n.Text)
	if total == 0 || start <= 0 && end >= total {
		return n
	}
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	w := n.X1 - n.X0
	out := n
	out.Text = n.Text[start:end]
	out.X0 = n.X0 + w*float64(start)/float64(total)
	out.X1 = n.X0 + w*float64(end)/float64(total)
	return out
}

// SpanCenter estimates the horizontal center of the byte span [start, end)
// of the token's text.
func (t Token) SpanCenter(start, end int) float64 {
	return t.Slice(start, end).CenterX()
}

// Float returns a pointer to v, for optional Token fields.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for optional Token fields.
func Int(v int) *int {
	return &v
}
