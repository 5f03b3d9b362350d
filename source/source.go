package source

import (
	"context"
	"errors"
	"strings"

	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/model"
)

// ErrFallbackFailed is returned when the digital layer is illegible and OCR
// could not produce pages.
var ErrFallbackFailed = errors.New("OCR fallback failed")

// PointsPerInch converts DPI-based pixel coordinates to points.
const PointsPerInch = 72.0

// Page is one page of tokens.
type Page struct {
	// Number is 1-based.
	Number int

	// RawText is the page text in reading order, one line per row.
	RawText string

	Tokens []model.Token

	// DPI is the raster resolution for OCR pages; zero for digital pages.
	DPI float64

	// OCR reports whether the tokens came from a recognizer.
	OCR bool

	// Pixels reports whether token coordinates are raster pixels at DPI
	// rather than points.
	Pixels bool

	// Width and Height are the page size in the tokens' units.
	Width, Height float64
}

// Source yields the pages of one document in page order.
type Source interface {
	Extract(ctx context.Context) ([]Page, error)
}

// Static serves pages held in memory.
type Static []Page

// Extract returns a copy of the pages.
func (s Static) Extract(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Page, len(s))
	copy(out, s)
	return out, nil
}

// ToPoints converts pixel tokens at dpi to points. A dpi of zero returns
// the tokens unchanged.
func ToPoints(tokens []model.Token, dpi float64) []model.Token {
	if dpi <= 0 {
		return tokens
	}
	out := make([]model.Token, len(tokens))
	for i, t := range tokens {
		t.X0 = pixelsToPoints(t.X0, dpi)
		t.X1 = pixelsToPoints(t.X1, dpi)
		t.Top = pixelsToPoints(t.Top, dpi)
		t.Bottom = pixelsToPoints(t.Bottom, dpi)
		out[i] = t
	}
	return out
}

// RawText renders tokens as text, one line per row group, tokens in a row
// ordered left to right.
func RawText(tokens []model.Token) string {
	rows := layout.NewRowDetector().Detect(tokens)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := row.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Text joins the raw text of pages.
func Text(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.RawText)
	}
	return strings.Join(parts, "\n")
}

func pixelsToPoints(v, dpi float64) float64 {
	return v * PointsPerInch / dpi
}
