package source

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/internal/textnorm"
	"github.com/tsawler/ledgerscan/model"
)

// Letter size, used when a page declares no MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// DoubledThreshold is the fraction of doubled words above which a page's
// words are repaired with textnorm.Undouble.
const DoubledThreshold = 0.5

// PDFText reads the digital text layer of a PDF.
type PDFText struct {
	path   string
	logger *slog.Logger
}

// NewPDFText creates a source for the PDF at path. A nil logger uses the
// default logger.
func NewPDFText(path string, l *slog.Logger) *PDFText {
	return &PDFText{path: path, logger: logger.Or(l)}
}

// Extract reads every page. Pages whose content stream cannot be decoded
// are returned empty rather than dropped.
func (s *PDFText) Extract(ctx context.Context) (pages []Page, err error) {
	f, r, err := pdf.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, s.page(r, i))
	}
	return pages, nil
}

func (s *PDFText) page(r *pdf.Reader, num int) Page {
	page := Page{Number: num, Width: defaultPageWidth, Height: defaultPageHeight}

	p := r.Page(num)
	if p.V.IsNull() {
		return page
	}
	box := mediaBox(p.V)
	page.Width, page.Height = box[2]-box[0], box[3]-box[1]

	glyphs, err := content(p)
	if err != nil {
		s.logger.Warn("unreadable page content", "path", s.path, "page", num, "error", err)
		return page
	}

	page.Tokens = words(glyphs, box, num)
	page.RawText = RawText(page.Tokens)
	if textnorm.DoubledFraction(page.RawText) > DoubledThreshold {
		s.logger.Debug("repairing doubled glyphs", "page", num)
		for i, t := range page.Tokens {
			page.Tokens[i] = t.WithText(textnorm.Undouble(t.Text))
		}
		page.RawText = RawText(page.Tokens)
	}
	return page
}

// content decodes a page's glyphs. The PDF library panics on some
// malformed streams.
func content(p pdf.Page) (glyphs []pdf.Text, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("decode content stream: %v", rec)
		}
	}()
	return p.Content().Text, nil
}

// mediaBox returns [llx lly urx ury], following Parent for inherited boxes.
func mediaBox(v pdf.Value) [4]float64 {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		mb := node.Key("MediaBox")
		if mb.Kind() != pdf.Array || mb.Len() < 4 {
			continue
		}
		var box [4]float64
		for i := 0; i < 4; i++ {
			box[i] = number(mb.Index(i))
		}
		if box[2] > box[0] && box[3] > box[1] {
			return box
		}
	}
	return [4]float64{0, 0, defaultPageWidth, defaultPageHeight}
}

func number(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}

// words assembles glyphs into word tokens: glyphs are bucketed into lines
// by baseline, ordered by x, and joined while the gap to the previous glyph
// stays under a fraction of the font size.
func words(glyphs []pdf.Text, box [4]float64, page int) []model.Token {
	const nudge = 1.0

	chars := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			chars = append(chars, g)
		}
	}
	sort.SliceStable(chars, func(i, j int) bool { return chars[i].Y > chars[j].Y })
	old := math.Inf(1)
	for i, c := range chars {
		if c.Y != old && math.Abs(old-c.Y) < nudge {
			chars[i].Y = old
		} else {
			old = c.Y
		}
	}
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var out []model.Token
	var sb strings.Builder
	var cur pdf.Text
	var end float64

	flush := func() {
		if text := strings.TrimSpace(sb.String()); text != "" {
			size := cur.FontSize
			if size <= 0 {
				size = 1
			}
			out = append(out, model.NewToken(text,
				cur.X-box[0], box[3]-(cur.Y+size),
				end-box[0], box[3]-cur.Y, page))
		}
		sb.Reset()
	}

	for i, c := range chars {
		space := strings.TrimFunc(c.S, unicode.IsSpace) == ""
		gap := c.FontSize / 4
		sameLine := i > 0 && c.Y == cur.Y
		if sb.Len() > 0 && (!sameLine || space || c.X > end+gap) {
			flush()
		}
		if space {
			continue
		}
		if sb.Len() == 0 {
			cur = c
			end = c.X + c.W
		} else {
			end = math.Max(end, c.X+c.W)
		}
		sb.WriteString(c.S)
	}
	flush()
	return out
}
