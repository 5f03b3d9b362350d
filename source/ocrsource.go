package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsawler/ledgerscan/internal/logger"
	"github.com/tsawler/ledgerscan/model"
	"github.com/tsawler/ledgerscan/ocr"
)

// DefaultMinConfidence is the lowest word confidence kept from OCR.
const DefaultMinConfidence = 40.0

// Recognizer turns one page image into words with pixel boxes.
// ocr.Client implements it.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]ocr.Word, error)
}

// OCRConfig holds configuration for OCR sources
type OCRConfig struct {
	// DPI is the rasterization resolution, and the resolution assumed for
	// direct image input.
	// Default: 300
	DPI int

	// MinConfidence drops words below this confidence before grouping.
	// Default: 40
	MinConfidence float64

	// ToPoints converts pixel coordinates to points (x 72/DPI). Set it
	// when the profile has no pixel-space OCR columns.
	// Default: true
	ToPoints bool

	// Corrector repairs recognized text after conversion. Nil skips
	// correction.
	Corrector *ColumnCorrector
}

// DefaultOCRConfig returns sensible default configuration
func DefaultOCRConfig() OCRConfig {
	return OCRConfig{
		DPI:           DefaultDPI,
		MinConfidence: DefaultMinConfidence,
		ToPoints:      true,
	}
}

// OCRSource recognizes page images: either a PDF rasterized page by page,
// or scanned images given directly.
type OCRSource struct {
	path       string
	images     [][]byte
	rasterizer Rasterizer
	recognizer Recognizer
	config     OCRConfig
	logger     *slog.Logger
}

// NewOCRSource creates a source that rasterizes the PDF at path.
func NewOCRSource(path string, rasterizer Rasterizer, recognizer Recognizer, config OCRConfig, l *slog.Logger) *OCRSource {
	return &OCRSource{
		path:       path,
		rasterizer: rasterizer,
		recognizer: recognizer,
		config:     normalizeOCRConfig(config),
		logger:     logger.Or(l),
	}
}

// NewImageSource creates a source over scanned page images (PNG, JPEG or
// TIFF), one per page.
func NewImageSource(images [][]byte, recognizer Recognizer, config OCRConfig, l *slog.Logger) *OCRSource {
	return &OCRSource{
		images:     images,
		recognizer: recognizer,
		config:     normalizeOCRConfig(config),
		logger:     logger.Or(l),
	}
}

func normalizeOCRConfig(c OCRConfig) OCRConfig {
	if c.DPI <= 0 {
		c.DPI = DefaultDPI
	}
	return c
}

// Extract recognizes every page in order. Any page failure fails the
// whole document.
func (s *OCRSource) Extract(ctx context.Context) ([]Page, error) {
	if s.recognizer == nil {
		return nil, ocr.ErrOCRNotEnabled
	}

	images := s.images
	if images == nil {
		if s.rasterizer == nil {
			return nil, fmt.Errorf("rasterize %s: no rasterizer", s.path)
		}
		var err error
		images, err = s.rasterizer.Rasterize(ctx, s.path, s.config.DPI)
		if err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", s.path, err)
		}
	}

	pages := make([]Page, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.page(ctx, i+1, img)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s *OCRSource) page(ctx context.Context, num int, img []byte) (Page, error) {
	width, height, err := ocr.Dimensions(img)
	if err != nil {
		return Page{}, fmt.Errorf("page %d: %w", num, err)
	}

	words, err := s.recognizer.Recognize(ctx, img)
	if err != nil {
		return Page{}, fmt.Errorf("recognize page %d: %w", num, err)
	}
	kept := ocr.Filter(words, s.config.MinConfidence)
	if dropped := len(words) - len(kept); dropped > 0 {
		s.logger.Debug("dropped low-confidence words", "page", num, "dropped", dropped, "min_confidence", s.config.MinConfidence)
	}

	tokens := make([]model.Token, len(kept))
	for i, w := range kept {
		tokens[i] = w.Token(num)
	}

	page := Page{
		Number: num,
		DPI:    float64(s.config.DPI),
		OCR:    true,
		Width:  float64(width),
		Height: float64(height),
	}
	page.Pixels = !s.config.ToPoints
	if s.config.ToPoints {
		tokens = ToPoints(tokens, page.DPI)
		page.Width = pixelsToPoints(page.Width, page.DPI)
		page.Height = pixelsToPoints(page.Height, page.DPI)
	}
	if s.config.Corrector != nil {
		tokens = s.config.Corrector.Apply(tokens)
	}

	page.Tokens = tokens
	page.RawText = RawText(tokens)
	return page, nil
}
