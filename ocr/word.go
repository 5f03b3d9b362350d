package ocr

import (
	"errors"

	"github.com/tsawler/ledgerscan/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Word is one recognized word.
type Word struct {
	Text string

	// BBox is in image pixels, top-down.
	BBox model.BBox

	// Confidence is Tesseract's word confidence, 0-100.
	Confidence float64

	// Line is the 0-based index of the recognizer line holding the word.
	Line int
}

// Token converts the word to a page token.
func (w Word) Token(page int) model.Token {
	t := model.NewToken(w.Text, w.BBox.X0, w.BBox.Top, w.BBox.X1, w.BBox.Bottom, page)
	t.Confidence = model.Float(w.Confidence)
	t.LineHint = model.Int(w.Line)
	return t
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Config holds configuration for recognition
type Config struct {
	// Languages passed to Tesseract, e.g. "eng" or "eng+spa".
	// Default: "eng"
	Languages string

	// PageSegMode is the Tesseract layout analysis mode. Sparse text
	// keeps table cells as separate words.
	// Default: PSM_SPARSE_TEXT
	PageSegMode PageSegMode

	// Scale controls upscaling of narrow images before recognition.
	Scale ScaleConfig
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Languages:   "eng",
		PageSegMode: PSM_SPARSE_TEXT,
		Scale:       DefaultScaleConfig(),
	}
}
