// Package format detects the input formats ledgerscan accepts: PDF
// statements and scanned page images.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for inputs that are neither a PDF nor a
// supported image.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image.
	TIFF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	default:
		return ""
	}
}

// IsImage reports whether the format is a scanned image, which goes
// straight to OCR.
func (f Format) IsImage() bool {
	return f == PNG || f == JPEG || f == TIFF
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	default:
		return Unknown
	}
}

var (
	magicPDF      = []byte("%PDF")
	magicPNG      = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	magicJPEG     = []byte{0xff, 0xd8, 0xff}
	magicTIFFLE   = []byte{'I', 'I', 0x2a, 0x00}
	magicTIFFBE   = []byte{'M', 'M', 0x00, 0x2a}
	pdfSearchSpan = 1024
)

// DetectFromMagic checks leading bytes to determine format.
// This provides more reliable detection than extension-based detection.
// PDF headers may be preceded by junk bytes, so "%PDF" is searched for in
// the first kilobyte.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return PNG
	case bytes.HasPrefix(data, magicJPEG):
		return JPEG
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return TIFF
	}
	head := data
	if len(head) > pdfSearchSpan {
		head = head[:pdfSearchSpan]
	}
	if bytes.Contains(head, magicPDF) {
		return PDF
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, pdfSearchSpan)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile determines the format of the file at path from its content,
// falling back to the extension. Unsupported files return
// ErrUnsupportedFormat.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	format, err := DetectFromReader(f)
	if err != nil {
		return Unknown, fmt.Errorf("read %s: %w", path, err)
	}
	if format == Unknown {
		format = Detect(path)
	}
	if format == Unknown {
		return Unknown, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return format, nil
}
