// Package ledgerscan provides a fluent API for reconstructing transaction
// records from bank statement PDFs and scanned statement images.
//
// Basic usage:
//
//	stmt, warnings, err := ledgerscan.Open("statement.pdf").
//	    ProfileFile("profiles.yaml").
//	    Statement(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ledgerscan.FormatWarnings(warnings))
//	}
//	fmt.Print(stmt.Table().ToCSV())
//
// With options:
//
//	stmt, _, err := ledgerscan.Open("scan.pdf").
//	    Profile(p).
//	    Pages(1, 2).
//	    AllowDegraded().
//	    Statement(ctx)
//
// A layout profile describes one statement family: its column geometry,
// date and amount grammars, table markers and control totals. Profiles are
// loaded with the profile package; when several are registered the issuer
// is detected from the statement text.
//
// When a PDF's text layer is illegible, pages are rasterized with pdftoppm
// and recognized with Tesseract. OCR requires building with -tags ocr.
package ledgerscan

import (
	"github.com/tsawler/ledgerscan/source"
)

// Open returns an Extractor for a PDF or a scanned image (PNG, JPEG or
// TIFF). The file is not read until a terminal operation such as
// Statement is called.
//
// Example:
//
//	stmt, warnings, err := ledgerscan.Open("statement.pdf").Profile(p).Statement(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource creates an Extractor over an already-built page source. This
// is useful when tokens come from elsewhere, such as a cached OCR run.
//
// Example:
//
//	stmt, _, err := ledgerscan.FromSource(source.Static(pages)).Profile(p).Statement(ctx)
func FromSource(src source.Source) *Extractor {
	return &Extractor{
		source:  src,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	reg := ledgerscan.Must(profile.LoadFile("profiles.yaml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustStatement is a helper that wraps a call to Statement() or Records()
// and panics if the error is non-nil. It discards warnings and returns just
// the value.
//
// Example:
//
//	stmt := ledgerscan.MustStatement(ledgerscan.Open("statement.pdf").Profile(p).Statement(ctx))
func MustStatement[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
