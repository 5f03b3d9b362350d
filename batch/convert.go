package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/ledgerscan"
)

// Outcome describes one converted statement.
type Outcome struct {
	Output  string
	Records int

	// Mismatches describes every declared control total that did not
	// match, as "concept: declared X, computed Y".
	Mismatches []string

	Warnings []string
}

// Converter turns one statement file into an output file.
type Converter interface {
	Convert(ctx context.Context, path string) (Outcome, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, path string) (Outcome, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, path string) (Outcome, error) {
	return f(ctx, path)
}

// XLSXConverter extracts a statement and saves it as an Excel workbook.
type XLSXConverter struct {
	// OutputDir receives the workbooks. Empty means beside each input.
	OutputDir string

	// Configure sets extractor options, such as the profile registry, for
	// every file.
	Configure func(*ledgerscan.Extractor) *ledgerscan.Extractor
}

// Convert implements Converter.
func (c XLSXConverter) Convert(ctx context.Context, path string) (Outcome, error) {
	ext := ledgerscan.Open(path)
	if c.Configure != nil {
		ext = c.Configure(ext)
	}

	stmt, warnings, err := ext.Statement(ctx)
	if err != nil {
		return Outcome{}, err
	}

	out := OutputPath(path, c.OutputDir)
	if c.OutputDir != "" {
		if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
			return Outcome{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := stmt.SaveXLSX(out); err != nil {
		return Outcome{}, fmt.Errorf("save %s: %w", out, err)
	}

	outcome := Outcome{Output: out, Records: len(stmt.Records)}
	for _, e := range stmt.Mismatches() {
		outcome.Mismatches = append(outcome.Mismatches, fmt.Sprintf("%s: declared %s, computed %s",
			e.Concept, e.Declared.StringFixed(2), e.Computed.StringFixed(2)))
	}
	for _, w := range warnings {
		outcome.Warnings = append(outcome.Warnings, w.String())
	}
	return outcome, nil
}

// OutputPath returns the workbook path for input: the same base name with
// an .xlsx extension, in dir or beside the input.
func OutputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".xlsx"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
