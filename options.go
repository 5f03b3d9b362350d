package ledgerscan

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tsawler/ledgerscan/layout"
	"github.com/tsawler/ledgerscan/profile"
	"github.com/tsawler/ledgerscan/source"
	"github.com/tsawler/ledgerscan/tables"
)

// ExtractOptions holds configuration for statement extraction.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Profile selection: an explicit profile wins over a name, and a name
	// wins over detection.
	profile     *profile.Profile
	profileName string
	registry    *profile.Registry

	// Source selection
	forceOCR      bool
	allowDegraded bool
	legibility    source.LegibilityConfig

	// OCR
	languages     string
	dpi           int
	minConfidence float64
	rasterizer    source.Rasterizer
	recognizer    source.Recognizer
	corrector     source.Corrector

	engine tables.EngineConfig

	// Rows repeated at the top or bottom of several pages are dropped
	// unless keepHeaderFooter is set.
	headerFooter     layout.HeaderFooterConfig
	keepHeaderFooter bool

	// declared overrides control totals parsed from the statement text.
	declared map[string]decimal.Decimal

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		legibility:    source.DefaultLegibilityConfig(),
		languages:     "eng",
		dpi:           source.DefaultDPI,
		minConfidence: source.DefaultMinConfidence,
		engine:        tables.DefaultEngineConfig(),
		headerFooter:  layout.DefaultHeaderFooterConfig(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.declared != nil {
		newOpts.declared = make(map[string]decimal.Decimal, len(o.declared))
		for k, v := range o.declared {
			newOpts.declared[k] = v
		}
	}

	return newOpts
}
