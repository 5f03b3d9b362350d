package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/ledgerscan/internal/logger"
)

// SelectorConfig holds configuration for choosing between the digital
// layer and OCR.
type SelectorConfig struct {
	Legibility LegibilityConfig

	// ForceOCR skips the legibility check.
	ForceOCR bool

	// AllowDegraded returns the digital layer when OCR fails instead of
	// failing the document.
	AllowDegraded bool
}

// DefaultSelectorConfig returns sensible default configuration
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{Legibility: DefaultLegibilityConfig()}
}

// Selection records which source a Selector used.
type Selection struct {
	Legibility Legibility
	OCR        bool

	// Degraded is set when OCR was needed but failed and the digital
	// layer was used instead.
	Degraded bool

	// Cause is the OCR failure behind a degraded selection.
	Cause error
}

// Selector reads the digital layer and falls back to OCR for the whole
// document when page 1 is illegible. Tokens from the two sources are
// never mixed. A Selector is not safe for concurrent use.
type Selector struct {
	digital  Source
	fallback Source
	config   SelectorConfig
	logger   *slog.Logger

	selection Selection
}

// NewSelector creates a selector. fallback may be nil, in which case an
// illegible document fails with ErrFallbackFailed unless degraded mode is
// allowed.
func NewSelector(digital, fallback Source, config SelectorConfig, l *slog.Logger) *Selector {
	return &Selector{
		digital:  digital,
		fallback: fallback,
		config:   config,
		logger:   logger.Or(l),
	}
}

// Selection returns what the last Extract chose.
func (s *Selector) Selection() Selection {
	return s.selection
}

// Extract returns the pages of the chosen source.
func (s *Selector) Extract(ctx context.Context) ([]Page, error) {
	s.selection = Selection{}

	digital, digitalErr := s.digital.Extract(ctx)
	if digitalErr != nil {
		if errors.Is(digitalErr, context.Canceled) || errors.Is(digitalErr, context.DeadlineExceeded) {
			return nil, digitalErr
		}
		s.logger.Warn("digital text layer unreadable", "error", digitalErr)
	}

	if digitalErr == nil && !s.config.ForceOCR {
		if len(digital) > 0 {
			s.selection.Legibility = Measure(digital[0].RawText)
		}
		if s.selection.Legibility.Legible(s.config.Legibility) {
			return digital, nil
		}
		l := s.selection.Legibility
		s.logger.Info("digital text layer illegible, using OCR",
			"runes", l.Runes,
			"placeholder_fraction", l.PlaceholderFraction(),
			"ascii_fraction", l.ASCIIFraction())
	}

	pages, err := s.ocr(ctx)
	if err == nil {
		s.selection.OCR = true
		return pages, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	fallbackErr := fmt.Errorf("%w: %w", ErrFallbackFailed, err)
	if s.config.AllowDegraded && digitalErr == nil {
		s.logger.Warn("OCR failed, using illegible digital layer", "error", err)
		s.selection.Degraded = true
		s.selection.Cause = fallbackErr
		return digital, nil
	}
	if digitalErr != nil {
		return nil, fmt.Errorf("%w (digital layer: %v)", fallbackErr, digitalErr)
	}
	return nil, fallbackErr
}

func (s *Selector) ocr(ctx context.Context) ([]Page, error) {
	if s.fallback == nil {
		return nil, errors.New("no OCR source configured")
	}
	return s.fallback.Extract(ctx)
}
