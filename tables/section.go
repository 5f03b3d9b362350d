package tables

import (
	"strings"

	"github.com/tsawler/ledgerscan/internal/textnorm"
)

// Section tracks whether the engine is inside the transaction table,
// between a profile's start and end markers. A missing start marker means
// the table is open from the first row; a missing end marker means it
// stays open to the end of the document. The table may open again after
// an end marker, as statements repeat the table header on each page.
type Section struct {
	start string
	end   string
	open  bool
}

// NewSection creates a tracker for the given markers. Matching ignores
// case, accents and whitespace runs.
func NewSection(start, end string) *Section {
	return &Section{
		start: textnorm.Fold(textnorm.Collapse(start)),
		end:   textnorm.Fold(textnorm.Collapse(end)),
		open:  strings.TrimSpace(start) == "",
	}
}

// Observe updates the state for a row's text and reports whether the row
// belongs to the table body. Marker rows themselves are not part of it.
func (s *Section) Observe(rowText string) bool {
	folded := textnorm.Fold(textnorm.Collapse(rowText))
	if s.start != "" && strings.Contains(folded, s.start) {
		s.open = true
		return false
	}
	if s.end != "" && strings.Contains(folded, s.end) {
		s.open = false
		return false
	}
	return s.open
}

// Open reports whether the table is currently open.
func (s *Section) Open() bool {
	return s.open
}
