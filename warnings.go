package ledgerscan

import (
	"fmt"
	"strings"
)

// WarningType classifies a non-fatal extraction issue.
type WarningType int

const (
	// WarningNoContent means the document produced no pages or no tokens.
	WarningNoContent WarningType = iota
	// WarningDegraded means the text layer was illegible, OCR failed, and
	// the illegible layer was used anyway.
	WarningDegraded
	// WarningNoControls means no declared control total was found, so the
	// statement could not be reconciled.
	WarningNoControls
	// WarningMismatch means a declared control total did not match.
	WarningMismatch
	// WarningUnparsedAmounts means some column values were not readable
	// amounts and were left out of the totals.
	WarningUnparsedAmounts
	// WarningOrphans means continuation rows appeared before any dated
	// record and were dropped.
	WarningOrphans
)

// String returns the string representation of the warning type.
func (t WarningType) String() string {
	switch t {
	case WarningNoContent:
		return "no content"
	case WarningDegraded:
		return "degraded"
	case WarningNoControls:
		return "no controls"
	case WarningMismatch:
		return "mismatch"
	case WarningUnparsedAmounts:
		return "unparsed amounts"
	case WarningOrphans:
		return "orphan rows"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while extracting a statement.
type Warning struct {
	Type    WarningType
	Message string
}

// String formats the warning as "type: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Type, w.Message)
}

// HasWarning reports whether warnings contains one of type t.
func HasWarning(warnings []Warning, t WarningType) bool {
	for _, w := range warnings {
		if w.Type == t {
			return true
		}
	}
	return false
}

// FormatWarnings joins warnings into one line, separated by "; ".
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
