package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// maxDetail is the longest error message printed in a summary.
const maxDetail = 100

// Summary collects the results of one batch run.
type Summary struct {
	ID     string
	Folder string

	Total      int
	Successful int
	Failed     int

	// Results are in file order.
	Results []Result

	Elapsed time.Duration
}

// SuccessRate returns the percentage of files converted successfully.
func (s *Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// Failures returns the failed results in file order.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// Write prints the summary for a terminal.
func (s *Summary) Write(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total files: %d\n", s.Total)
	fmt.Fprintf(&b, "Successful: %d\n", s.Successful)
	fmt.Fprintf(&b, "Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", s.SuccessRate())
	fmt.Fprintf(&b, "Total time: %s\n", FormatDuration(s.Elapsed))

	if failures := s.Failures(); len(failures) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Failed files:")
		for i, r := range failures {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, filepath.Base(r.File))
			fmt.Fprintf(&b, "     Error: %s\n", r.ErrorType)
			if r.Error != "" {
				fmt.Fprintf(&b, "     Details: %s\n", truncate(r.Error, maxDetail))
			}
		}
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDuration renders d as "45.20s", "2m 30.50s" or "1h 2m 3.00s".
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 3600:
		minutes := int(seconds / 60)
		return fmt.Sprintf("%dm %.2fs", minutes, seconds-float64(minutes*60))
	default:
		hours := int(seconds / 3600)
		minutes := int((seconds - float64(hours*3600)) / 60)
		return fmt.Sprintf("%dh %dm %.2fs", hours, minutes, seconds-float64(hours*3600+minutes*60))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
