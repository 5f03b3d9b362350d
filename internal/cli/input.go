package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitUnreconciled      = 1
	ExitInvalidInvocation = 2
	ExitExtractionError   = 3
	ExitInternalError     = 4
)

// ProfilesEnv names the environment variable holding the default profiles
// file.
const ProfilesEnv = "LEDGERSCAN_PROFILES"

// Invocation is the parsed command line.
type Invocation struct {
	// Path is a statement file, or a folder for batch mode.
	Path string

	ProfilesFile string
	ProfileName  string

	// Output is the result file in single-file mode: .xlsx, .csv, or "-"
	// for CSV on stdout. Empty means an .xlsx beside the input.
	Output string

	// OutputDir receives the workbooks in batch mode.
	OutputDir string

	Pages         []int
	ForceOCR      bool
	AllowDegraded bool
	Languages     string
	DPI           int

	// Declared holds control totals given on the command line, by concept.
	Declared map[string]string

	Recursive bool
	Workers   int
	Ledger    string
}

// InvocationError is a command-line problem with its exit code.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// declaredFlag collects repeated -declared "concept=value" flags.
type declaredFlag map[string]string

func (d declaredFlag) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + d[k]
	}
	return strings.Join(parts, ",")
}

func (d declaredFlag) Set(s string) error {
	concept, value, ok := strings.Cut(s, "=")
	concept = strings.TrimSpace(concept)
	if !ok || concept == "" || strings.TrimSpace(value) == "" {
		return fmt.Errorf("expected concept=value, got %q", s)
	}
	d[concept] = strings.TrimSpace(value)
	return nil
}

// ParseInvocation parses command-line arguments. getenv supplies defaults
// for flags that may come from the environment; nil means none.
func ParseInvocation(args []string, getenv func(string) string) (Invocation, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	fs := flag.NewFlagSet("ledgerscan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	inv := Invocation{Declared: map[string]string{}}
	var pages string

	fs.StringVar(&inv.ProfilesFile, "profiles", getenv(ProfilesEnv), "Layout profiles file (YAML, JSON or TOML).")
	fs.StringVar(&inv.ProfileName, "profile", "", "Profile name; detected from the statement when empty.")
	fs.StringVar(&inv.Output, "out", "", "Output file (.xlsx or .csv, - for CSV on stdout).")
	fs.StringVar(&inv.OutputDir, "out-dir", "", "Output folder in batch mode.")
	fs.StringVar(&pages, "pages", "", "Pages to extract, e.g. 1,3-4.")
	fs.BoolVar(&inv.ForceOCR, "ocr", false, "Recognize every page even when the text layer is legible.")
	fs.BoolVar(&inv.AllowDegraded, "degraded", false, "Use an illegible text layer when OCR fails.")
	fs.StringVar(&inv.Languages, "lang", "", "Tesseract languages, e.g. eng+spa.")
	fs.IntVar(&inv.DPI, "dpi", 0, "Rasterization resolution for OCR.")
	fs.Var(declaredFlag(inv.Declared), "declared", "Control total as concept=value; repeatable.")
	fs.BoolVar(&inv.Recursive, "r", false, "Search subfolders in batch mode.")
	fs.IntVar(&inv.Workers, "workers", 0, "Files converted at once in batch mode.")
	fs.StringVar(&inv.Ledger, "ledger", "", "sqlite file recording batch runs.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 1 {
		return Invocation{}, invalidInvocationf("expected one statement file or folder, got %d arguments", fs.NArg())
	}
	inv.Path = fs.Arg(0)

	if inv.ProfilesFile == "" {
		return Invocation{}, invalidInvocationf("-profiles is required (or set %s)", ProfilesEnv)
	}
	if inv.DPI < 0 {
		return Invocation{}, invalidInvocationf("-dpi must not be negative")
	}
	if inv.Workers < 0 {
		return Invocation{}, invalidInvocationf("-workers must not be negative")
	}

	var err error
	if inv.Pages, err = parsePages(pages); err != nil {
		return Invocation{}, invalidInvocationf("-pages: %v", err)
	}
	return inv, nil
}

// parsePages parses "1,3-4" into [1 3 4].
func parsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
	}
	return out, nil
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
