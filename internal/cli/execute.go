// Package cli implements the ledgerscan command: argument parsing and the
// single-file and batch conversions.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/ledgerscan"
	"github.com/tsawler/ledgerscan/batch"
	"github.com/tsawler/ledgerscan/reconcile"
)

// Result is the outcome of one command execution.
type Result struct {
	ExitCode int

	// Statement is set in single-file mode.
	Statement *ledgerscan.Statement

	// Summary is set in batch mode.
	Summary *batch.Summary
}

// Run parses args and executes them.
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) (Result, error) {
	inv, err := ParseInvocation(args, getenv)
	if err != nil {
		return Result{ExitCode: ExitCode(err)}, err
	}
	return Execute(ctx, inv, stdout, stderr)
}

// Execute converts one statement, or every statement of a folder.
func Execute(ctx context.Context, inv Invocation, stdout, stderr io.Writer) (Result, error) {
	info, err := os.Stat(inv.Path)
	if err != nil {
		return Result{ExitCode: ExitInvalidInvocation}, invalidInvocationf("%v", err)
	}
	if info.IsDir() {
		return executeBatch(ctx, inv, stdout)
	}
	return executeFile(ctx, inv, stdout, stderr)
}

// configure applies the invocation's extraction options.
func configure(inv Invocation) func(*ledgerscan.Extractor) *ledgerscan.Extractor {
	return func(e *ledgerscan.Extractor) *ledgerscan.Extractor {
		e = e.ProfileFile(inv.ProfilesFile).Logger(slog.Default())
		if inv.ProfileName != "" {
			e = e.ProfileName(inv.ProfileName)
		}
		if len(inv.Pages) > 0 {
			e = e.Pages(inv.Pages...)
		}
		if inv.ForceOCR {
			e = e.ForceOCR()
		}
		if inv.AllowDegraded {
			e = e.AllowDegraded()
		}
		if inv.Languages != "" {
			e = e.Languages(inv.Languages)
		}
		if inv.DPI > 0 {
			e = e.DPI(inv.DPI)
		}
		for concept, value := range inv.Declared {
			e = e.Declared(concept, value)
		}
		return e
	}
}

func executeFile(ctx context.Context, inv Invocation, stdout, stderr io.Writer) (Result, error) {
	ext := configure(inv)(ledgerscan.Open(inv.Path))
	stmt, warnings, err := ext.Statement(ctx)
	if err != nil {
		return Result{ExitCode: ExitExtractionError}, err
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	out := inv.Output
	if out == "" {
		out = batch.OutputPath(inv.Path, "")
	}
	switch {
	case out == "-":
		if _, err := io.WriteString(stdout, stmt.Table().ToCSV()); err != nil {
			return Result{ExitCode: ExitInternalError}, err
		}
	case strings.EqualFold(filepath.Ext(out), ".csv"):
		if err := os.WriteFile(out, []byte(stmt.Table().ToCSV()), 0644); err != nil {
			return Result{ExitCode: ExitInternalError}, fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(stderr, "CSV file created -> %s\n", out)
	default:
		if err := stmt.SaveXLSX(out); err != nil {
			return Result{ExitCode: ExitInternalError}, fmt.Errorf("save %s: %w", out, err)
		}
		fmt.Fprintf(stderr, "Excel file created -> %s\n", out)
	}

	writeReport(stderr, stmt.Report)

	res := Result{ExitCode: ExitSuccess, Statement: stmt}
	if len(stmt.Mismatches()) > 0 {
		res.ExitCode = ExitUnreconciled
	}
	return res, nil
}

func executeBatch(ctx context.Context, inv Invocation, stdout io.Writer) (Result, error) {
	config := batch.Config{
		Workers:   inv.Workers,
		Recursive: inv.Recursive,
		Logger:    slog.Default(),
	}
	if inv.Ledger != "" {
		ledger, err := batch.OpenLedger(inv.Ledger)
		if err != nil {
			return Result{ExitCode: ExitInternalError}, err
		}
		defer ledger.Close()
		config.Ledger = ledger
	}

	converter := batch.XLSXConverter{OutputDir: inv.OutputDir, Configure: configure(inv)}
	summary, err := batch.NewRunner(converter, config).Run(ctx, inv.Path)
	if err != nil {
		return Result{ExitCode: ExitInternalError}, err
	}
	if err := summary.Write(stdout); err != nil {
		return Result{ExitCode: ExitInternalError}, err
	}

	res := Result{ExitCode: ExitSuccess, Summary: summary}
	if summary.Failed > 0 {
		res.ExitCode = ExitUnreconciled
	}
	return res, nil
}

// writeReport prints one line per control total.
func writeReport(w io.Writer, r *reconcile.Report) {
	if r == nil {
		return
	}
	for _, e := range r.Entries {
		switch {
		case !e.Found:
			fmt.Fprintf(w, "%-20s computed %12s  not found\n", e.Concept, e.Computed.StringFixed(2))
		case e.Matched:
			fmt.Fprintf(w, "%-20s computed %12s  declared %12s  OK\n", e.Concept, e.Computed.StringFixed(2), e.Declared.StringFixed(2))
		default:
			fmt.Fprintf(w, "%-20s computed %12s  declared %12s  DIFFERENCE %s\n",
				e.Concept, e.Computed.StringFixed(2), e.Declared.StringFixed(2), e.Difference.StringFixed(2))
		}
	}
}
