package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/ledgerscan/format"
	"github.com/tsawler/ledgerscan/internal/logger"
)

// Status is the final state of one file.
type Status string

const (
	StatusDone   Status = "Done"
	StatusFailed Status = "Failed"
)

// Error types recorded for failed files.
const (
	ErrorExtraction = "Extraction error"
	ErrorValidation = "Validation error"
)

// DefaultWorkers is the number of files converted at once when Config
// does not say otherwise.
const DefaultWorkers = 4

// Config controls a Runner.
type Config struct {
	Workers   int
	Recursive bool

	// Ledger records every file of the run when set.
	Ledger *Ledger

	Logger *slog.Logger
}

// Result is the outcome of converting one file.
type Result struct {
	File      string
	Output    string
	RunID     string
	Status    Status
	Records   int
	ErrorType string
	Error     string
	Elapsed   time.Duration
	Warnings  []string
}

// Runner converts the statements of a folder.
type Runner struct {
	converter Converter
	config    Config
	logger    *slog.Logger
}

// NewRunner creates a runner that converts files with c.
func NewRunner(c Converter, config Config) *Runner {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	return &Runner{converter: c, config: config, logger: logger.Or(config.Logger)}
}

// Run converts every statement file in folder. Conversion failures are
// recorded in the summary; only a missing folder, a ledger failure or a
// cancelled context stop the run.
func (r *Runner) Run(ctx context.Context, folder string) (*Summary, error) {
	files, err := Find(folder, r.config.Recursive)
	if err != nil {
		return nil, err
	}

	runID := logger.NewRunID()
	l := r.logger.With("batch_id", runID, "folder", folder)
	summary := &Summary{ID: runID, Folder: folder, Total: len(files)}
	if len(files) == 0 {
		l.Warn("no statement files found")
		return summary, nil
	}
	l.Info("batch started", "files", len(files), "workers", r.config.Workers)

	if r.config.Ledger != nil {
		if err := r.config.Ledger.StartRun(runID, folder); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.convert(gctx, path, l)
			results[i] = res
			if r.config.Ledger != nil {
				if err := r.config.Ledger.RecordFile(runID, res); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(start)
	summary.Results = results
	for _, res := range results {
		if res.Status == StatusDone {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	if r.config.Ledger != nil {
		if err := r.config.Ledger.FinishRun(summary); err != nil {
			return nil, err
		}
	}
	l.Info("batch finished",
		"successful", summary.Successful,
		"failed", summary.Failed,
		"elapsed", FormatDuration(summary.Elapsed))
	return summary, nil
}

// convert runs the converter on one file and classifies the outcome.
func (r *Runner) convert(ctx context.Context, path string, l *slog.Logger) Result {
	runID := logger.NewRunID()
	ctx = logger.WithRunID(ctx, runID)
	l = l.With("file", path, "run_id", runID)

	start := time.Now()
	outcome, err := r.converter.Convert(ctx, path)
	res := Result{
		File:     path,
		Output:   outcome.Output,
		RunID:    runID,
		Records:  outcome.Records,
		Elapsed:  time.Since(start),
		Warnings: outcome.Warnings,
	}

	switch {
	case err != nil:
		res.Status = StatusFailed
		res.ErrorType = ErrorExtraction
		res.Error = err.Error()
		l.Error("conversion failed", "error", err, "elapsed", FormatDuration(res.Elapsed))
	case len(outcome.Mismatches) > 0:
		res.Status = StatusFailed
		res.ErrorType = ErrorValidation
		res.Error = strings.Join(outcome.Mismatches, "; ")
		l.Warn("control totals do not reconcile", "mismatches", len(outcome.Mismatches))
	default:
		res.Status = StatusDone
		l.Info("converted", "output", res.Output, "records", res.Records, "elapsed", FormatDuration(res.Elapsed))
	}
	return res
}

// Find returns the statement files in folder, sorted. PDFs and scanned
// images are recognized by extension. Subfolders are searched only when
// recursive is set.
func Find(folder string, recursive bool) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("folder %s: not a directory", folder)
	}

	var files []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != folder && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if format.Detect(path) != format.Unknown {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", folder, err)
	}

	sort.Strings(files)
	return files, nil
}
