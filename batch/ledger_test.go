package batch

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func makeLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "db", "ledger.db"))
	if err != nil {
		t.Fatalf("OpenLedger failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerRecordFile(t *testing.T) {
	l := makeLedger(t)

	if err := l.StartRun("run-1", "statements"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	results := []Result{
		{File: "b.pdf", Output: "b.xlsx", RunID: "f-2", Status: StatusFailed,
			ErrorType: ErrorValidation, Error: "Total debit: declared 50.00, computed 45.00", Records: 4},
		{File: "a.pdf", Output: "a.xlsx", RunID: "f-1", Status: StatusDone, Records: 2,
			Elapsed: 1500 * time.Millisecond},
	}
	for _, r := range results {
		if err := l.RecordFile("run-1", r); err != nil {
			t.Fatalf("RecordFile failed: %v", err)
		}
	}

	files, err := l.Files("run-1")
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if files[0].Path != "a.pdf" || files[0].Status != StatusDone {
		t.Errorf("Expected a.pdf Done first, got %s %s", files[0].Path, files[0].Status)
	}
	if files[0].Elapsed != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s elapsed, got %v", files[0].Elapsed)
	}
	if files[0].FileRunID != "f-1" {
		t.Errorf("Expected file run id f-1, got %q", files[0].FileRunID)
	}
	if files[1].ErrorType != ErrorValidation || files[1].ErrorMessage == "" {
		t.Errorf("Expected a validation error with message, got %q %q", files[1].ErrorType, files[1].ErrorMessage)
	}

	failed, err := l.Failed()
	if err != nil {
		t.Fatalf("Failed failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Path != "b.pdf" {
		t.Errorf("Expected only b.pdf to have failed, got %+v", failed)
	}
}

func TestLedgerRunTotals(t *testing.T) {
	l := makeLedger(t)

	if err := l.StartRun("run-1", "statements"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	run, err := l.Run("run-1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Finished {
		t.Error("Expected an unfinished run")
	}

	s := &Summary{ID: "run-1", Total: 3, Successful: 2, Failed: 1, Elapsed: 2 * time.Second}
	if err := l.FinishRun(s); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	run, err = l.Run("run-1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !run.Finished {
		t.Error("Expected a finished run")
	}
	if run.Total != 3 || run.Successful != 2 || run.Failed != 1 {
		t.Errorf("Expected 3/2/1, got %d/%d/%d", run.Total, run.Successful, run.Failed)
	}
	if run.Elapsed != 2*time.Second {
		t.Errorf("Expected 2s elapsed, got %v", run.Elapsed)
	}

	if _, err := l.Run("missing"); err == nil {
		t.Error("Expected an error for an unknown run")
	}
}

func TestLedgerForeignKey(t *testing.T) {
	l := makeLedger(t)
	if err := l.RecordFile("no-such-run", Result{File: "a.pdf", Status: StatusDone}); err == nil {
		t.Error("Expected an error for a file without a run")
	}
}

func TestRunnerWithLedger(t *testing.T) {
	dir := makeFolder(t)
	l := makeLedger(t)

	var calls int32
	runner := NewRunner(makeConverter(&calls), Config{Workers: 3, Recursive: true, Ledger: l})
	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	files, err := l.Files(summary.ID)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 recorded files, got %d", len(files))
	}
	statuses := map[string]Status{}
	for _, f := range files {
		statuses[filepath.Base(f.Path)] = f.Status
	}
	want := map[string]Status{"a.pdf": StatusDone, "b.png": StatusFailed, "c.PDF": StatusFailed}
	for name, status := range want {
		if statuses[name] != status {
			t.Errorf("Expected %s to be %s, got %s", name, status, statuses[name])
		}
	}

	run, err := l.Run(summary.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !run.Finished || run.Failed != 2 {
		t.Errorf("Expected a finished run with 2 failures, got %+v", run)
	}
}
