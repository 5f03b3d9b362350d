package batch

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Ledger records batch runs and the status of every file in a sqlite
// database.
type Ledger struct {
	db *sql.DB
}

// FileEntry is one recorded file.
type FileEntry struct {
	ID           int64
	RunID        string
	FileRunID    string
	Path         string
	Output       string
	Status       Status
	ErrorType    string
	ErrorMessage string
	Records      int
	Elapsed      time.Duration
}

// RunEntry is one recorded batch run.
type RunEntry struct {
	ID         string
	Folder     string
	Total      int
	Successful int
	Failed     int
	Elapsed    time.Duration
	Finished   bool
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// Workers share one connection; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("execute schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// StartRun records the start of a run.
func (l *Ledger) StartRun(id, folder string) error {
	_, err := l.db.Exec(`
		INSERT INTO runs (id, folder)
		VALUES (?, ?)
	`, id, folder)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFile records the result of one file.
func (l *Ledger) RecordFile(runID string, r Result) error {
	_, err := l.db.Exec(`
		INSERT INTO files (run_id, file_run_id, path, output, status, error_type, error_message, records, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, r.RunID, r.File, r.Output, string(r.Status), r.ErrorType, r.Error, r.Records, r.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// FinishRun records the totals of a finished run.
func (l *Ledger) FinishRun(s *Summary) error {
	_, err := l.db.Exec(`
		UPDATE runs
		SET total = ?, successful = ?, failed = ?, elapsed_ms = ?, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, s.Total, s.Successful, s.Failed, s.Elapsed.Milliseconds(), s.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Run returns a recorded run by ID.
func (l *Ledger) Run(id string) (*RunEntry, error) {
	var r RunEntry
	var elapsed int64
	var finished sql.NullTime
	err := l.db.QueryRow(`
		SELECT id, folder, total, successful, failed, elapsed_ms, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Folder, &r.Total, &r.Successful, &r.Failed, &elapsed, &finished)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	r.Elapsed = time.Duration(elapsed) * time.Millisecond
	r.Finished = finished.Valid
	return &r, nil
}

// Files returns the files recorded for a run, ordered by path.
func (l *Ledger) Files(runID string) ([]FileEntry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, file_run_id, path, output, status, error_type, error_message, records, elapsed_ms
		FROM files
		WHERE run_id = ?
		ORDER BY path ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var out []FileEntry
	for rows.Next() {
		var f FileEntry
		var status string
		var elapsed int64
		if err := rows.Scan(&f.ID, &f.RunID, &f.FileRunID, &f.Path, &f.Output, &status,
			&f.ErrorType, &f.ErrorMessage, &f.Records, &elapsed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Status = Status(status)
		f.Elapsed = time.Duration(elapsed) * time.Millisecond
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return out, nil
}

// Failed returns every failed file across all runs, most recent first.
func (l *Ledger) Failed() ([]FileEntry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, file_run_id, path, output, status, error_type, error_message, records, elapsed_ms
		FROM files
		WHERE status = ?
		ORDER BY id DESC
	`, string(StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("query failed files: %w", err)
	}
	defer rows.Close()

	var out []FileEntry
	for rows.Next() {
		var f FileEntry
		var status string
		var elapsed int64
		if err := rows.Scan(&f.ID, &f.RunID, &f.FileRunID, &f.Path, &f.Output, &status,
			&f.ErrorType, &f.ErrorMessage, &f.Records, &elapsed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Status = Status(status)
		f.Elapsed = time.Duration(elapsed) * time.Millisecond
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failed files: %w", err)
	}
	return out, nil
}
