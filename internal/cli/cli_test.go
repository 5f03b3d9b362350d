package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseInvocation(t *testing.T) {
	inv, err := ParseInvocation([]string{
		"-profiles", "profiles.yaml",
		"-profile", "acme",
		"-pages", "1,3-4",
		"-declared", "Total debit=1,045.50",
		"-declared", "Closing balance = 200.00",
		"-ocr", "-degraded",
		"-lang", "eng+spa",
		"-dpi", "400",
		"statement.pdf",
	}, nil)
	if err != nil {
		t.Fatalf("ParseInvocation failed: %v", err)
	}

	if inv.Path != "statement.pdf" {
		t.Errorf("Expected path statement.pdf, got %q", inv.Path)
	}
	if inv.ProfileName != "acme" {
		t.Errorf("Expected profile acme, got %q", inv.ProfileName)
	}
	if len(inv.Pages) != 3 || inv.Pages[0] != 1 || inv.Pages[1] != 3 || inv.Pages[2] != 4 {
		t.Errorf("Expected pages [1 3 4], got %v", inv.Pages)
	}
	if inv.Declared["Total debit"] != "1,045.50" || inv.Declared["Closing balance"] != "200.00" {
		t.Errorf("Expected two declared totals, got %v", inv.Declared)
	}
	if !inv.ForceOCR || !inv.AllowDegraded {
		t.Error("Expected OCR and degraded mode")
	}
	if inv.Languages != "eng+spa" || inv.DPI != 400 {
		t.Errorf("Expected eng+spa at 400 DPI, got %q at %d", inv.Languages, inv.DPI)
	}
}

func TestParseInvocationEnv(t *testing.T) {
	inv, err := ParseInvocation([]string{"statement.pdf"}, makeEnv(map[string]string{ProfilesEnv: "env.yaml"}))
	if err != nil {
		t.Fatalf("ParseInvocation failed: %v", err)
	}
	if inv.ProfilesFile != "env.yaml" {
		t.Errorf("Expected profiles from the environment, got %q", inv.ProfilesFile)
	}

	inv, err = ParseInvocation([]string{"-profiles", "flag.yaml", "statement.pdf"}, makeEnv(map[string]string{ProfilesEnv: "env.yaml"}))
	if err != nil {
		t.Fatalf("ParseInvocation failed: %v", err)
	}
	if inv.ProfilesFile != "flag.yaml" {
		t.Errorf("Expected the flag to win, got %q", inv.ProfilesFile)
	}
}

func TestParseInvocationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no path", []string{"-profiles", "p.yaml"}},
		{"two paths", []string{"-profiles", "p.yaml", "a.pdf", "b.pdf"}},
		{"no profiles", []string{"a.pdf"}},
		{"unknown flag", []string{"-profiles", "p.yaml", "-x", "a.pdf"}},
		{"bad pages", []string{"-profiles", "p.yaml", "-pages", "3-1", "a.pdf"}},
		{"bad declared", []string{"-profiles", "p.yaml", "-declared", "Total debit", "a.pdf"}},
		{"negative dpi", []string{"-profiles", "p.yaml", "-dpi", "-1", "a.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInvocation(tt.args, nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if ExitCode(err) != ExitInvalidInvocation {
				t.Errorf("Expected exit code %d, got %d", ExitInvalidInvocation, ExitCode(err))
			}
		})
	}
}

func TestParsePages(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"2", []int{2}, false},
		{"1, 3-5", []int{1, 3, 4, 5}, false},
		{"0", nil, true},
		{"a", nil, true},
		{"2-x", nil, true},
	}
	for _, tt := range tests {
		got, err := parsePages(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePages(%q): expected error %v, got %v", tt.input, tt.wantErr, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parsePages(%q): expected %v, got %v", tt.input, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parsePages(%q): expected %v, got %v", tt.input, tt.want, got)
				break
			}
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitSuccess {
		t.Errorf("Expected %d for nil, got %d", ExitSuccess, ExitCode(nil))
	}
	if ExitCode(errors.New("boom")) != ExitInternalError {
		t.Errorf("Expected %d for a plain error, got %d", ExitInternalError, ExitCode(errors.New("boom")))
	}
	if got := ExitCode(&InvocationError{}); got != ExitInvalidInvocation {
		t.Errorf("Expected %d for an invocation error, got %d", ExitInvalidInvocation, got)
	}
}

func TestRunMissingPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(),
		[]string{"-profiles", "p.yaml", filepath.Join(t.TempDir(), "missing.pdf")}, nil, &stdout, &stderr)
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if res.ExitCode != ExitInvalidInvocation {
		t.Errorf("Expected exit code %d, got %d", ExitInvalidInvocation, res.ExitCode)
	}
}

func TestRunEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	ledger := filepath.Join(t.TempDir(), "runs.db")

	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(),
		[]string{"-profiles", "p.yaml", "-ledger", ledger, dir}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", ExitSuccess, res.ExitCode)
	}
	if res.Summary == nil || res.Summary.Total != 0 {
		t.Errorf("Expected an empty summary, got %+v", res.Summary)
	}
	if !strings.Contains(stdout.String(), "Total files: 0") {
		t.Errorf("Expected the summary on stdout, got %q", stdout.String())
	}
	if _, err := os.Stat(ledger); err != nil {
		t.Errorf("Expected the ledger file to be created: %v", err)
	}
}

func TestRunMissingProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(),
		[]string{"-profiles", filepath.Join(t.TempDir(), "missing.yaml"), path}, nil, &stdout, &stderr)
	if err == nil {
		t.Fatal("Expected an error for a missing profiles file")
	}
	if res.ExitCode != ExitExtractionError {
		t.Errorf("Expected exit code %d, got %d", ExitExtractionError, res.ExitCode)
	}
}
