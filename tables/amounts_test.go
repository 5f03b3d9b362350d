package tables

import (
	"testing"

	"github.com/tsawler/ledgerscan/grammar"
	"github.com/tsawler/ledgerscan/model"
)

func makeReconciler(t *testing.T) *AmountReconciler {
	t.Helper()
	_, cols := makeCompiled(t, makeProfile())
	return NewAmountReconciler(cols, grammar.NewStandardAmount(), DefaultAmountConfig(), nil)
}

func TestAmountReconciler_FillsEmptyColumns(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Description = "PAYROLL 1,200.00 2,155.00"
	rec.RawAmounts = []model.RawAmount{
		{Text: "1,200.00", Center: 420},
		{Text: "2,155.00", Center: 510},
	}

	r.Reconcile(rec)
	if rec.Amounts["credit"] != "1,200.00" {
		t.Errorf("Expected credit 1,200.00, got %q", rec.Amounts["credit"])
	}
	if rec.Amounts["balance"] != "2,155.00" {
		t.Errorf("Expected balance 2,155.00, got %q", rec.Amounts["balance"])
	}
	if rec.Description != "PAYROLL" {
		t.Errorf("Expected amounts stripped, got %q", rec.Description)
	}
}

func TestAmountReconciler_Tolerance(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	// Just right of the balance column, inside the widened range.
	rec.RawAmounts = []model.RawAmount{{Text: "10.00", Center: 561.5}}
	r.Reconcile(rec)
	if rec.Amounts["balance"] != "10.00" {
		t.Errorf("Expected balance 10.00, got %q", rec.Amounts)
	}
}

func TestAmountReconciler_MaxDistance(t *testing.T) {
	r := makeReconciler(t)

	near := model.NewRecord(1)
	near.RawAmounts = []model.RawAmount{{Text: "10.00", Center: 580}} // balance mid 510, 70 away
	r.Reconcile(near)
	if len(near.AmountColumns()) != 0 {
		t.Errorf("Expected no assignment beyond MaxDistance, got %v", near.Amounts)
	}

	r.config.MaxDistance = 80
	near.Amounts = map[string]string{}
	r.Reconcile(near)
	if near.Amounts["balance"] != "10.00" {
		t.Errorf("Expected balance with larger MaxDistance, got %v", near.Amounts)
	}
}

func TestAmountReconciler_InlineAmountKept(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Description = "PAGO TARJETA 161.32 REF"
	rec.RawAmounts = []model.RawAmount{
		{Text: "161.32", Center: 150},
		{Text: "500.00", Center: 340},
	}
	rec.Amounts["debit"] = "500.00"

	r.Reconcile(rec)
	if rec.Description != "PAGO TARJETA 161.32 REF" {
		t.Errorf("Expected inline amount kept, got %q", rec.Description)
	}
	if len(rec.Inline) != 1 || rec.Inline[0] != "161.32" {
		t.Errorf("Expected inline [161.32], got %v", rec.Inline)
	}
	if rec.Amounts["debit"] != "500.00" {
		t.Errorf("Expected debit 500.00, got %q", rec.Amounts["debit"])
	}
}

func TestAmountReconciler_InlineRestoredAfterMerge(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Description = "PAGO TARJETA"
	rec.RawAmounts = []model.RawAmount{{Text: "161.32", Center: 150}}

	r.Reconcile(rec)
	if rec.Description != "PAGO TARJETA 161.32" {
		t.Errorf("Expected inline amount restored, got %q", rec.Description)
	}
}

func TestAmountReconciler_PreservesWellFormed(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Amounts["debit"] = "45.00"
	rec.RawAmounts = []model.RawAmount{
		{Text: "45.00", Center: 340},
		{Text: "46.00", Center: 345},
	}
	r.Reconcile(rec)
	if rec.Amounts["debit"] != "45.00" {
		t.Errorf("Expected 45.00 preserved, got %q", rec.Amounts["debit"])
	}
}

func TestAmountReconciler_ReplacesMalformed(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Amounts["debit"] = "45.00 46.00"
	rec.RawAmounts = []model.RawAmount{{Text: "45.00", Center: 340}}
	r.Reconcile(rec)
	if rec.Amounts["debit"] != "45.00" {
		t.Errorf("Expected malformed value replaced, got %q", rec.Amounts["debit"])
	}
}

func TestAmountReconciler_NoDuplicationAcrossColumns(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Amounts["debit"] = "45.00"
	// One printed figure near the debit/credit boundary, seen once.
	rec.RawAmounts = []model.RawAmount{{Text: "45.00", Center: 381}}
	r.Reconcile(rec)
	if rec.Amounts["credit"] != "" {
		t.Errorf("Expected amount not duplicated into credit, got %q", rec.Amounts["credit"])
	}
}

func TestAmountReconciler_Unassigned(t *testing.T) {
	r := makeReconciler(t)
	rec := model.NewRecord(1)
	rec.Description = "NOTE 9.99"
	rec.RawAmounts = []model.RawAmount{{Text: "9.99", Center: 700}}
	r.Reconcile(rec)
	if len(rec.AmountColumns()) != 0 {
		t.Errorf("Expected no assignment, got %v", rec.Amounts)
	}
	if rec.Description != "NOTE" {
		t.Errorf("Expected amount stripped, got %q", rec.Description)
	}
}
