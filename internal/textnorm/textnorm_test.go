package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Depósito", "DEPOSITO"},
		{"Comisión", "COMISION"},
		{"año", "ANO"},
		{"SALDO", "SALDO"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("Estado de Cuenta MAESTRA", "cuenta maestra") {
		t.Error("Expected case-insensitive match")
	}
	if !Contains("Saldo Anterior Depósitos", "DEPOSITOS") {
		t.Error("Expected accent-insensitive match")
	}
	if Contains("anything", "") {
		t.Error("Expected empty needle not to match")
	}
}

func TestCollapse(t *testing.T) {
	if got := Collapse("  GROCERY \t  STORE  "); got != "GROCERY STORE" {
		t.Errorf("Expected 'GROCERY STORE', got %q", got)
	}
}

func TestUndouble(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SSAALLDDOO AANNTTEERRIIOORR", "SALDO ANTERIOR"},
		{"SSAALLDDOO 1,000.00", "SALDO 1,000.00"},
		{"BOOKKEEPER", "BOOKKEEPER"},
		{"1100", "1100"},
		{"AABB", "AB"},
		{"ABC", "ABC"},
	}

	for _, tt := range tests {
		if got := Undouble(tt.input); got != tt.want {
			t.Errorf("Undouble(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDoubledFraction(t *testing.T) {
	if f := DoubledFraction("SSAALLDDOO AANNTTEERRIIOORR ok"); f != 1.0 {
		t.Errorf("Expected 1.0, got %f", f)
	}
	if f := DoubledFraction("SALDO ANTERIOR"); f != 0 {
		t.Errorf("Expected 0, got %f", f)
	}
	if f := DoubledFraction(""); f != 0 {
		t.Errorf("Expected 0 for empty text, got %f", f)
	}
}
