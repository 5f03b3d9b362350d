package tables

import (
	"testing"

	"github.com/tsawler/ledgerscan/model"
)

func makeKeyValues(t *testing.T, headings []string, rows ...string) []model.KeyValue {
	t.Helper()
	p := makeProfile()
	p.Headings = headings
	c, _ := makeCompiled(t, p)
	x := NewKeyValueExtractor(c, DefaultKeyValueConfig())
	for _, r := range rows {
		x.Row(r)
	}
	return x.Pairs()
}

func TestKeyValueExtractor_Summary(t *testing.T) {
	pairs := makeKeyValues(t, []string{"Rendimiento"},
		"Rendimiento",
		"Tasa bruta anual: 4.50% 1,234.56",
		"Saldo promedio 10,500.00",
		"diario",
		"RESUMEN DEL PERIODO",
		"Periodo: 01 ENE AL 31 ENE",
		"Dias del periodo 31",
		"transcurridos",
		"Gracias por su preferencia y confianza",
		"Comisiones 25.00",
	)

	expected := []model.KeyValue{
		{Title: "Rendimiento", Label: "Tasa bruta anual", Value: "1,234.56", Percent: "4.50%"},
		{Title: "Rendimiento", Label: "Saldo promedio diario", Value: "10,500.00"},
		{Title: "RESUMEN DEL PERIODO", Label: "Periodo - From", Value: "01 ENE"},
		{Title: "RESUMEN DEL PERIODO", Label: "Periodo - To", Value: "31 ENE"},
		{Title: "RESUMEN DEL PERIODO", Label: "Dias del periodo transcurridos", Value: "31"},
		{Title: "Misc", Label: "Comisiones", Value: "25.00"},
	}
	if len(pairs) != len(expected) {
		t.Fatalf("Expected %d pairs, got %d: %+v", len(expected), len(pairs), pairs)
	}
	for i, want := range expected {
		got := pairs[i]
		if got.Title != want.Title || got.Label != want.Label || got.Value != want.Value || got.Percent != want.Percent {
			t.Errorf("Pair %d: expected %+v, got %+v", i, want, got)
		}
	}
	if pairs[1].Raw != "Saldo promedio 10,500.00 diario" {
		t.Errorf("Expected raw text with continuation, got %q", pairs[1].Raw)
	}
}

func TestKeyValueExtractor_Headings(t *testing.T) {
	tests := []struct {
		name     string
		headings []string
		row      string
		expected string
	}{
		{"profile heading with accent", []string{"Informaci.n Financiera"}, "Información Financiera", "Información Financiera"},
		{"profile heading case insensitive", []string{"comisiones de la cuenta"}, "Comisiones de la Cuenta", "Comisiones de la Cuenta"},
		{"uppercase line", nil, "DETALLE DE CARGOS", "DETALLE DE CARGOS"},
		{"mixed case line is not a heading", nil, "Detalle de cargos", "Misc"},
		{"invalid heading pattern is literal", []string{"saldo en cuenta (moneda"}, "Saldo en cuenta (moneda", "Saldo en cuenta (moneda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := makeKeyValues(t, tt.headings, tt.row, "Saldo final 100.00")
			if len(pairs) != 1 {
				t.Fatalf("Expected 1 pair, got %d", len(pairs))
			}
			if pairs[0].Title != tt.expected {
				t.Errorf("Expected title %q, got %q", tt.expected, pairs[0].Title)
			}
		})
	}
}

func TestKeyValueExtractor_ValuesWithoutLabel(t *testing.T) {
	pairs := makeKeyValues(t, nil,
		"SALDOS",
		"Saldo inicial 100.00",
		"200.00",
	)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	for i, v := range []string{"100.00", "200.00"} {
		if pairs[i].Label != "Saldo inicial" || pairs[i].Value != v {
			t.Errorf("Pair %d: expected Saldo inicial %s, got %+v", i, v, pairs[i])
		}
	}
}

func TestKeyValueExtractor_ContinuationOnce(t *testing.T) {
	pairs := makeKeyValues(t, nil,
		"Intereses 5.00",
		"ganados",
		"en el mes",
	)
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Label != "Intereses ganados" {
		t.Errorf("Expected label %q, got %q", "Intereses ganados", pairs[0].Label)
	}
}

func TestKeyValueExtractor_Break(t *testing.T) {
	p := makeProfile()
	c, _ := makeCompiled(t, p)
	x := NewKeyValueExtractor(c, DefaultKeyValueConfig())

	x.Row("RESUMEN")
	x.Break()
	x.Row("Saldo 1.00")

	pairs := x.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Title != "Misc" {
		t.Errorf("Expected title Misc after break, got %q", pairs[0].Title)
	}
}

func TestKeyValueExtractor_Empty(t *testing.T) {
	pairs := makeKeyValues(t, nil, "", "   ", "Texto libre sin cifras")
	if len(pairs) != 0 {
		t.Errorf("Expected 0 pairs, got %d", len(pairs))
	}
}
