package google

import "testing"

func TestParseValues_LedgerRange(t *testing.T) {
	values := [][]interface{}{
		{},
		{"No. Salida", "Fecha Contabilizacion", "Dia", "Valor Salida", "Maquinaria"},
		{"S-001", "19/3/2025", 19.0, "1.500,00", "Torno 1"},
		{"", "", "", ""},
		{"S-002", "20/3/2025"},
	}
	tbl, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(tbl.Header) != 5 || tbl.Header[0] != "No. Salida" {
		t.Fatalf("unexpected header: %v", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Rows[0]["Dia"]; got != "19" {
		t.Fatalf("numeric cell: got %q", got)
	}
	if got := tbl.Rows[0]["Valor Salida"]; got != "1.500,00" {
		t.Fatalf("value cell: got %q", got)
	}
	if _, ok := tbl.Rows[1]["Maquinaria"]; ok {
		t.Fatalf("short row must not carry missing cells")
	}
}

func TestParseValues_Empty(t *testing.T) {
	if _, err := parseValues(nil); err == nil {
		t.Fatalf("expected error for empty matrix")
	}
	if _, err := parseValues([][]interface{}{{"", ""}}); err == nil {
		t.Fatalf("expected error for blank header")
	}
}
