package ledger

import (
	"testing"

	"presupuestos/internal/core"
	"presupuestos/internal/sheets"
)

func TestNormalizeCanonicalRow(t *testing.T) {
	row := sheets.Row{
		"No. Salida":            "S-001",
		"Fecha Contabilizacion": "19/3/2025",
		"Valor Salida":          "1.500,00",
		"Costo Articulo":        "750,00",
		"Cantidad":              "2",
		"Departamento":          "Produccion",
		"Maquinaria":            "Torno 1",
		"Seccion":               "Hilatura",
		"Tipo Mantenimiento":    "Preventivo",
	}
	r, ok := Normalize(row, 7)
	if !ok {
		t.Fatalf("expected row to be kept")
	}
	if r.ID != 7 || r.IssueNumber != "S-001" {
		t.Fatalf("unexpected identity %d %q", r.ID, r.IssueNumber)
	}
	if r.IssuedValue != 1500 || r.UnitCost != 750 || r.Quantity != 2 {
		t.Fatalf("unexpected amounts %+v", r)
	}
	if r.Day != 19 || r.Month != 3 || r.WeekNumber != 12 {
		t.Fatalf("unexpected derived fields day=%d month=%d week=%d", r.Day, r.Month, r.WeekNumber)
	}
	if !r.Date.Equal(core.NewDate(2025, 3, 19)) || r.DateRaw != "19/3/2025" {
		t.Fatalf("unexpected date %v %q", r.Date, r.DateRaw)
	}
	if r.MaintenanceType != "Preventivo" || r.Machine != "Torno 1" {
		t.Fatalf("unexpected attributes %+v", r)
	}
}

func TestNormalizeAliases(t *testing.T) {
	row := sheets.Row{
		"No Salida":   "S-9",
		"Fecha":       "1/2/2025",
		"Valor":       "10,5",
		"Costo":       "10,5",
		"Autorizador": "Ana",
		"Tipo":        "Correctivo",
	}
	r, ok := Normalize(row, 0)
	if !ok {
		t.Fatalf("expected aliased row to be kept")
	}
	if r.IssueNumber != "S-9" || r.IssuedValue != 10.5 || r.Authorizer != "Ana" || r.MaintenanceType != "Correctivo" {
		t.Fatalf("aliases not applied: %+v", r)
	}
}

func TestNormalizeCanonicalBeatsAlias(t *testing.T) {
	row := sheets.Row{
		"Fecha Contabilizacion": "2/2/2025",
		"Fecha":                 "1/1/2020",
		"Valor Salida":          "5",
		"Valor":                 "99",
	}
	r, ok := Normalize(row, 0)
	if !ok || r.IssuedValue != 5 || r.Date.Year() != 2025 {
		t.Fatalf("canonical names should win, got %+v", r)
	}
	// an empty canonical cell falls through to the alias
	row["Valor Salida"] = ""
	if r, _ := Normalize(row, 0); r.IssuedValue != 99 {
		t.Fatalf("expected alias value, got %v", r.IssuedValue)
	}
}

func TestNormalizeKeepsRawDerivedFields(t *testing.T) {
	row := sheets.Row{
		"Fecha Contabilizacion": "19/3/2025",
		"Valor Salida":          "1",
		"Dia":                   "20",
		"Semana":                "13.0",
		"Mes":                   "x",
	}
	r, _ := Normalize(row, 0)
	if r.Day != 20 || r.WeekNumber != 13 || r.Month != 3 {
		t.Fatalf("unexpected derived fields %+v", r)
	}
}

func TestNormalizeDrops(t *testing.T) {
	tests := []struct {
		name string
		row  sheets.Row
	}{
		{"missing date", sheets.Row{"Valor Salida": "10"}},
		{"bad date", sheets.Row{"Fecha Contabilizacion": "2025-03-19", "Valor Salida": "10"}},
		{"zero value", sheets.Row{"Fecha Contabilizacion": "1/1/2025", "Valor Salida": "0,00"}},
		{"negative value", sheets.Row{"Fecha Contabilizacion": "1/1/2025", "Valor Salida": "-5"}},
		{"unparseable value", sheets.Row{"Fecha Contabilizacion": "1/1/2025", "Valor Salida": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Normalize(tt.row, 0); ok {
				t.Errorf("expected row to be dropped")
			}
		})
	}
}

func TestNormalizeClampsNegatives(t *testing.T) {
	row := sheets.Row{
		"Fecha Contabilizacion": "1/1/2025",
		"Valor Salida":          "10",
		"Costo Articulo":        "-3",
		"Cantidad":              "-2",
	}
	r, ok := Normalize(row, 0)
	if !ok || r.UnitCost != 0 || r.Quantity != 0 {
		t.Fatalf("expected clamped values, got %+v", r)
	}
}

func TestNormalizeAllIDs(t *testing.T) {
	rows := []sheets.Row{
		{"Fecha Contabilizacion": "1/1/2025", "Valor Salida": "1"},
		{"Fecha Contabilizacion": "bad", "Valor Salida": "1"},
		{"Fecha Contabilizacion": "3/1/2025", "Valor Salida": "1"},
	}
	got := NormalizeAll(rows, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 10 || got[1].ID != 12 {
		t.Fatalf("unexpected ids %d %d", got[0].ID, got[1].ID)
	}
}
