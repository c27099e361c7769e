package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSVCommaWithBOM(t *testing.T) {
	in := "\xEF\xBB\xBFNo. Salida,Fecha Contabilizacion,Valor Salida\r\n" +
		"S-1,19/3/2025,\"1.500,00\"\r\n" +
		"\r\n" +
		",,\r\n" +
		"S-2,20/3/2025,\"250,50\"\r\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Header[0] != "No. Salida" {
		t.Fatalf("BOM not stripped: %q", tbl.Header[0])
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(tbl.Rows), tbl.Rows)
	}
	if tbl.Rows[0]["Valor Salida"] != "1.500,00" {
		t.Fatalf("unexpected value %q", tbl.Rows[0]["Valor Salida"])
	}
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	in := "Fecha;Valor;Maquinaria\n19/3/2025;1.500,00;Torno 1\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Header) != 3 || tbl.Rows[0]["Maquinaria"] != "Torno 1" || tbl.Rows[0]["Valor"] != "1.500,00" {
		t.Fatalf("unexpected table: %+v", tbl)
	}
}

func TestReadCSVWindows1252(t *testing.T) {
	// "Sección" encoded as Windows-1252
	in := []byte("Seccion,Comentario\nA,Secci\xf3n nueva\n")
	tbl, err := ReadCSV(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := tbl.Rows[0]["Comentario"]; got != "Sección nueva" {
		t.Fatalf("expected decoded text, got %q", got)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("\n\n")); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"A", "B", "C", "D"}, [][]any{
		{"x,y", 3, 2.5, "1.500,00"},
		{"plain"},
	})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "A,B,C,D\r\n\"x,y\",3,2.5,\"1.500,00\"\r\nplain,,,\r\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"Fecha Contabilizacion", "Dia", "Cantidad", "Valor Salida"}
	rows := [][]any{
		{"19/03/2025", 19, 2.5, "1.500,00"},
		{"20/03/2025", 20, 1.0, "10,00"},
	}
	if err := WriteXLSX(&buf, "", header, rows); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	tbl, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	r := tbl.Rows[0]
	if r["Fecha Contabilizacion"] != "19/03/2025" || r["Dia"] != "19" || r["Cantidad"] != "2.5" || r["Valor Salida"] != "1.500,00" {
		t.Fatalf("unexpected first row: %v", r)
	}
}

func TestFormatFromName(t *testing.T) {
	cases := map[string]Format{"a.csv": FormatCSV, "B.CSV": FormatCSV, "x.xlsx": FormatXLSX, "old.xls": FormatXLSX}
	for name, want := range cases {
		got, err := FormatFromName(name)
		if err != nil || got != want {
			t.Fatalf("%s: got %q err=%v", name, got, err)
		}
	}
	if _, err := FormatFromName("notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSourceAndUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	if err := os.WriteFile(path, []byte("Fecha,Valor\n1/1/2025,\"5,00\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := Source{Path: path}.ReadTable(context.Background())
	if err != nil || len(tbl.Rows) != 1 {
		t.Fatalf("unexpected source read: %+v err=%v", tbl, err)
	}
	if _, err := (Source{Path: filepath.Join(dir, "missing.csv")}).ReadTable(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	up := NewUpload("import.json", []byte("{}"))
	if _, err := up.ReadTable(context.Background()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
