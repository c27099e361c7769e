package file

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"presupuestos/internal/sheets"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidate delimiters in tie-break order
var delimiters = []rune{',', ';', '\t', '|'}

// ReadCSV decodes delimited text with a header row. Input that is not valid
// UTF-8 is decoded as Windows-1252, the usual encoding of spreadsheet exports
// on Spanish-locale desktops. The delimiter is detected from the header line.
func ReadCSV(r io.Reader) (sheets.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return sheets.Table{}, fmt.Errorf("decode csv: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return sheets.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	for i, rec := range records {
		if !isBlankRecord(rec) {
			return sheets.NewTable(rec, records[i+1:]), nil
		}
	}
	return sheets.Table{}, ErrEmptyTable
}

func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	best, bestCount := delimiters[0], 0
	for _, d := range delimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

// WriteCSV encodes header and rows as comma-separated text with CRLF line
// endings. Cells are rendered with FormatCell.
func WriteCSV(w io.Writer, header []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(header))
	for i, row := range rows {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = FormatCell(row[j])
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell renders one export cell as text.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
