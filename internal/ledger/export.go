package ledger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"presupuestos/internal/core"
	"presupuestos/internal/sheets/file"
)

// Scope selects which records an export covers.
type Scope string

const (
	ScopeFiltered Scope = "filtered"
	ScopeAll      Scope = "all"
)

// ParseScope validates a scope name; empty means filtered.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeFiltered:
		return ScopeFiltered, nil
	case ScopeAll:
		return ScopeAll, nil
	}
	return "", fmt.Errorf("invalid export scope %q: must be filtered or all", s)
}

// ExportRow holds one record's cells aligned with ExportHeader. Day, week
// and month are ints, quantity is a float64, every other cell is a string.
type ExportRow = []any

// ToExportRows projects records onto the canonical ledger schema, the
// inverse of Normalize for canonical column names.
func ToExportRows(records []core.Record) []ExportRow {
	rows := make([]ExportRow, len(records))
	for i, r := range records {
		rows[i] = ExportRow{
			r.IssueNumber,
			core.FormatDateForExport(r.Date),
			r.Day,
			r.WeekNumber,
			r.Month,
			r.ItemCode,
			r.ItemDescription,
			r.Quantity,
			core.FormatCurrencyForExport(r.UnitCost),
			core.FormatCurrencyForExport(r.IssuedValue),
			r.Authorizer,
			r.Supervisor,
			r.Department,
			r.Machine,
			r.Section,
			r.Market,
			r.Comment,
			r.WarehouseClerk,
			r.MaintenanceType,
		}
	}
	return rows
}

// WriteCSV writes records as delimited text in the ledger schema.
func WriteCSV(w io.Writer, records []core.Record) error {
	return file.WriteCSV(w, ExportHeader, ToExportRows(records))
}

// WriteXLSX writes records as a workbook in the ledger schema.
func WriteXLSX(w io.Writer, records []core.Record) error {
	return file.WriteXLSX(w, file.DefaultSheetName, ExportHeader, ToExportRows(records))
}

// Write encodes records in the given format.
func Write(w io.Writer, format file.Format, records []core.Record) error {
	switch format {
	case file.FormatCSV:
		return WriteCSV(w, records)
	case file.FormatXLSX:
		return WriteXLSX(w, records)
	}
	return fmt.Errorf("%w: %q", file.ErrUnsupportedFormat, format)
}

// ExportFilename stamps the scope and date on an export file name, e.g.
// "presupuestos_filtered_2025-03-19.csv".
func ExportFilename(scope Scope, format file.Format, now time.Time) string {
	return fmt.Sprintf("presupuestos_%s_%s.%s", scope, now.Format("2006-01-02"), format)
}

// ContentType returns the MIME type of an export format.
func ContentType(format file.Format) string {
	if format == file.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
