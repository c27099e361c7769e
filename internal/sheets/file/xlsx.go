package file

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"presupuestos/internal/sheets"
)

// DefaultSheetName names the worksheet of exported workbooks.
const DefaultSheetName = "Presupuestos"

// ReadXLSX decodes the first worksheet of a workbook. The first non-blank row
// is the header.
func ReadXLSX(r io.Reader) (sheets.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return sheets.Table{}, ErrEmptyTable
	}
	rows, err := f.GetRows(list[0])
	if err != nil {
		return sheets.Table{}, fmt.Errorf("read sheet %q: %w", list[0], err)
	}
	for i, rec := range rows {
		if !isBlankRecord(rec) {
			return sheets.NewTable(rec, rows[i+1:]), nil
		}
	}
	return sheets.Table{}, ErrEmptyTable
}

// WriteXLSX encodes header and rows as a single-sheet workbook. Numeric
// cells stay numeric.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]any) error {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
