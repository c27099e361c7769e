// Package file reads and writes ledger tables as delimited text or Excel
// workbooks.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"presupuestos/internal/sheets"
)

// Format is a supported tabular encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyTable        = errors.New("file has no header row")
)

// FormatFromName picks the encoding from a file extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xls":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// ParseFormat validates a format name given on the command line or API.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Source reads a table from a file on disk.
type Source struct {
	Path string
}

var _ sheets.TableReader = Source{}

func (s Source) Name() string { return s.Path }

// ReadTable reads the whole file. The extension selects the decoder.
func (s Source) ReadTable(ctx context.Context) (sheets.Table, error) {
	format, err := FormatFromName(s.Path)
	if err != nil {
		return sheets.Table{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return decode(ctx, format, data)
}

// Upload is an in-memory file, such as a multipart import.
type Upload struct {
	Filename string
	Data     []byte
}

var _ sheets.TableReader = (*Upload)(nil)

// NewUpload wraps uploaded bytes under their original file name.
func NewUpload(name string, data []byte) *Upload {
	return &Upload{Filename: name, Data: data}
}

func (u *Upload) Name() string { return u.Filename }

func (u *Upload) ReadTable(ctx context.Context) (sheets.Table, error) {
	format, err := FormatFromName(u.Filename)
	if err != nil {
		return sheets.Table{}, err
	}
	return decode(ctx, format, u.Data)
}

func decode(ctx context.Context, format Format, data []byte) (sheets.Table, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Table{}, err
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(bytes.NewReader(data))
	default:
		return ReadCSV(bytes.NewReader(data))
	}
}
