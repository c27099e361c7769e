package sheets

import (
	"context"
	"strings"
)

type (
	// Row maps a header name to the cell text of one data row. Columns absent
	// from the source are absent from the map.
	Row map[string]string

	// Table is a header row followed by data rows.
	Table struct {
		Header []string
		Rows   []Row
	}
)

// Ports for inbound sources and configuration storage.
type (
	// TableReader reads one tabular source in full.
	TableReader interface {
		ReadTable(ctx context.Context) (Table, error)
		// Name identifies the source in logs and error messages.
		Name() string
	}

	// ConfigStore persists named lists of strings.
	ConfigStore interface {
		// GetStrings returns the list stored under key, or nil when unset.
		GetStrings(ctx context.Context, key string) ([]string, error)
		// SetStrings replaces the list stored under key.
		SetStrings(ctx context.Context, key string, values []string) error
	}
)

// Get returns the first non-empty value among names, in order.
func (r Row) Get(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(r[n]); v != "" {
			return v
		}
	}
	return ""
}

// NewTable builds a Table from a header and positional records. Cells past
// the header width are ignored; records with only blank cells are skipped.
func NewTable(header []string, records [][]string) Table {
	h := make([]string, len(header))
	for i, name := range header {
		h[i] = strings.TrimSpace(name)
	}
	t := Table{Header: h}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(h))
		for i, name := range h {
			if name == "" || i >= len(rec) {
				continue
			}
			row[name] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
