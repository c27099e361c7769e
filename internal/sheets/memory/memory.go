package memory

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"presupuestos/internal/sheets"
)

// ConfigStore keeps named string lists in process memory.
type ConfigStore struct {
	mu    sync.Mutex
	slots map[string][]string
}

var _ sheets.ConfigStore = (*ConfigStore)(nil)

func NewConfigStore() *ConfigStore {
	return &ConfigStore{slots: map[string][]string{}}
}

// NewConfigStoreFromFile seeds the slot key with one value per line of path.
// Blank lines and lines starting with '#' are ignored; a missing file leaves
// the slot unset.
func NewConfigStoreFromFile(key, path string) *ConfigStore {
	s := NewConfigStore()
	if lines := readLines(path); len(lines) > 0 {
		s.slots[key] = lines
	}
	return s
}

func (s *ConfigStore) GetStrings(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), v...), nil
}

func (s *ConfigStore) SetStrings(_ context.Context, key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]string(nil), values...)
	return nil
}

// Table serves a fixed table, useful in tests and for seeded data.
type Table struct {
	Label string
	Data  sheets.Table
	Err   error
}

var _ sheets.TableReader = (*Table)(nil)

func (t *Table) Name() string {
	if t.Label == "" {
		return "memory"
	}
	return t.Label
}

func (t *Table) ReadTable(ctx context.Context) (sheets.Table, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Table{}, err
	}
	if t.Err != nil {
		return sheets.Table{}, t.Err
	}
	return t.Data, nil
}

// Rows builds a memory table from rows, deriving the header from the keys
// of the first row.
func Rows(rows ...sheets.Row) *Table {
	var header []string
	if len(rows) > 0 {
		for k := range rows[0] {
			header = append(header, k)
		}
	}
	return &Table{Data: sheets.Table{Header: header, Rows: rows}}
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
