package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"presupuestos/internal/analytics"
	"presupuestos/internal/core"
	"presupuestos/internal/sheets"
)

// ImportMode selects how imported records combine with the current data.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportAppend  ImportMode = "append"
)

// ParseImportMode validates a mode name; empty means replace.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportAppend, "merge":
		return ImportAppend, nil
	}
	return "", fmt.Errorf("invalid import mode %q: must be replace or append", s)
}

// ImportResult summarizes a successful import.
type ImportResult struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Store holds the loaded records and the subset selected by the active
// filter. It is not safe for concurrent use; one owner serializes access.
type Store struct {
	raw      []core.Record
	filtered []core.Record
	filter   core.FilterState
	revision uint64
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the dataset with the normalized rows of src. On failure the
// previous dataset is kept and a *LoadError is returned.
func (s *Store) Load(ctx context.Context, src sheets.TableReader) ([]core.Record, error) {
	tbl, err := src.ReadTable(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Message: readFailureMessage(src.Name(), err), Err: err}
	}
	records := NormalizeAll(tbl.Rows, 0)
	s.raw = records
	s.filtered = records
	s.filter = core.FilterState{}
	s.revision++

	slog.InfoContext(ctx, "Ledger loaded",
		"source", src.Name(),
		"rows", len(tbl.Rows),
		"records", len(records),
		"dropped", len(tbl.Rows)-len(records))
	return s.Raw(), nil
}

// Import merges or replaces the dataset with the normalized rows of src.
// Afterwards the filtered subset equals the full dataset; the caller must
// reapply filters. On failure nothing changes and an *ImportError is
// returned.
func (s *Store) Import(ctx context.Context, src sheets.TableReader, mode ImportMode) (ImportResult, error) {
	tbl, err := src.ReadTable(ctx)
	if err != nil {
		return ImportResult{}, &ImportError{Source: src.Name(), Message: readFailureMessage(src.Name(), err), Err: err}
	}

	offset := 0
	if mode == ImportAppend {
		offset = s.nextID()
	}
	imported := NormalizeAll(tbl.Rows, offset)

	switch mode {
	case ImportAppend:
		merged := make([]core.Record, 0, len(s.raw)+len(imported))
		merged = append(merged, s.raw...)
		s.raw = append(merged, imported...)
	default:
		s.raw = imported
	}
	s.filtered = s.raw
	s.filter = core.FilterState{}
	s.revision++

	slog.InfoContext(ctx, "Ledger imported",
		"source", src.Name(),
		"mode", string(mode),
		"rows", len(tbl.Rows),
		"imported", len(imported),
		"total", len(s.raw))
	return ImportResult{
		Count:   len(imported),
		Message: fmt.Sprintf("Se importaron %d registros correctamente.", len(imported)),
	}, nil
}

// nextID is one past the highest id in the dataset. Dropped rows leave gaps,
// so the record count can be lower than the next free id.
func (s *Store) nextID() int {
	next := 0
	for _, r := range s.raw {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

// ApplyFilter selects the records matching state, keeping source order.
func (s *Store) ApplyFilter(state core.FilterState) []core.Record {
	out := make([]core.Record, 0, len(s.raw))
	for _, r := range s.raw {
		if state.Matches(r) {
			out = append(out, r)
		}
	}
	s.filtered = out
	s.filter = state
	s.revision++
	return s.Filtered()
}

// Filter returns the active filter.
func (s *Store) Filter() core.FilterState { return s.filter }

// Revision changes every time the dataset or the filtered subset changes.
func (s *Store) Revision() uint64 { return s.revision }

// Raw returns a copy of the full dataset.
func (s *Store) Raw() []core.Record { return append([]core.Record(nil), s.raw...) }

// Filtered returns a copy of the filtered subset.
func (s *Store) Filtered() []core.Record { return append([]core.Record(nil), s.filtered...) }

// Len reports the size of the full dataset.
func (s *Store) Len() int { return len(s.raw) }

// FilteredLen reports the size of the filtered subset.
func (s *Store) FilteredLen() int { return len(s.filtered) }

// UniqueValues returns the sorted distinct non-empty values of f.
func (s *Store) UniqueValues(f core.Field) ([]string, error) {
	seen := map[string]struct{}{}
	for _, r := range s.raw {
		v, err := r.Value(f)
		if err != nil {
			return nil, err
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// UniqueYears returns the sorted distinct years of the dataset.
func (s *Store) UniqueYears() []int {
	seen := map[int]struct{}{}
	for _, r := range s.raw {
		seen[r.Year()] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Machines returns every distinct machine of the full dataset, the
// candidate list for production-line configuration.
func (s *Store) Machines() []string {
	out, _ := s.UniqueValues(core.FieldMachine)
	return out
}

// Aggregations over the filtered subset.

func (s *Store) KPIs() core.KPIs { return analytics.KPIs(s.filtered) }

func (s *Store) GroupBy(f core.Field) (*analytics.Groups, error) {
	return analytics.GroupBy(s.filtered, f)
}

func (s *Store) DepartmentAggregation() []core.GroupTotal {
	return analytics.DepartmentAggregation(s.filtered)
}

func (s *Store) MaintenanceTypeAggregation() []core.GroupTotal {
	return analytics.MaintenanceTypeAggregation(s.filtered)
}

func (s *Store) TopMachines(limit int) []core.MachineTotal {
	return analytics.TopMachines(s.filtered, limit)
}

func (s *Store) MonthlyTimeSeries() []core.SeriesPoint {
	return analytics.MonthlyTimeSeries(s.filtered)
}

func (s *Store) WeeklyTimeSeries() []core.SeriesPoint {
	return analytics.WeeklyTimeSeries(s.filtered)
}

func (s *Store) Hierarchy() *core.Hierarchy { return analytics.BuildHierarchy(s.filtered) }

func (s *Store) ProductionLineHierarchy(lines map[string]struct{}) *core.ProductionLineHierarchy {
	return analytics.BuildProductionLineHierarchy(s.filtered, lines)
}

func (s *Store) ProductionLineAggregation(lines map[string]struct{}) []core.ProductionLineTotal {
	return analytics.ProductionLineAggregation(s.filtered, lines)
}

func (s *Store) MachineData(name string) *core.MachineDetail {
	return analytics.MachineData(s.filtered, name)
}

// PeriodBreakdown totals one month over the full dataset, ignoring the
// active filter.
func (s *Store) PeriodBreakdown(year, month int) core.PeriodBreakdown {
	return analytics.PeriodBreakdown(s.raw, year, month)
}
