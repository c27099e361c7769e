package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"presupuestos/internal/analytics"
	"presupuestos/internal/core"
	"presupuestos/internal/ledger"
	"presupuestos/internal/productionline"
	"presupuestos/internal/sheets"
	"presupuestos/internal/sheets/file"
)

// Publisher announces dataset and configuration changes.
type Publisher interface {
	PublishDatasetImported(ctx context.Context, source, mode string, imported, total int) error
	PublishProductionLinesSaved(ctx context.Context, total int) error
}

// FilterOptions lists the values each filter control can take.
type FilterOptions struct {
	Years            []int    `json:"years"`
	Departments      []string `json:"departments"`
	Sections         []string `json:"sections"`
	MaintenanceTypes []string `json:"maintenanceTypes"`
}

// Dashboard is the single owner of the dataset store. Every mutation is
// serialized with every read, so handlers running on many goroutines see
// one consistent snapshot per call.
type Dashboard struct {
	mu        sync.RWMutex
	store     *ledger.Store
	lines     *productionline.Config
	publisher Publisher
	closers   []io.Closer
}

// NewDashboard wires a store and a production-line configuration. The
// publisher may be nil. Closers are closed by Close in order.
func NewDashboard(store *ledger.Store, lines *productionline.Config, publisher Publisher, closers ...io.Closer) *Dashboard {
	return &Dashboard{
		store:     store,
		lines:     lines,
		publisher: publisher,
		closers:   closers,
	}
}

// Load replaces the dataset with src and returns the number of records kept.
func (d *Dashboard) Load(ctx context.Context, src sheets.TableReader) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	records, err := d.store.Load(ctx, src)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import merges or replaces the dataset with src and resets the filter.
func (d *Dashboard) Import(ctx context.Context, src sheets.TableReader, mode ledger.ImportMode) (ledger.ImportResult, error) {
	d.mu.Lock()
	res, err := d.store.Import(ctx, src, mode)
	total := d.store.Len()
	d.mu.Unlock()
	if err != nil {
		return res, err
	}

	if d.publisher == nil {
		slog.DebugContext(ctx, "No event publisher, skipping import event")
		return res, nil
	}
	if err := d.publisher.PublishDatasetImported(ctx, src.Name(), string(mode), res.Count, total); err != nil {
		slog.ErrorContext(ctx, "Failed to publish import event", "source", src.Name(), "error", err)
	}
	return res, nil
}

// ApplyFilter selects the working subset and returns its size.
func (d *Dashboard) ApplyFilter(state core.FilterState) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.store.ApplyFilter(state))
}

// ResetFilter selects the whole dataset.
func (d *Dashboard) ResetFilter() int {
	return d.ApplyFilter(core.FilterState{})
}

func (d *Dashboard) Filter() core.FilterState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Filter()
}

// Options lists the filter values present in the full dataset.
func (d *Dashboard) Options() FilterOptions {
	d.mu.RLock()
	defer d.mu.RUnlock()
	opts := FilterOptions{Years: d.store.UniqueYears()}
	opts.Departments, _ = d.store.UniqueValues(core.FieldDepartment)
	opts.Sections, _ = d.store.UniqueValues(core.FieldSection)
	opts.MaintenanceTypes, _ = d.store.UniqueValues(core.FieldMaintenanceType)
	return opts
}

func (d *Dashboard) UniqueValues(f core.Field) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.UniqueValues(f)
}

// Revision identifies the current dataset and filter state.
func (d *Dashboard) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Revision()
}

// Len reports the size of the full dataset.
func (d *Dashboard) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Len()
}

// Counts reports the sizes of the filtered subset and the full dataset.
func (d *Dashboard) Counts() (filtered, total int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.FilteredLen(), d.store.Len()
}

// Records returns the filtered subset.
func (d *Dashboard) Records() []core.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Filtered()
}

func (d *Dashboard) KPIs() core.KPIs {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.KPIs()
}

func (d *Dashboard) GroupBy(f core.Field) (*analytics.Groups, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.GroupBy(f)
}

func (d *Dashboard) Departments() []core.GroupTotal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.DepartmentAggregation()
}

func (d *Dashboard) MaintenanceTypes() []core.GroupTotal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.MaintenanceTypeAggregation()
}

func (d *Dashboard) TopMachines(limit int) []core.MachineTotal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.TopMachines(limit)
}

func (d *Dashboard) MonthlySeries() []core.SeriesPoint {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.MonthlyTimeSeries()
}

func (d *Dashboard) WeeklySeries() []core.SeriesPoint {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.WeeklyTimeSeries()
}

func (d *Dashboard) Hierarchy() *core.Hierarchy {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Hierarchy()
}

// MachineData returns the drill-down of one machine, or nil.
func (d *Dashboard) MachineData(name string) *core.MachineDetail {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.MachineData(name)
}

// PeriodBreakdown totals one month of the full dataset.
func (d *Dashboard) PeriodBreakdown(year, month int) core.PeriodBreakdown {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.PeriodBreakdown(year, month)
}

// Machines lists every machine in the full dataset, production line or not.
func (d *Dashboard) Machines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.Machines()
}

func (d *Dashboard) Lines(ctx context.Context) []string {
	return d.lines.Lines(ctx)
}

func (d *Dashboard) IsProductionLine(ctx context.Context, machine string) bool {
	return d.lines.IsProductionLine(ctx, machine)
}

// SaveLines replaces the production-line list and returns what was stored.
func (d *Dashboard) SaveLines(ctx context.Context, lines []string) ([]string, error) {
	saved, err := d.lines.Save(ctx, lines)
	if err != nil {
		return nil, err
	}
	if d.publisher == nil {
		return saved, nil
	}
	if err := d.publisher.PublishProductionLinesSaved(ctx, len(saved)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish production lines event", "error", err)
	}
	return saved, nil
}

func (d *Dashboard) ProductionLineHierarchy(ctx context.Context) *core.ProductionLineHierarchy {
	set := d.lines.Set(ctx)
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.ProductionLineHierarchy(set)
}

func (d *Dashboard) ProductionLineSummary(ctx context.Context) []core.ProductionLineTotal {
	set := d.lines.Set(ctx)
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.store.ProductionLineAggregation(set)
}

// Export writes the filtered subset or the full dataset and returns the
// number of records written.
func (d *Dashboard) Export(w io.Writer, scope ledger.Scope, format file.Format) (int, error) {
	d.mu.RLock()
	records := d.store.Filtered()
	if scope == ledger.ScopeAll {
		records = d.store.Raw()
	}
	d.mu.RUnlock()

	if err := ledger.Write(w, format, records); err != nil {
		return 0, fmt.Errorf("export %s: %w", format, err)
	}
	return len(records), nil
}

// Close closes the attached resources and reports every failure.
func (d *Dashboard) Close() error {
	var errs []error
	for _, c := range d.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close dashboard: %v", errs)
	}
	return nil
}
