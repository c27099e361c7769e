package analytics

import (
	"sort"

	"presupuestos/internal/core"
)

// MonthlyTimeSeries totals records per "YYYY-MM" period in chronological
// order. The month is the record's month field.
func MonthlyTimeSeries(records []core.Record) []core.SeriesPoint {
	return series(records, func(r core.Record) core.SeriesPoint {
		return core.SeriesPoint{Period: core.MonthKey(r.Year(), r.Month), Year: r.Year(), Month: r.Month}
	})
}

// WeeklyTimeSeries totals records per "YYYY-Www" period in chronological
// order. The year is the calendar year of the date and the week is the
// record's ISO week number.
func WeeklyTimeSeries(records []core.Record) []core.SeriesPoint {
	return series(records, func(r core.Record) core.SeriesPoint {
		return core.SeriesPoint{Period: core.WeekKey(r.Year(), r.WeekNumber), Year: r.Year(), Week: r.WeekNumber}
	})
}

func series(records []core.Record, keyOf func(core.Record) core.SeriesPoint) []core.SeriesPoint {
	points := map[string]*core.SeriesPoint{}
	for _, r := range records {
		k := keyOf(r)
		p, ok := points[k.Period]
		if !ok {
			p = &k
			points[k.Period] = p
		}
		p.Total += r.IssuedValue
		p.Count++
	}
	out := make([]core.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// PeriodBreakdown totals the records of one calendar month by department
// and maintenance type. Callers pass the full dataset so that drill-down
// ignores active filters.
func PeriodBreakdown(records []core.Record, year, month int) core.PeriodBreakdown {
	b := core.PeriodBreakdown{Year: year, Month: month}
	byDept := newTotals()
	byType := newTotals()
	for _, r := range records {
		if r.Year() != year || r.Month != month {
			continue
		}
		b.Total += r.IssuedValue
		b.Count++
		byDept.add(labelOr(r.Department, core.NoDepartment), r.IssuedValue)
		byType.add(labelOr(r.MaintenanceType, core.NoType), r.IssuedValue)
	}
	b.ByDepartment = byDept.list()
	b.ByType = byType.list()
	return b
}

// totals accumulates sums and counts per label in first-occurrence order.
type totals struct {
	order []string
	sums  map[string]*core.GroupTotal
}

func newTotals() *totals {
	return &totals{sums: map[string]*core.GroupTotal{}}
}

func (t *totals) add(label string, v float64) {
	g, ok := t.sums[label]
	if !ok {
		g = &core.GroupTotal{Name: label}
		t.sums[label] = g
		t.order = append(t.order, label)
	}
	g.Total += v
	g.Count++
}

func (t *totals) list() []core.GroupTotal {
	out := make([]core.GroupTotal, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, *t.sums[label])
	}
	return out
}

func labelOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
