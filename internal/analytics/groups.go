// Package analytics computes KPIs, group totals, time series and
// hierarchies over record sets. Every function is pure: inputs are never
// modified and results are rebuilt on each call.
package analytics

import (
	"sort"

	"presupuestos/internal/core"
)

// Groups maps a field value to its records, in first-occurrence order.
type Groups struct {
	keys  []string
	items map[string][]core.Record
}

// Keys returns the group labels in first-occurrence order.
func (g *Groups) Keys() []string { return append([]string(nil), g.keys...) }

// Get returns the records of one group.
func (g *Groups) Get(key string) []core.Record { return g.items[key] }

// Len reports the number of groups.
func (g *Groups) Len() int { return len(g.keys) }

func newGroups() *Groups {
	return &Groups{items: map[string][]core.Record{}}
}

func (g *Groups) add(key string, r core.Record) {
	if _, ok := g.items[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.items[key] = append(g.items[key], r)
}

// GroupBy groups records by field f; empty values go under core.Unspecified.
func GroupBy(records []core.Record, f core.Field) (*Groups, error) {
	g := newGroups()
	for _, r := range records {
		v, err := r.Value(f)
		if err != nil {
			return nil, err
		}
		if v == "" {
			v = core.Unspecified
		}
		g.add(v, r)
	}
	return g, nil
}

func mustGroupBy(records []core.Record, f core.Field) *Groups {
	g, err := GroupBy(records, f)
	if err != nil {
		panic(err)
	}
	return g
}

// Sum totals the issued value of records.
func Sum(records []core.Record) float64 {
	var total float64
	for _, r := range records {
		total += r.IssuedValue
	}
	return total
}

// KPIs returns total, average, count and the machine with the highest
// issued value. Among equal totals the machine seen first wins.
func KPIs(records []core.Record) core.KPIs {
	if len(records) == 0 {
		return core.KPIs{TopMachine: core.NoTopMachine}
	}
	total := Sum(records)

	var order []string
	spending := map[string]float64{}
	for _, r := range records {
		if r.Machine == "" {
			continue
		}
		if _, ok := spending[r.Machine]; !ok {
			order = append(order, r.Machine)
		}
		spending[r.Machine] += r.IssuedValue
	}

	k := core.KPIs{
		Total:      total,
		Average:    total / float64(len(records)),
		Count:      len(records),
		TopMachine: core.NoTopMachine,
	}
	for _, m := range order {
		if k.TopMachine == core.NoTopMachine || spending[m] > k.TopMachineValue {
			k.TopMachine = m
			k.TopMachineValue = spending[m]
		}
	}
	return k
}

func groupTotals(g *Groups) []core.GroupTotal {
	out := make([]core.GroupTotal, 0, g.Len())
	for _, key := range g.keys {
		items := g.items[key]
		out = append(out, core.GroupTotal{Name: key, Total: Sum(items), Count: len(items)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// DepartmentAggregation totals records per department, highest first.
func DepartmentAggregation(records []core.Record) []core.GroupTotal {
	return groupTotals(mustGroupBy(records, core.FieldDepartment))
}

// MaintenanceTypeAggregation totals records per maintenance type, highest
// first.
func MaintenanceTypeAggregation(records []core.Record) []core.GroupTotal {
	return groupTotals(mustGroupBy(records, core.FieldMaintenanceType))
}

// TopMachines returns the limit machines with the highest issued value.
// A non-positive limit means core.DefaultTopLimit.
func TopMachines(records []core.Record, limit int) []core.MachineTotal {
	if limit <= 0 {
		limit = core.DefaultTopLimit
	}
	g := mustGroupBy(records, core.FieldMachine)
	out := make([]core.MachineTotal, 0, g.Len())
	for _, key := range g.keys {
		items := g.items[key]
		out = append(out, core.MachineTotal{
			Machine:    key,
			Total:      Sum(items),
			Count:      len(items),
			Department: items[0].Department,
			Section:    items[0].Section,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MachineData returns the drill-down of one machine, or nil when no record
// names it. Records are ordered most recent first.
func MachineData(records []core.Record, name string) *core.MachineDetail {
	var matched []core.Record
	for _, r := range records {
		if r.Machine == name {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	// department and section come from the first record in source order
	d := &core.MachineDetail{
		Name:       name,
		Department: matched[0].Department,
		Section:    matched[0].Section,
		Total:      Sum(matched),
		Count:      len(matched),
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	d.Records = matched
	return d
}
