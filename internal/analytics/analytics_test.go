package analytics

import (
	"math"
	"testing"

	"presupuestos/internal/core"
)

func rec(id int, y, m, d int, value float64, dept, machine, section, typ string) core.Record {
	date := core.NewDate(y, m, d)
	return core.Record{
		ID:              id,
		Date:            date,
		Day:             d,
		Month:           m,
		WeekNumber:      core.WeekNumber(date),
		IssuedValue:     value,
		Department:      dept,
		Machine:         machine,
		Section:         section,
		MaintenanceType: typ,
	}
}

func sample() []core.Record {
	return []core.Record{
		rec(0, 2025, 3, 19, 100, "Produccion", "Torno 1", "Hilatura", "Preventivo"),
		rec(1, 2025, 3, 20, 50, "Produccion", "Torno 2", "Hilatura", "Correctivo"),
		rec(2, 2025, 4, 2, 200, "Mantenimiento", "Torno 1", "Tejeduria", "Preventivo"),
		rec(3, 2024, 12, 31, 25, "", "", "", ""),
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestKPIsEmpty(t *testing.T) {
	k := KPIs(nil)
	if k.Total != 0 || k.Average != 0 || k.Count != 0 || k.TopMachine != "-" || k.TopMachineValue != 0 {
		t.Fatalf("unexpected empty KPIs %+v", k)
	}
}

func TestKPIs(t *testing.T) {
	k := KPIs(sample())
	if !almostEqual(k.Total, 375) || k.Count != 4 || !almostEqual(k.Average, 93.75) {
		t.Fatalf("unexpected KPIs %+v", k)
	}
	if k.TopMachine != "Torno 1" || !almostEqual(k.TopMachineValue, 300) {
		t.Fatalf("unexpected top machine %q %v", k.TopMachine, k.TopMachineValue)
	}
}

func TestKPIsTieKeepsFirstSeen(t *testing.T) {
	records := []core.Record{
		rec(0, 2025, 1, 1, 10, "", "B", "", ""),
		rec(1, 2025, 1, 2, 10, "", "A", "", ""),
	}
	if k := KPIs(records); k.TopMachine != "B" {
		t.Fatalf("expected first seen machine B, got %q", k.TopMachine)
	}
}

func TestKPIsNoMachines(t *testing.T) {
	records := []core.Record{rec(0, 2025, 1, 1, 10, "", "", "", "")}
	if k := KPIs(records); k.TopMachine != "-" || k.Count != 1 {
		t.Fatalf("unexpected KPIs %+v", k)
	}
}

func TestGroupBy(t *testing.T) {
	g, err := GroupBy(sample(), core.FieldDepartment)
	if err != nil {
		t.Fatalf("GroupBy: %v", err)
	}
	keys := g.Keys()
	want := []string{"Produccion", "Mantenimiento", core.Unspecified}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if n := len(g.Get("Produccion")); n != 2 {
		t.Fatalf("expected 2 Produccion records, got %d", n)
	}
	if _, err := GroupBy(sample(), core.Field("nope")); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDepartmentAggregation(t *testing.T) {
	got := DepartmentAggregation(sample())
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(got))
	}
	if got[0].Name != "Mantenimiento" || !almostEqual(got[0].Total, 200) {
		t.Fatalf("unexpected first group %+v", got[0])
	}
	if got[1].Name != "Produccion" || got[1].Count != 2 {
		t.Fatalf("unexpected second group %+v", got[1])
	}
	if got[2].Name != core.Unspecified {
		t.Fatalf("expected unspecified last, got %+v", got[2])
	}
}

func TestMaintenanceTypeAggregation(t *testing.T) {
	got := MaintenanceTypeAggregation(sample())
	if got[0].Name != "Preventivo" || !almostEqual(got[0].Total, 300) {
		t.Fatalf("unexpected first type %+v", got[0])
	}
}

func TestTopMachines(t *testing.T) {
	got := TopMachines(sample(), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(got))
	}
	if got[0].Machine != "Torno 1" || got[0].Department != "Produccion" || got[0].Section != "Hilatura" {
		t.Fatalf("unexpected top machine %+v", got[0])
	}
	if got[1].Machine != "Torno 2" {
		t.Fatalf("unexpected second machine %+v", got[1])
	}
	if all := TopMachines(sample(), 0); len(all) != 3 {
		t.Fatalf("default limit should keep all 3 machines, got %d", len(all))
	}
}

func TestMonthlyTimeSeries(t *testing.T) {
	got := MonthlyTimeSeries(sample())
	want := []struct {
		period string
		total  float64
	}{
		{"2024-12", 25},
		{"2025-03", 150},
		{"2025-04", 200},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Period != w.period || !almostEqual(got[i].Total, w.total) {
			t.Errorf("point %d = %+v, want %s %v", i, got[i], w.period, w.total)
		}
	}
}

func TestWeeklyTimeSeriesUsesCalendarYear(t *testing.T) {
	got := WeeklyTimeSeries(sample())
	if got[0].Period != "2024-W01" || got[0].Week != 1 {
		t.Fatalf("expected 2024-W01 first, got %+v", got[0])
	}
	if got[len(got)-1].Period != "2025-W14" {
		t.Fatalf("unexpected last period %+v", got[len(got)-1])
	}
}

func TestBuildHierarchy(t *testing.T) {
	records := sample()
	h := BuildHierarchy(records)
	if !almostEqual(h.Total, KPIs(records).Total) {
		t.Fatalf("root total %v differs from KPI total", h.Total)
	}
	prod := h.Department("Produccion")
	if prod == nil || !almostEqual(prod.Total, 150) {
		t.Fatalf("unexpected Produccion node %+v", prod)
	}
	hil := prod.Section("Hilatura")
	if hil == nil || len(hil.Machines) != 2 {
		t.Fatalf("unexpected Hilatura node %+v", hil)
	}
	if m := hil.Machine("Torno 2"); m == nil || len(m.Records) != 1 || m.Records[0].ID != 1 {
		t.Fatalf("unexpected Torno 2 node %+v", m)
	}
	none := h.Department(core.NoDepartment)
	if none == nil || none.Section(core.NoSection).Machine(core.NoMachine) == nil {
		t.Fatalf("missing placeholder labels in hierarchy")
	}

	var sum float64
	for _, d := range h.Departments {
		var dsum float64
		for _, s := range d.Sections {
			var ssum float64
			for _, m := range s.Machines {
				ssum += m.Total
			}
			if !almostEqual(ssum, s.Total) {
				t.Fatalf("section %s total %v, children sum %v", s.Name, s.Total, ssum)
			}
			dsum += s.Total
		}
		if !almostEqual(dsum, d.Total) {
			t.Fatalf("department %s total %v, children sum %v", d.Name, d.Total, dsum)
		}
		sum += d.Total
	}
	if !almostEqual(sum, h.Total) {
		t.Fatalf("root total %v, children sum %v", h.Total, sum)
	}
}

func TestBuildHierarchySingleRecord(t *testing.T) {
	r := rec(0, 2025, 3, 19, 1500, "Produccion", "Torno 1", "Hilatura", "Preventivo")
	h := BuildHierarchy([]core.Record{r})
	m := h.Department("Produccion").Section("Hilatura").Machine("Torno 1")
	if m == nil || !almostEqual(m.Total, 1500) || !almostEqual(h.Total, 1500) {
		t.Fatalf("unexpected hierarchy %+v", h)
	}
}

func TestBuildProductionLineHierarchy(t *testing.T) {
	lines := map[string]struct{}{"Torno 1": {}}
	h := BuildProductionLineHierarchy(sample(), lines)
	if h.Len() != 1 || !almostEqual(h.Total, 300) {
		t.Fatalf("unexpected hierarchy total=%v len=%d", h.Total, h.Len())
	}
	m := h.Machine("Torno 1")
	if m.Department != "Produccion" || len(m.Sections) != 2 {
		t.Fatalf("unexpected machine node %+v", m)
	}
	if s := m.Section("Tejeduria"); s == nil || !almostEqual(s.Total, 200) || len(s.Records) != 1 {
		t.Fatalf("unexpected Tejeduria node %+v", s)
	}
}

func TestBuildProductionLineHierarchyEmptySet(t *testing.T) {
	h := BuildProductionLineHierarchy(sample(), nil)
	if h.Len() != 0 || h.Total != 0 || h.Machines == nil {
		t.Fatalf("expected empty hierarchy, got %+v", h)
	}
}

func TestProductionLineAggregation(t *testing.T) {
	lines := map[string]struct{}{"Torno 1": {}, "Torno 2": {}, "Prensa": {}}
	got := ProductionLineAggregation(sample(), lines)
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].Machine != "Torno 1" || got[0].Sections != 2 || got[0].Count != 2 {
		t.Fatalf("unexpected first line %+v", got[0])
	}
	if got := ProductionLineAggregation(sample(), nil); len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func TestMachineData(t *testing.T) {
	d := MachineData(sample(), "Torno 1")
	if d == nil || d.Count != 2 || !almostEqual(d.Total, 300) {
		t.Fatalf("unexpected detail %+v", d)
	}
	if d.Department != "Produccion" || d.Section != "Hilatura" {
		t.Fatalf("department/section should come from the first record, got %q %q", d.Department, d.Section)
	}
	if d.Records[0].ID != 2 {
		t.Fatalf("expected most recent record first, got id %d", d.Records[0].ID)
	}
	if MachineData(sample(), "Nada") != nil {
		t.Fatalf("expected nil for unknown machine")
	}
}

func TestPeriodBreakdown(t *testing.T) {
	b := PeriodBreakdown(sample(), 2025, 3)
	if b.Count != 2 || !almostEqual(b.Total, 150) {
		t.Fatalf("unexpected breakdown %+v", b)
	}
	if len(b.ByDepartment) != 1 || b.ByDepartment[0].Name != "Produccion" {
		t.Fatalf("unexpected by department %+v", b.ByDepartment)
	}
	if len(b.ByType) != 2 || b.ByType[0].Name != "Preventivo" {
		t.Fatalf("unexpected by type %+v", b.ByType)
	}

	b = PeriodBreakdown(sample(), 2024, 12)
	if b.ByDepartment[0].Name != core.NoDepartment || b.ByType[0].Name != core.NoType {
		t.Fatalf("expected placeholder labels, got %+v", b)
	}
	if b := PeriodBreakdown(sample(), 2030, 1); b.Count != 0 || len(b.ByDepartment) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", b)
	}
}

func TestInputsNotModified(t *testing.T) {
	records := sample()
	before := make([]core.Record, len(records))
	copy(before, records)
	_ = MachineData(records, "Torno 1")
	_ = TopMachines(records, 1)
	for i := range records {
		if records[i].ID != before[i].ID {
			t.Fatalf("input order changed at %d", i)
		}
	}
}
