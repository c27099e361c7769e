package analytics

import (
	"sort"

	"presupuestos/internal/core"
)

// BuildHierarchy nests records by department, section and machine in one
// pass. Each level's total is the sum of its children.
func BuildHierarchy(records []core.Record) *core.Hierarchy {
	h := &core.Hierarchy{Departments: []*core.DepartmentNode{}}
	depts := map[string]*core.DepartmentNode{}
	sections := map[[2]string]*core.SectionNode{}
	machines := map[[3]string]*core.MachineNode{}

	for _, r := range records {
		dname := labelOr(r.Department, core.NoDepartment)
		sname := labelOr(r.Section, core.NoSection)
		mname := labelOr(r.Machine, core.NoMachine)

		d, ok := depts[dname]
		if !ok {
			d = &core.DepartmentNode{Name: dname}
			depts[dname] = d
			h.Departments = append(h.Departments, d)
		}
		sk := [2]string{dname, sname}
		s, ok := sections[sk]
		if !ok {
			s = &core.SectionNode{Name: sname}
			sections[sk] = s
			d.Sections = append(d.Sections, s)
		}
		mk := [3]string{dname, sname, mname}
		m, ok := machines[mk]
		if !ok {
			m = &core.MachineNode{Name: mname}
			machines[mk] = m
			s.Machines = append(s.Machines, m)
		}

		m.Records = append(m.Records, r)
		m.Total += r.IssuedValue
		s.Total += r.IssuedValue
		d.Total += r.IssuedValue
		h.Total += r.IssuedValue
	}
	return h
}

// BuildProductionLineHierarchy nests the records of configured production
// lines by machine and section. Machines outside lines are skipped, so an
// empty set yields an empty hierarchy.
func BuildProductionLineHierarchy(records []core.Record, lines map[string]struct{}) *core.ProductionLineHierarchy {
	h := &core.ProductionLineHierarchy{Machines: []*core.MachineNode{}}
	if len(lines) == 0 {
		return h
	}
	machines := map[string]*core.MachineNode{}
	sections := map[[2]string]*core.SectionNode{}

	for _, r := range records {
		mname := labelOr(r.Machine, core.NoMachine)
		if _, ok := lines[mname]; !ok {
			continue
		}
		sname := labelOr(r.Section, core.NoSection)

		m, ok := machines[mname]
		if !ok {
			m = &core.MachineNode{Name: mname, Department: labelOr(r.Department, core.NoDepartment)}
			machines[mname] = m
			h.Machines = append(h.Machines, m)
		}
		sk := [2]string{mname, sname}
		s, ok := sections[sk]
		if !ok {
			s = &core.SectionNode{Name: sname}
			sections[sk] = s
			m.Sections = append(m.Sections, s)
		}

		s.Records = append(s.Records, r)
		s.Total += r.IssuedValue
		m.Total += r.IssuedValue
		h.Total += r.IssuedValue
	}
	return h
}

// ProductionLineAggregation totals each configured production line present
// in records, highest first. Sections counts the distinct section values of
// the line.
func ProductionLineAggregation(records []core.Record, lines map[string]struct{}) []core.ProductionLineTotal {
	out := []core.ProductionLineTotal{}
	if len(lines) == 0 {
		return out
	}
	g := mustGroupBy(records, core.FieldMachine)
	for _, key := range g.keys {
		if _, ok := lines[key]; !ok {
			continue
		}
		items := g.items[key]
		distinct := map[string]struct{}{}
		for _, r := range items {
			distinct[r.Section] = struct{}{}
		}
		out = append(out, core.ProductionLineTotal{
			Machine:    key,
			Total:      Sum(items),
			Count:      len(items),
			Department: items[0].Department,
			Sections:   len(distinct),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
