package core

// Hierarchy nests issued value by department, section and machine. Children
// keep first-occurrence order.
type Hierarchy struct {
	Total       float64           `json:"total"`
	Departments []*DepartmentNode `json:"departments"`
}

type DepartmentNode struct {
	Name     string         `json:"name"`
	Total    float64        `json:"total"`
	Sections []*SectionNode `json:"sections"`
}

type SectionNode struct {
	Name     string         `json:"name"`
	Total    float64        `json:"total"`
	Machines []*MachineNode `json:"machines,omitempty"`
	Records  []Record       `json:"records,omitempty"`
}

type MachineNode struct {
	Name       string         `json:"name"`
	Total      float64        `json:"total"`
	Department string         `json:"department,omitempty"`
	Sections   []*SectionNode `json:"sections,omitempty"`
	Records    []Record       `json:"records,omitempty"`
}

// ProductionLineHierarchy nests issued value by production line and section.
type ProductionLineHierarchy struct {
	Total    float64        `json:"total"`
	Machines []*MachineNode `json:"machines"`
}

// Department returns the named department node, or nil.
func (h *Hierarchy) Department(name string) *DepartmentNode {
	for _, d := range h.Departments {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Section returns the named section node, or nil.
func (d *DepartmentNode) Section(name string) *SectionNode {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Machine returns the named machine node, or nil.
func (s *SectionNode) Machine(name string) *MachineNode {
	for _, m := range s.Machines {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Machine returns the named production line node, or nil.
func (h *ProductionLineHierarchy) Machine(name string) *MachineNode {
	for _, m := range h.Machines {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Section returns the named section under a production line, or nil.
func (m *MachineNode) Section(name string) *SectionNode {
	for _, s := range m.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Len reports the number of production lines present.
func (h *ProductionLineHierarchy) Len() int {
	return len(h.Machines)
}
