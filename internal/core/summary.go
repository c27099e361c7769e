package core

// Labels used when a grouping attribute is empty.
const (
	Unspecified     = "Sin especificar"
	NoDepartment    = "Sin Departamento"
	NoSection       = "Sin Sección"
	NoMachine       = "Sin Máquina"
	NoType          = "Sin Tipo"
	NoTopMachine    = "-"
	DefaultTopLimit = 10
)

// KPIs summarizes a record set.
type KPIs struct {
	Total           float64 `json:"total"`
	Average         float64 `json:"average"`
	Count           int     `json:"count"`
	TopMachine      string  `json:"topMachine"`
	TopMachineValue float64 `json:"topMachineValue"`
}

// GroupTotal is the issued value and record count of one group.
type GroupTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MachineTotal aggregates one machine with the department and section of its
// first record.
type MachineTotal struct {
	Machine    string  `json:"machine"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Department string  `json:"department"`
	Section    string  `json:"section"`
}

// ProductionLineTotal aggregates one configured production line.
type ProductionLineTotal struct {
	Machine    string  `json:"machine"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Department string  `json:"department"`
	Sections   int     `json:"sections"`
}

// SeriesPoint is one period of a monthly or weekly time series. Week is zero
// for monthly points and Month is zero for weekly points.
type SeriesPoint struct {
	Period string  `json:"period"`
	Year   int     `json:"year"`
	Month  int     `json:"month,omitempty"`
	Week   int     `json:"week,omitempty"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// MachineDetail is the drill-down of one machine, most recent records first.
type MachineDetail struct {
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Section    string   `json:"section"`
	Total      float64  `json:"total"`
	Count      int      `json:"count"`
	Records    []Record `json:"records"`
}

// PeriodBreakdown totals one calendar month by department and type.
type PeriodBreakdown struct {
	Year         int          `json:"year"`
	Month        int          `json:"month"`
	Total        float64      `json:"total"`
	Count        int          `json:"count"`
	ByDepartment []GroupTotal `json:"byDepartment"`
	ByType       []GroupTotal `json:"byType"`
}
