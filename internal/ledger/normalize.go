package ledger

import (
	"math"
	"strconv"
	"strings"

	"presupuestos/internal/core"
	"presupuestos/internal/sheets"
)

// Normalize maps a raw row to a Record with the given id. It reports false
// when the row has no parseable date or a non-positive issued value.
func Normalize(row sheets.Row, id int) (core.Record, bool) {
	get := func(col string) string {
		return row.Get(lookupNames(col)...)
	}

	dateRaw := get(ColDate)
	date, ok := core.ParseDate(dateRaw)
	if !ok {
		return core.Record{}, false
	}

	r := core.Record{
		ID:              id,
		IssueNumber:     get(ColIssueNumber),
		Date:            date,
		DateRaw:         dateRaw,
		Day:             parseInt(get(ColDay)),
		Month:           parseInt(get(ColMonth)),
		WeekNumber:      parseInt(get(ColWeek)),
		ItemCode:        get(ColItemCode),
		ItemDescription: get(ColDescription),
		Quantity:        parseQuantity(get(ColQuantity)),
		UnitCost:        core.ParseCurrency(get(ColUnitCost)),
		IssuedValue:     core.ParseCurrency(get(ColIssuedValue)),
		Authorizer:      get(ColAuthorizer),
		Supervisor:      get(ColSupervisor),
		Department:      get(ColDepartment),
		Machine:         get(ColMachine),
		Section:         get(ColSection),
		Market:          get(ColMarket),
		Comment:         get(ColComment),
		WarehouseClerk:  get(ColWarehouseClerk),
		MaintenanceType: get(ColMaintenanceType),
	}
	if r.Day <= 0 {
		r.Day = date.Day()
	}
	if r.Month <= 0 {
		r.Month = int(date.Month())
	}
	if r.WeekNumber <= 0 {
		r.WeekNumber = core.WeekNumber(date)
	}
	if r.UnitCost < 0 {
		r.UnitCost = 0
	}
	if r.Validate() != nil {
		return core.Record{}, false
	}
	return r, true
}

// NormalizeAll normalizes rows in order, assigning id baseOffset+index, and
// drops rows that fail the retention rule. Dropped rows still consume their
// index.
func NormalizeAll(rows []sheets.Row, baseOffset int) []core.Record {
	out := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		if r, ok := Normalize(row, baseOffset+i); ok {
			out = append(out, r)
		}
	}
	return out
}

// parseInt reads an integer cell; "3", "3.0" and "3 " all yield 3.
// Anything else yields 0.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

// parseQuantity reads a quantity cell. Dot decimals are tried first, then
// the ledger's comma-decimal format. Negative and unparseable values yield 0.
func parseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		q = core.ParseCurrency(s)
	}
	if q < 0 {
		return 0
	}
	return q
}
