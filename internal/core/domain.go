package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Field names a string attribute of a Record that can be grouped or
// listed as a filter option.
type Field string

const (
	FieldIssueNumber     Field = "issueNumber"
	FieldItemCode        Field = "itemCode"
	FieldDescription     Field = "itemDescription"
	FieldAuthorizer      Field = "authorizer"
	FieldSupervisor      Field = "supervisor"
	FieldDepartment      Field = "department"
	FieldMachine         Field = "machine"
	FieldSection         Field = "section"
	FieldMarket          Field = "market"
	FieldComment         Field = "comment"
	FieldWarehouseClerk  Field = "warehouseClerk"
	FieldMaintenanceType Field = "maintenanceType"
)

type (
	// Record is one warehouse expense-issue event.
	Record struct {
		ID              int       `json:"id"`
		IssueNumber     string    `json:"issueNumber"`
		Date            time.Time `json:"date"`
		DateRaw         string    `json:"dateRaw"`
		Day             int       `json:"day"`
		Month           int       `json:"month"`
		WeekNumber      int       `json:"weekNumber"`
		ItemCode        string    `json:"itemCode"`
		ItemDescription string    `json:"itemDescription"`
		Quantity        float64   `json:"quantity"`
		UnitCost        float64   `json:"unitCost"`
		IssuedValue     float64   `json:"issuedValue"`
		Authorizer      string    `json:"authorizer"`
		Supervisor      string    `json:"supervisor"`
		Department      string    `json:"department"`
		Machine         string    `json:"machine"`
		Section         string    `json:"section"`
		Market          string    `json:"market"`
		Comment         string    `json:"comment"`
		WarehouseClerk  string    `json:"warehouseClerk"`
		MaintenanceType string    `json:"maintenanceType"`
	}

	// FilterState restricts the working subset. Empty fields do not constrain.
	FilterState struct {
		Year            string `json:"year"`
		Month           string `json:"month"`
		Department      string `json:"department"`
		Section         string `json:"section"`
		MaintenanceType string `json:"maintenanceType"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnknownField  = errors.New("unknown record field")
)

// Value returns the string attribute named by f.
func (r Record) Value(f Field) (string, error) {
	switch f {
	case FieldIssueNumber:
		return r.IssueNumber, nil
	case FieldItemCode:
		return r.ItemCode, nil
	case FieldDescription:
		return r.ItemDescription, nil
	case FieldAuthorizer:
		return r.Authorizer, nil
	case FieldSupervisor:
		return r.Supervisor, nil
	case FieldDepartment:
		return r.Department, nil
	case FieldMachine:
		return r.Machine, nil
	case FieldSection:
		return r.Section, nil
	case FieldMarket:
		return r.Market, nil
	case FieldComment:
		return r.Comment, nil
	case FieldWarehouseClerk:
		return r.WarehouseClerk, nil
	case FieldMaintenanceType:
		return r.MaintenanceType, nil
	}
	return "", ErrUnknownField
}

// Year returns the calendar year of the record date.
func (r Record) Year() int {
	return r.Date.Year()
}

// Validate reports whether the record satisfies the retention rule:
// a parsed date and a positive issued value.
func (r Record) Validate() error {
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	if !(r.IssuedValue > 0) {
		return ErrInvalidAmount
	}
	return nil
}

// IsEmpty reports whether no field constrains the selection.
func (f FilterState) IsEmpty() bool {
	return f == FilterState{}
}

// Canonical trims every field and rewrites a numeric year or month without
// leading zeros, so "03" selects March.
func (f FilterState) Canonical() FilterState {
	out := FilterState{
		Year:            strings.TrimSpace(f.Year),
		Month:           strings.TrimSpace(f.Month),
		Department:      strings.TrimSpace(f.Department),
		Section:         strings.TrimSpace(f.Section),
		MaintenanceType: strings.TrimSpace(f.MaintenanceType),
	}
	if n, err := strconv.Atoi(out.Year); err == nil {
		out.Year = strconv.Itoa(n)
	}
	if n, err := strconv.Atoi(out.Month); err == nil {
		out.Month = strconv.Itoa(n)
	}
	return out
}

// Matches reports whether r satisfies every non-empty field of f.
func (f FilterState) Matches(r Record) bool {
	if f.Year != "" && strconv.Itoa(r.Date.Year()) != f.Year {
		return false
	}
	if f.Month != "" && strconv.Itoa(r.Month) != f.Month {
		return false
	}
	if f.Department != "" && r.Department != f.Department {
		return false
	}
	if f.Section != "" && r.Section != f.Section {
		return false
	}
	if f.MaintenanceType != "" && r.MaintenanceType != f.MaintenanceType {
		return false
	}
	return true
}

// ParseField maps a field name (as used by the API and CLI) to a Field.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, err := (Record{}).Value(f); err != nil {
		return "", err
	}
	return f, nil
}
