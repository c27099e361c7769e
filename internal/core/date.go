package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var spanishMonths = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// NewDate creates a date at midnight UTC from year, month and day.
// Out-of-range days and months roll over like calendar arithmetic.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a ledger date in day/month/year order ("19/3/2025").
// It reports false unless the text has exactly three integer components.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	return NewDate(nums[2], nums[1], nums[0]), true
}

// FormatDate renders t for display in Spanish, e.g. "19 Mar 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// FormatDateForExport renders t as DD/MM/YYYY, the inverse of ParseDate.
func FormatDateForExport(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}

// WeekNumber returns the ISO-8601 week of t. Weeks start on Monday and week
// 1 is the one holding the year's first Thursday, so late December dates can
// fall in week 1 and early January dates in week 52 or 53.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// MonthKey returns the "YYYY-MM" period key of a year and month.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// WeekKey returns the "YYYY-Www" period key of a year and week.
func WeekKey(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}
