package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	ports "presupuestos/internal/sheets"
)

var errNoHeader = errors.New("sheet has no header row")

// parseValues converts a values matrix (as returned by the Sheets API) into a
// table. The first non-empty row is the header.
func parseValues(values [][]interface{}) (ports.Table, error) {
	for i, row := range values {
		header := toStrings(row)
		if strings.TrimSpace(strings.Join(header, "")) == "" {
			continue
		}
		records := make([][]string, 0, len(values)-i-1)
		for _, r := range values[i+1:] {
			records = append(records, toStrings(r))
		}
		return ports.NewTable(header, records), nil
	}
	return ports.Table{}, errNoHeader
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
