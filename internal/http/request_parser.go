package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"presupuestos/internal/core"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 32 << 20
)

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// parseFilterState reads a FilterState from a JSON body with values
// trimmed. Year and month must be integers when present.
func parseFilterState(w http.ResponseWriter, r *http.Request) (core.FilterState, error) {
	var f core.FilterState
	if err := decodeJSON(w, r, &f); err != nil {
		return core.FilterState{}, err
	}
	f = f.Canonical()
	if f.Year != "" {
		if _, err := strconv.Atoi(f.Year); err != nil {
			return core.FilterState{}, fmt.Errorf("invalid year %q", f.Year)
		}
	}
	if f.Month != "" {
		if _, err := strconv.Atoi(f.Month); err != nil {
			return core.FilterState{}, fmt.Errorf("invalid month %q", f.Month)
		}
	}
	return f, nil
}

// pathParam returns a route parameter decoded once. chi matches on the raw
// path only when it differs from the decoded one, so the parameter is still
// escaped exactly when RawPath is set.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// parseLimit reads the limit query parameter. Missing or invalid values
// yield 0, which the aggregation treats as its default.
func parseLimit(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseYearMonth validates path values of a period drill-down.
func parseYearMonth(yearStr, monthStr string) (int, int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", yearStr)
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", monthStr)
	}
	return year, month, nil
}

// linesRequest is the body of a production-line update. A bare JSON array
// is accepted too.
type linesRequest struct {
	Lines []string `json:"lines"`
}

func parseLines(w http.ResponseWriter, r *http.Request) ([]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var lines []string
		if err := json.Unmarshal(body, &lines); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return lines, nil
	}
	var req linesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return req.Lines, nil
}

// sanitizeInput trims s and removes control characters other than tab and
// line breaks.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
