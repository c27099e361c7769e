// Package productionline persists the set of machines treated as
// production lines.
package productionline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"presupuestos/internal/sheets"
)

// SlotKey names the configuration slot holding the production-line list.
const SlotKey = "productionLines"

// Config reads and replaces the production-line list in a ConfigStore.
// The list outlives dataset loads and imports.
type Config struct {
	store sheets.ConfigStore
}

func New(store sheets.ConfigStore) *Config {
	return &Config{store: store}
}

// Lines returns the configured machine names in saved order. A store that
// cannot be read yields an empty list.
func (c *Config) Lines(ctx context.Context) []string {
	lines, err := c.store.GetStrings(ctx, SlotKey)
	if err != nil {
		slog.WarnContext(ctx, "Production lines unavailable, using empty set", "error", err)
		return []string{}
	}
	if lines == nil {
		return []string{}
	}
	return lines
}

// Save replaces the whole list. Names are trimmed, blanks dropped and
// duplicates collapsed to their first occurrence.
func (c *Config) Save(ctx context.Context, lines []string) ([]string, error) {
	clean := Clean(lines)
	if err := c.store.SetStrings(ctx, SlotKey, clean); err != nil {
		return nil, fmt.Errorf("save production lines: %w", err)
	}
	slog.InfoContext(ctx, "Production lines saved", "count", len(clean))
	return clean, nil
}

// IsProductionLine reports whether machine is in the configured list.
func (c *Config) IsProductionLine(ctx context.Context, machine string) bool {
	_, ok := c.Set(ctx)[machine]
	return ok
}

// Set returns the configured list as a membership set.
func (c *Config) Set(ctx context.Context) map[string]struct{} {
	lines := c.Lines(ctx)
	set := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	return set
}

// Clean normalizes a list of machine names the way Save stores it.
func Clean(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
