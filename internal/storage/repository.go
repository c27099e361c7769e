// Package storage keeps configuration slots in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"presupuestos/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores each configuration slot as a JSON array in the
// config_slots table.
type SQLiteRepository struct {
	db *sql.DB
}

var _ sheets.ConfigStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := Migrate(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Config database ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetStrings implements sheets.ConfigStore. An unknown key yields nil.
func (r *SQLiteRepository) GetStrings(ctx context.Context, key string) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config_slots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config slot %s: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode config slot %s: %w", key, err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// SetStrings implements sheets.ConfigStore.
func (r *SQLiteRepository) SetStrings(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode config slot %s: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO config_slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("set config slot %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Config slot saved", "key", key, "values", len(values))
	return nil
}

// HealthCheck verifies the database is reachable.
func (r *SQLiteRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}
