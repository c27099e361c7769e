// Package cli builds the presupuestos command tree and the wiring shared by
// its commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"presupuestos/internal/amqp"
	"presupuestos/internal/config"
	"presupuestos/internal/ledger"
	"presupuestos/internal/log"
	"presupuestos/internal/productionline"
	"presupuestos/internal/services"
	"presupuestos/internal/sheets"
	"presupuestos/internal/sheets/file"
	gsheet "presupuestos/internal/sheets/google"
	"presupuestos/internal/sheets/memory"
	"presupuestos/internal/storage"
)

// app carries the settings resolved before any command runs.
type app struct {
	source  string
	verbose bool

	cfg    *config.Config
	logger *log.Logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger at level and installs it as the
// slog default. verbose forces debug.
func SetupLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: lvl, Component: log.ComponentCLI, Output: w})
	log.SetDefault(logger)
	return logger, nil
}

// init loads and validates the configuration. An explicit --source
// overrides DATA_SOURCE and selects the file backend.
func (a *app) init(w io.Writer) error {
	LoadEnvFile()
	cfg := config.Load()
	if a.source != "" {
		cfg.DataSource = a.source
		cfg.DataBackend = config.DataBackendFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := SetupLogger(w, cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// dataSource returns the configured ledger reader.
func (a *app) dataSource(ctx context.Context) (sheets.TableReader, error) {
	if a.cfg.DataBackend != config.DataBackendSheets {
		return file.Source{Path: a.cfg.DataSource}, nil
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      a.cfg.GoogleSpreadsheetID,
		SheetName:          a.cfg.GoogleSheetName,
		ServiceAccountJSON: a.cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: a.cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	a.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", a.cfg.GoogleSpreadsheetID)
	return client, nil
}

// configStore opens the production-line store. The SQLite repository is
// returned as well so callers can close it and probe its health.
func (a *app) configStore() (sheets.ConfigStore, *storage.SQLiteRepository, error) {
	if a.cfg.ConfigBackend == config.ConfigBackendSQLite {
		repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite %s: %w", a.cfg.SQLiteDBPath, err)
		}
		return repo, repo, nil
	}
	if a.cfg.LinesSeedFile != "" {
		return memory.NewConfigStoreFromFile(productionline.SlotKey, a.cfg.LinesSeedFile), nil, nil
	}
	return memory.NewConfigStore(), nil, nil
}

// eventClient connects to the broker, or returns nil when events are off.
func (a *app) eventClient() (*amqp.Client, error) {
	if a.cfg.AMQPURL == "" {
		return nil, nil
	}
	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("amqp: %w", err)
	}
	return client, nil
}

// dashboard is a wired Dashboard plus the resources its owner must release.
type dashboard struct {
	*services.Dashboard
	repo *storage.SQLiteRepository
}

// loadPolicy selects how openDashboard treats the configured source.
type loadPolicy int

const (
	// loadRequired fails when the source cannot be loaded.
	loadRequired loadPolicy = iota
	// loadTolerant starts with an empty dataset when the load fails.
	loadTolerant
	// loadSkip never reads the source.
	loadSkip
)

// openDashboard wires the store, the production-line configuration and,
// when publish is set, the event client, then loads the configured source
// according to policy.
func (a *app) openDashboard(ctx context.Context, publish bool, policy loadPolicy) (*dashboard, error) {
	store, repo, err := a.configStore()
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{}
	if repo != nil {
		closers = append(closers, repo)
	}

	var publisher services.Publisher
	if publish {
		client, err := a.eventClient()
		if err != nil {
			a.logger.Warn("Events disabled", log.FieldError, err)
		} else if client != nil {
			publisher = client
			closers = append(closers, client)
		}
	}

	d := &dashboard{
		Dashboard: services.NewDashboard(ledger.NewStore(), productionline.New(store), publisher, closers...),
		repo:      repo,
	}
	if policy == loadSkip {
		return d, nil
	}

	src, err := a.dataSource(ctx)
	if err == nil {
		_, err = d.Load(ctx, src)
	}
	if err != nil {
		if policy == loadRequired {
			_ = d.Close()
			return nil, err
		}
		a.logger.Warn("Starting with an empty dataset", log.FieldSource, a.cfg.DataSource, log.FieldError, err)
	}
	return d, nil
}

// loadMessage prefers the Spanish message of a load failure.
func loadMessage(err error) string {
	var le *ledger.LoadError
	if errors.As(err, &le) {
		return le.Message
	}
	var ie *ledger.ImportError
	if errors.As(err, &ie) {
		return ie.Message
	}
	return err.Error()
}
