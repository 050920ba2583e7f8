// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/jera/internal/ingest"
	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/report"
	"github.com/starford/jera/internal/storage"
	"github.com/starford/jera/internal/store"
	"github.com/starford/jera/internal/store/influx"
	"github.com/starford/jera/internal/store/sqlite"
)

// Run executes one synchronization pass with the given options.
// The process is single-shot: there is no server, no watcher, and no
// state kept between invocations. Overlapping runs against the same
// store are an operational concern (one cron slot at a time); the
// cursor resolve → write window is a read-then-write race the tool
// does not lock against.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication()

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	notesRoot := filepath.Join(cfg.Vault.Path, cfg.Vault.NotesDir)
	logger.Info("Configuration loaded",
		slog.String("notes_root", notesRoot),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	notes, err := storage.NewFS(notesRoot)
	if err != nil {
		return fmt.Errorf("init notes storage: %w", err)
	}

	st, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	today := models.Day(app.now())
	logger.Info("Sync starting", slog.String("today", today.Format(models.DateLayout)))

	orch := ingest.NewOrchestrator(notes, st, logger)
	res, runErr := orch.Run(ctx, today)

	// The summary covers every run that reached planning. A failed
	// cursor resolve produces no result worth printing.
	if runErr == nil || res.Attempted > 0 {
		report.Print(os.Stdout, res)
	}

	if runErr != nil {
		logger.Error("Sync failed",
			slog.String("state", string(orch.State())),
			slog.String("error", runErr.Error()))
		return runErr
	}
	return nil
}

// openStore builds the configured store backend.
func openStore(cfg *Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case BackendSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		return db, func() { db.Close() }, nil
	default:
		client := influx.NewClient(influx.Options{
			BaseURL:     fmt.Sprintf("http://%s:%d", cfg.Influx.Host, cfg.Influx.Port),
			Database:    cfg.Influx.Database,
			Measurement: cfg.Influx.Measurement,
		})
		return client, func() {}, nil
	}
}
