package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/config"
	"github.com/lusolearn/lusolearn-api/internal/domain/srs"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/platform/gemini"
	"github.com/lusolearn/lusolearn-api/internal/platform/metrics"
	"github.com/lusolearn/lusolearn-api/internal/platform/postgres"
	"github.com/lusolearn/lusolearn-api/internal/platform/sqlite"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/auth"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/lusolearn/lusolearn-api/internal/task"
)

// taskStopTimeout bounds how long cleanup waits for queued smart sort tasks.
const taskStopTimeout = 15 * time.Second

// application holds the wired dependencies shared by the server and the
// maintenance commands.
type application struct {
	config *config.Config
	logger *slog.Logger

	records    store.RecordStore
	emitter    *events.InMemoryEventEmitter
	metrics    *metrics.Recorder
	taskRunner *task.TaskRunner
	jwtService auth.JWTService

	library       *service.Library
	cardService   service.CardService
	folderService service.FolderService
	syncService   service.SyncService
	sortService   service.SortService
	reviewService review.Service
}

// appOption customises newApplication, mainly for tests.
type appOption func(*appDeps)

type appDeps struct {
	records   store.RecordStore
	suggester service.FolderSuggester
	now       func() time.Time
}

// withRecordStore replaces the store selected by the configuration.
func withRecordStore(rs store.RecordStore) appOption {
	return func(d *appDeps) { d.records = rs }
}

// withSuggester replaces the Gemini suggester.
func withSuggester(s service.FolderSuggester) appOption {
	return func(d *appDeps) { d.suggester = s }
}

// withClock replaces the wall clock.
func withClock(now func() time.Time) appOption {
	return func(d *appDeps) { d.now = now }
}

// newApplication opens the configured store, loads the library and builds
// every service. The task runner is created but not started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...appOption) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	deps := &appDeps{now: time.Now}
	for _, opt := range opts {
		opt(deps)
	}

	records := deps.records
	if records == nil {
		var err error
		records, err = openRecordStore(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		records: records,
		emitter: events.NewInMemoryEventEmitter(logger),
		metrics: metrics.NewRecorder(),
	}
	app.emitter.RegisterHandler(app.metrics)

	library, err := service.NewLibrary(ctx, records, logger,
		service.WithClock(deps.now),
		service.WithEventEmitter(app.emitter))
	if err != nil {
		_ = records.Close()
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	app.library = library

	for _, notice := range library.Notices() {
		logger.Warn("stored data was repaired on load",
			slog.String("record", notice.Record),
			slog.String("message", notice.Message))
	}

	app.cardService = service.NewCardService(library, logger)
	app.folderService = service.NewFolderService(library, logger)
	app.syncService = service.NewSyncService(library, logger)
	app.reviewService = review.NewService(library, srs.NewDefaultService(), logger)

	app.taskRunner = task.NewTaskRunner(task.NewMemoryTaskStore(), task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	suggester := deps.suggester
	if suggester == nil && cfg.LLM.GeminiAPIKey != "" {
		sorter, err := gemini.NewSorter(ctx, logger, cfg.LLM)
		if err != nil {
			_ = records.Close()
			return nil, fmt.Errorf("failed to create smart sort client: %w", err)
		}
		suggester = sorter
	}
	if suggester == nil {
		logger.Info("smart sort disabled: no Gemini API key configured")
	}
	app.sortService = service.NewSortService(library, suggester, app.taskRunner, logger)

	if cfg.Auth.Enabled() {
		jwtService, err := auth.NewJWTService(cfg.Auth)
		if err != nil {
			_ = records.Close()
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		app.jwtService = jwtService
	}

	return app, nil
}

// openRecordStore returns the record store selected by cfg.Driver.
func openRecordStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.RecordStore, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return store.NewMemoryStore(), nil

	case config.DriverSQLite:
		rs, err := sqlite.Open(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("using sqlite storage", slog.String("path", cfg.Path))
		return rs, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres storage")
		return postgres.NewRecordStore(db, logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// cleanup drains background tasks and closes the store.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), taskStopTimeout)
	defer cancel()

	if err := app.taskRunner.Stop(ctx); err != nil {
		app.logger.Error("task runner did not stop cleanly", slog.String("error", err.Error()))
	}

	if err := app.records.Close(); err != nil {
		app.logger.Error("failed to close record store", slog.String("error", err.Error()))
	}
}
