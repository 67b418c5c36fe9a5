package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/domain/srs"
	"github.com/Moktur/N-LanguagesAI/internal/events"
	"github.com/Moktur/N-LanguagesAI/internal/generation"
	"github.com/Moktur/N-LanguagesAI/internal/platform/gemini"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/Moktur/N-LanguagesAI/internal/scheduler"
	"github.com/Moktur/N-LanguagesAI/internal/service"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/Moktur/N-LanguagesAI/internal/task"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  service.Clock

	stores     service.Stores
	taskStore  task.TaskStore
	transactor store.Transactor
	translator generation.Translator

	catalog  *service.CatalogService
	groups   *service.ProgressGroupManager
	tracker  *service.LearningProgressTracker
	due      *service.DueQueue
	stats    *service.StatsAggregator
	sessions *service.ReviewSession

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
	scheduler    *scheduler.Scheduler
}

// newApplication wires every component on top of db. The task runner is
// started; the HTTP server and the scheduler start in Run.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return buildApplication(ctx, cfg, logger, db, nil)
}

// buildApplication is newApplication with an optional translator override.
func buildApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	translator generation.Translator,
) (*application, error) {
	b, err := backendFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  service.SystemClock,
	}

	app.stores = service.Stores{
		Users:        sqlstore.NewUserStore(db, b.dialect, logger),
		Sentences:    sqlstore.NewSentenceStore(db, b.dialect, logger),
		Translations: sqlstore.NewTranslationStore(db, b.dialect, logger),
		Groups:       sqlstore.NewProgressGroupStore(db, b.dialect, logger),
		Progress:     sqlstore.NewLearningProgressStore(db, b.dialect, logger),
		ReviewLogs:   sqlstore.NewReviewLogStore(db, b.dialect, logger),
	}
	app.taskStore = sqlstore.NewTaskStore(db, b.dialect, logger)
	app.transactor = store.NewSQLTransactor(db,
		store.WithErrorMapper(b.dialect.MapError),
		store.WithRetry(cfg.Database.TxMaxRetries, cfg.Database.TxRetryDelay),
		store.WithTransactorLogger(logger))

	app.translator = translator
	if app.translator == nil {
		app.translator, err = newTranslator(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
	}

	params, err := srs.NewParams(srs.ParamsConfig{
		SuccessMultiplier:   cfg.SRS.SuccessMultiplier,
		MinIntervalDays:     cfg.SRS.MinIntervalDays,
		FailureIntervalDays: cfg.SRS.FailureIntervalDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduling parameters: %w", err)
	}
	policy, err := srs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	catalogOpts := []service.CatalogOption{
		service.WithTranslator(app.translator),
		service.WithEventEmitter(app.eventEmitter),
		service.WithClock(app.clock),
	}
	if cfg.LLM.MaxConcurrency > 0 {
		catalogOpts = append(catalogOpts, service.WithTranslateConcurrency(cfg.LLM.MaxConcurrency))
	}
	app.catalog = service.NewCatalogService(app.transactor, app.stores, logger, catalogOpts...)
	app.groups = service.NewProgressGroupManager(app.transactor, app.stores, policy, app.clock, logger)
	app.tracker = service.NewLearningProgressTracker(app.transactor, app.stores, policy, app.clock, logger)
	app.due = service.NewDueQueue(app.stores, logger)
	app.stats = service.NewStatsAggregator(app.stores.Progress, logger)
	app.sessions = service.NewReviewSession(app.groups, app.tracker, logger)

	registry := task.NewRegistry()
	registry.Register(task.TaskTypeTranslationBackfill, task.NewTranslationBackfillFactory(app.catalog, logger))

	app.taskRunner = task.NewTaskRunner(app.taskStore, registry, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	taskHandler := task.NewTaskFactoryEventHandler(registry, app.taskRunner, logger)
	for _, taskType := range registry.Types() {
		app.eventEmitter.Subscribe(taskType, taskHandler)
	}
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(app.stores.Users, app.due, cfg.Scheduler.DigestInterval,
			app.clock, logger)
	}

	logger.Info("application initialized",
		slog.String("dialect", b.dialect.Name),
		slog.Int("task_workers", cfg.Task.WorkerCount))
	return app, nil
}

// newTranslator returns the Gemini translator when an API key is configured
// and generation.Unavailable otherwise.
func newTranslator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Translator, error) {
	if !cfg.Enabled() {
		logger.Info("no gemini api key configured, machine translation disabled")
		return generation.Unavailable{}, nil
	}
	t, err := gemini.NewTranslator(ctx, logger.With(slog.String("component", "translator")), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translator: %w", err)
	}
	logger.Info("gemini translator initialized", slog.String("model", cfg.ModelName))
	return t, nil
}

// Run serves HTTP until ctx is done, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	if app.scheduler != nil {
		if err := app.scheduler.Start(ctx); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background work and closes the database.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
	}
	app.logger.Info("application shutdown completed")
}
