package app

import (
	"context"
	"errors"
	"fmt"

	"ipwatch/internal/config"
	"ipwatch/internal/database"
	"ipwatch/internal/notify"
	ntpl "ipwatch/internal/notify/template"
	"ipwatch/internal/resolver"
	"ipwatch/internal/store"
	"ipwatch/internal/types"
	"ipwatch/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitConfig      = 1
	ExitStorage     = 2
	ExitResolution  = 3
	ExitFailure     = 4
	ExitInterrupted = 130
)

// App wires the components of a single check
type App struct {
	config   *config.Config
	logger   *zap.Logger
	db       database.Interface
	store    *store.Store
	notifier *notify.EmailNotifier
	workflow *workflow.Workflow
}

// New creates the application from cfg
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	db, err := database.New(&cfg.Database, logger.Named("database"))
	if err != nil {
		return nil, types.StorageError("open database", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, types.StorageError("ping database", err)
	}

	loader, err := ntpl.NewLoader(logger.Named("template"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	notifier, err := notify.NewEmailNotifier(&cfg.Mail, loader, logger.Named("notify"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := store.NewStore(db, &cfg.Database, logger.Named("store"))
	r := resolver.NewResolver(&cfg.Resolver, logger.Named("resolver"))

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		store:    s,
		notifier: notifier,
		workflow: workflow.New(r, s, notifier, logger.Named("workflow")),
	}, nil
}

// Run performs one change check
func (a *App) Run(ctx context.Context) (*workflow.Result, error) {
	result, err := a.workflow.Run(ctx)
	if err != nil {
		a.logger.Error("Check failed", zap.Error(err))
		return nil, err
	}

	stats := a.db.Stats()
	a.logger.Debug("Database statistics",
		zap.Int64("queries", stats.QueryCount),
		zap.Int64("errors", stats.QueryErrors),
		zap.Int64("slow_queries", stats.SlowQueries),
		zap.Duration("avg_query_time", stats.AvgQueryTime))

	return result, nil
}

// Close releases the database connection
func (a *App) Close() error {
	return a.db.Close()
}

// ExitCode maps a run error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	kind, ok := types.KindOf(err)
	if !ok {
		return ExitFailure
	}
	switch kind {
	case types.KindConfig:
		return ExitConfig
	case types.KindStorage:
		return ExitStorage
	case types.KindResolution:
		return ExitResolution
	default:
		return ExitFailure
	}
}
