package database

import (
	"context"
	"fmt"

	"ipwatch/internal/config"
	"ipwatch/internal/database/migration"
	"ipwatch/internal/types"

	"go.uber.org/zap"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// New creates new database instance based on configuration
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (Interface, error) {
	opts := Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		QueryTimeout:    cfg.QueryTimeout,
	}

	switch cfg.Driver {
	case DriverSQLite:
		return NewSQLiteDatabase(cfg.DSN, opts, logger)
	case DriverMySQL:
		return NewMySQLDatabase(cfg.DSN, opts, logger)
	case DriverPostgres:
		return NewPostgresDatabase(cfg.DSN, opts, logger)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidDriver, cfg.Driver)
	}
}

// Migrate brings the schema to the latest version.
// Migrations run on a dedicated connection since the migrator closes it.
func Migrate(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) error {
	db, err := New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection for migrations: %w", err)
	}

	migrator, err := migration.NewMigrator(db.Unwrap(), cfg.Driver, logger)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
