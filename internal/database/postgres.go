package database

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresDatabase represents PostgreSQL database implementation
type PostgresDatabase struct {
	*Database
}

// NewPostgresDatabase creates new PostgreSQL database instance
func NewPostgresDatabase(dsn string, opts Options, logger *zap.Logger) (Interface, error) {
	base, err := newDatabase("postgres", addPostgresParams(dsn), opts, logger)
	if err != nil {
		return nil, err
	}

	d := &PostgresDatabase{
		Database: base,
	}

	if err := d.init(); err != nil {
		_ = base.Close()
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	return d, nil
}

// init initializes PostgreSQL specific settings
func (d *PostgresDatabase) init() error {
	vars := []struct {
		name  string
		value string
	}{
		{"statement_timeout", "'30s'"},
		{"lock_timeout", "'10s'"},
	}

	for _, v := range vars {
		query := fmt.Sprintf("SET %s = %s", v.name, v.value)
		if _, err := d.ExecContext(context.Background(), query); err != nil {
			return fmt.Errorf("failed to set %s: %w", v.name, err)
		}
	}

	return nil
}

// addPostgresParams disables TLS unless the DSN chooses an sslmode
func addPostgresParams(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.Contains(dsn, "://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=disable"
		}
		return dsn + "?sslmode=disable"
	}
	return dsn + " sslmode=disable"
}
