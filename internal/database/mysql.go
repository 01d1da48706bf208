package database

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLDatabase represents MySQL specific implementation
type MySQLDatabase struct {
	*Database
}

// NewMySQLDatabase creates new MySQL database instance
func NewMySQLDatabase(dsn string, opts Options, logger *zap.Logger) (Interface, error) {
	base, err := newDatabase("mysql", addMySQLParams(dsn), opts, logger)
	if err != nil {
		return nil, err
	}

	d := &MySQLDatabase{
		Database: base,
	}

	if err := d.init(); err != nil {
		_ = base.Close()
		return nil, fmt.Errorf("failed to initialize MySQL: %w", err)
	}

	return d, nil
}

// init initializes MySQL specific settings
func (d *MySQLDatabase) init() error {
	vars := []struct {
		name  string
		value string
	}{
		{"sql_mode", "'STRICT_ALL_TABLES,NO_ENGINE_SUBSTITUTION'"},
		{"net_read_timeout", "30"},
		{"net_write_timeout", "30"},
	}

	for _, v := range vars {
		query := fmt.Sprintf("SET SESSION %s = %s", v.name, v.value)
		if _, err := d.ExecContext(context.Background(), query); err != nil {
			return fmt.Errorf("failed to set %s: %w", v.name, err)
		}
	}

	return nil
}

// addMySQLParams adds MySQL specific connection parameters
func addMySQLParams(dsn string) string {
	params := []string{
		"charset=utf8mb4",
		"interpolateParams=true",
	}

	if !strings.Contains(dsn, "parseTime=") {
		params = append(params, "parseTime=true")
	}

	queryStart := "?"
	if strings.Contains(dsn, "?") {
		queryStart = "&"
	}
	return dsn + queryStart + strings.Join(params, "&")
}
