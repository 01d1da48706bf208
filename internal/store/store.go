package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ipwatch/internal/config"
	"ipwatch/internal/database"
	"ipwatch/internal/types"

	"go.uber.org/zap"
)

const (
	lastAddressQuery = "SELECT NewIP FROM IPChanges ORDER BY Id DESC LIMIT 1"
	insertQuery      = "INSERT INTO IPChanges (OldIP, NewIP, ChangeDate) VALUES (?, ?, ?)"
)

// Store is the append-only log of address changes
type Store struct {
	db     database.Interface
	config *config.DatabaseConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates new change store over db
func NewStore(db database.Interface, cfg *config.DatabaseConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureSchema creates the IPChanges table if it does not exist.
// Safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := database.Migrate(ctx, s.config, s.logger); err != nil {
		return types.StorageError("ensure schema", err)
	}
	return nil
}

// LastRecordedAddress returns the NewIP of the most recent record,
// or types.NoPreviousAddress when the store is empty.
func (s *Store) LastRecordedAddress(ctx context.Context) (types.PreviousAddress, error) {
	var addr sql.NullString
	err := s.db.QueryRowContext(ctx, lastAddressQuery).Scan(&addr)
	if errors.Is(err, sql.ErrNoRows) {
		return types.NoPreviousAddress, nil
	}
	if err != nil {
		return types.NoPreviousAddress, types.StorageError("read last address", err)
	}
	if !addr.Valid {
		return types.NoPreviousAddress, nil
	}
	return types.Previous(addr.String), nil
}

// Append inserts a new change record stamped with the current local time
func (s *Store) Append(ctx context.Context, old types.PreviousAddress, newAddr string) (*types.IPChangeRecord, error) {
	record := &types.IPChangeRecord{
		OldAddress: old,
		NewAddress: newAddr,
		ChangedAt:  s.now().Truncate(time.Second),
	}

	var oldIP sql.NullString
	if old.Valid {
		oldIP = sql.NullString{String: old.Address, Valid: true}
	}
	changeDate := record.ChangedAt.Format(types.ChangeDateLayout)

	id, err := s.insert(ctx, oldIP, newAddr, changeDate)
	if err != nil {
		return nil, types.StorageError("append record", err)
	}
	record.ID = id

	s.logger.Debug("Recorded address change",
		zap.Int64("id", record.ID),
		zap.Stringer("old", old),
		zap.String("new", newAddr),
		zap.String("changed_at", changeDate))

	return record, nil
}

// insert writes one row in a transaction and returns its id
func (s *Store) insert(ctx context.Context, oldIP sql.NullString, newIP, changeDate string) (int64, error) {
	driver := s.db.Driver()

	var id int64
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if driver == database.DriverPostgres {
			query := database.Rebind(driver, insertQuery) + " RETURNING Id"
			return tx.QueryRowContext(ctx, query, oldIP, newIP, changeDate).Scan(&id)
		}

		result, err := tx.ExecContext(ctx, insertQuery, oldIP, newIP, changeDate)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get record id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert change: %w", err)
	}
	return id, nil
}
