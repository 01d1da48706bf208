package workflow

import (
	"context"

	"ipwatch/internal/notify"
	"ipwatch/internal/types"

	"go.uber.org/zap"
)

// AddressResolver returns the host's current local IPv4 address
type AddressResolver interface {
	CurrentAddress(ctx context.Context) (string, error)
}

// ChangeStore persists address changes
type ChangeStore interface {
	EnsureSchema(ctx context.Context) error
	LastRecordedAddress(ctx context.Context) (types.PreviousAddress, error)
	Append(ctx context.Context, old types.PreviousAddress, newAddr string) (*types.IPChangeRecord, error)
}

// Notifier announces a recorded change
type Notifier interface {
	NotifyIPChange(ctx context.Context, record *types.IPChangeRecord) (notify.Result, error)
}

// Result describes the outcome of one check
type Result struct {
	Previous     types.PreviousAddress
	Current      string
	Changed      bool
	Record       *types.IPChangeRecord // nil when unchanged
	Notification notify.Result
	NotifyErr    error
}

// Workflow runs a single change check
type Workflow struct {
	resolver AddressResolver
	store    ChangeStore
	notifier Notifier
	logger   *zap.Logger
}

// New creates new workflow
func New(resolver AddressResolver, store ChangeStore, notifier Notifier, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		resolver: resolver,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Run checks the current address against the last recorded one, and on a
// change appends a record and sends a notification. Configuration, storage
// and resolution failures are returned; notification failures are only
// reported in the result.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	w.logger.Info("Checking for local IP changes...")

	if err := w.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	current, err := w.resolver.CurrentAddress(ctx)
	if err != nil {
		return nil, err
	}

	previous, err := w.store.LastRecordedAddress(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Previous: previous,
		Current:  current,
	}

	if previous.Matches(current) {
		w.logger.Info("No change in local IP address.", zap.String("address", current))
		return result, nil
	}

	w.logger.Info("Local IP address changed",
		zap.Stringer("old", previous),
		zap.String("new", current))

	record, err := w.store.Append(ctx, previous, current)
	if err != nil {
		return nil, err
	}
	result.Changed = true
	result.Record = record

	// The record stays persisted whatever happens below.
	result.Notification, result.NotifyErr = w.notifier.NotifyIPChange(ctx, record)
	switch {
	case result.NotifyErr != nil:
		w.logger.Error("Failed to send email", zap.Error(result.NotifyErr))
	case result.Notification == notify.Skipped:
		w.logger.Debug("Notification skipped", zap.Int64("record_id", record.ID))
	}

	return result, nil
}
