package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ipwatch/internal/config"
	"ipwatch/internal/database"
	"ipwatch/internal/notify"
	"ipwatch/internal/store"
	"ipwatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeResolver struct {
	addresses []string
	err       error
	calls     int
}

func (f *fakeResolver) CurrentAddress(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	addr := f.addresses[f.calls]
	f.calls++
	return addr, nil
}

type fakeNotifier struct {
	records []*types.IPChangeRecord
	result  notify.Result
	err     error
}

func (f *fakeNotifier) NotifyIPChange(_ context.Context, record *types.IPChangeRecord) (notify.Result, error) {
	f.records = append(f.records, record)
	return f.result, f.err
}

type failingStore struct {
	*store.Store
	schemaErr error
	lastErr   error
	appendErr error
}

func (f *failingStore) EnsureSchema(ctx context.Context) error {
	if f.schemaErr != nil {
		return f.schemaErr
	}
	return f.Store.EnsureSchema(ctx)
}

func (f *failingStore) LastRecordedAddress(ctx context.Context) (types.PreviousAddress, error) {
	if f.lastErr != nil {
		return types.NoPreviousAddress, f.lastErr
	}
	return f.Store.LastRecordedAddress(ctx)
}

func (f *failingStore) Append(ctx context.Context, old types.PreviousAddress, newAddr string) (*types.IPChangeRecord, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	return f.Store.Append(ctx, old, newAddr)
}

type change struct {
	old types.PreviousAddress
	new string
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := &config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "ip_changes.db"),
	}

	db, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return store.NewStore(db, cfg, logger)
}

func history(t *testing.T, n *fakeNotifier) []change {
	t.Helper()
	changes := make([]change, 0, len(n.records))
	for _, r := range n.records {
		changes = append(changes, change{old: r.OldAddress, new: r.NewAddress})
	}
	return changes
}

func TestRunSequence(t *testing.T) {
	addresses := []string{"A", "A", "B", "B", "A"}
	s := newTestStore(t)
	res := &fakeResolver{addresses: addresses}
	n := &fakeNotifier{result: notify.Sent}
	w := New(res, s, n, zaptest.NewLogger(t))

	ctx := context.Background()
	for range addresses {
		_, err := w.Run(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, []change{
		{old: types.NoPreviousAddress, new: "A"},
		{old: types.Previous("A"), new: "B"},
		{old: types.Previous("B"), new: "A"},
	}, history(t, n))

	last, err := s.LastRecordedAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Previous("A"), last)
}

func TestRunFirstAndUnchanged(t *testing.T) {
	s := newTestStore(t)
	n := &fakeNotifier{result: notify.Sent}
	w := New(&fakeResolver{addresses: []string{"192.168.1.10", "192.168.1.10"}}, s, n, zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := w.Run(ctx)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, types.NoPreviousAddress, first.Previous)
	require.NotNil(t, first.Record)
	assert.True(t, first.Record.IsFirst())
	assert.Equal(t, "192.168.1.10", first.Record.NewAddress)
	assert.Equal(t, notify.Sent, first.Notification)

	second, err := w.Run(ctx)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Nil(t, second.Record)
	assert.Equal(t, types.Previous("192.168.1.10"), second.Previous)
	assert.Len(t, n.records, 1)
}

func TestRunNotificationFailureKeepsRecord(t *testing.T) {
	s := newTestStore(t)
	notifyErr := types.NotificationError("send email", errors.New("connection refused"))
	n := &fakeNotifier{result: notify.Failed, err: notifyErr}
	w := New(&fakeResolver{addresses: []string{"10.0.0.2"}}, s, n, zaptest.NewLogger(t))

	result, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, notify.Failed, result.Notification)
	assert.ErrorIs(t, result.NotifyErr, notifyErr)

	last, err := s.LastRecordedAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Previous("10.0.0.2"), last)
}

func TestRunNotificationSkipped(t *testing.T) {
	s := newTestStore(t)
	n := &fakeNotifier{result: notify.Skipped}
	w := New(&fakeResolver{addresses: []string{"10.0.0.3"}}, s, n, zaptest.NewLogger(t))

	result, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notify.Skipped, result.Notification)
	assert.NoError(t, result.NotifyErr)

	last, err := s.LastRecordedAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Previous("10.0.0.3"), last)
}

func TestRunResolutionFailureAppendsNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Append(ctx, types.NoPreviousAddress, "10.0.0.1")
	require.NoError(t, err)

	res := &fakeResolver{err: types.ResolutionError("lookup host", types.ErrNoIPv4Address)}
	n := &fakeNotifier{}
	w := New(res, s, n, zaptest.NewLogger(t))

	result, err := w.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, types.IsKind(err, types.KindResolution))
	assert.Empty(t, n.records)

	last, err := s.LastRecordedAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Previous("10.0.0.1"), last)
}

func TestRunStorageFailures(t *testing.T) {
	storageErr := types.StorageError("query", errors.New("disk I/O error"))

	tests := []struct {
		name  string
		store func(*store.Store) *failingStore
	}{
		{
			name:  "ensure schema",
			store: func(s *store.Store) *failingStore { return &failingStore{Store: s, schemaErr: storageErr} },
		},
		{
			name:  "last recorded",
			store: func(s *store.Store) *failingStore { return &failingStore{Store: s, lastErr: storageErr} },
		},
		{
			name:  "append",
			store: func(s *store.Store) *failingStore { return &failingStore{Store: s, appendErr: storageErr} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			w := New(&fakeResolver{addresses: []string{"10.0.0.1"}}, tt.store(newTestStore(t)), n, zaptest.NewLogger(t))

			result, err := w.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, types.IsKind(err, types.KindStorage))
			assert.Empty(t, n.records)
		})
	}
}
