package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviousAddress(t *testing.T) {
	assert.False(t, NoPreviousAddress.Valid)
	assert.Equal(t, "None", NoPreviousAddress.String())
	assert.False(t, NoPreviousAddress.Matches(""))
	assert.False(t, NoPreviousAddress.Matches("10.0.0.1"))

	prev := Previous("10.0.0.1")
	assert.True(t, prev.Matches("10.0.0.1"))
	assert.False(t, prev.Matches("10.0.0.2"))
	assert.Equal(t, "10.0.0.1", prev.String())
}

func TestIPChangeRecordIsFirst(t *testing.T) {
	assert.True(t, (&IPChangeRecord{NewAddress: "10.0.0.1"}).IsFirst())
	assert.False(t, (&IPChangeRecord{OldAddress: Previous("10.0.0.1"), NewAddress: "10.0.0.2"}).IsFirst())
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("append: %w", StorageError("insert record", cause))

	assert.True(t, IsKind(err, KindStorage))
	assert.False(t, IsKind(err, KindConfig))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage error: insert record: disk full")

	kind, ok := KindOf(ResolutionError("lookup", ErrNoIPv4Address))
	assert.True(t, ok)
	assert.Equal(t, KindResolution, kind)

	_, ok = KindOf(cause)
	assert.False(t, ok)
}
