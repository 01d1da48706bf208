package template

import (
	"testing"
	"time"

	"ipwatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRenderDefaultIPChange(t *testing.T) {
	loader, err := NewLoader(zaptest.NewLogger(t))
	require.NoError(t, err)

	record := &types.IPChangeRecord{
		ID:         2,
		OldAddress: types.Previous("1.1.1.1"),
		NewAddress: "2.2.2.2",
		ChangedAt:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
	}

	body, err := loader.Render(Email, IPChange, NewIPChangeData(record, "workstation"))
	require.NoError(t, err)

	assert.Contains(t, body, "The local IP address has changed from 1.1.1.1 to 2.2.2.2.")
	assert.Contains(t, body, "Host:        workstation")
	assert.Contains(t, body, "Detected at: 2024-05-01 09:30:00")
	assert.NotContains(t, body, "first check")
}

func TestRenderFirstRecord(t *testing.T) {
	loader, err := NewLoader(nil)
	require.NoError(t, err)

	record := &types.IPChangeRecord{NewAddress: "10.0.0.1", ChangedAt: time.Now()}
	body, err := loader.Render(Email, IPChange, NewIPChangeData(record, "h"))
	require.NoError(t, err)

	assert.Contains(t, body, "changed from None to 10.0.0.1.")
	assert.Contains(t, body, "first check on this host")
}

func TestCustomTemplate(t *testing.T) {
	loader, err := NewLoader(nil)
	require.NoError(t, err)

	require.NoError(t, loader.SetCustomTemplate(Email, IPChange, "{{ .Hostname }}: {{ .NewAddress }}"))

	body, err := loader.Render(Email, IPChange, IPChangeData{Hostname: "nas", NewAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, "nas: 10.0.0.9", body)

	assert.Error(t, loader.SetCustomTemplate(Email, IPChange, "{{ .Broken "))
}

func TestGetTemplateNotFound(t *testing.T) {
	loader, err := NewLoader(nil)
	require.NoError(t, err)

	_, err = loader.GetTemplate(Email, "agent_offline")
	assert.Error(t, err)
}
