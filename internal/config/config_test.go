package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ipwatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appSettings = `{
  "MailSettings": {
    "SmtpHost": "smtp.example.com",
    "SmtpPort": 587,
    "SmtpUser": "relay-user",
    "SmtpPass": "relay-pass",
    "FromAddress": "ipwatch@example.com",
    "ToAddresses": ["ops@example.com", "Admin <admin@example.com>"]
  }
}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigAppSettings(t *testing.T) {
	path := writeConfig(t, "appsettings.json", appSettings)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, "relay-user", cfg.Mail.SMTPUser)
	assert.Equal(t, "relay-pass", cfg.Mail.SMTPPass)
	assert.Equal(t, "ipwatch@example.com", cfg.Mail.FromAddress)
	assert.Equal(t, []string{"ops@example.com", "Admin <admin@example.com>"}, cfg.Mail.ToAddresses)
	assert.True(t, cfg.Mail.HasRecipients())

	// Defaults
	assert.Equal(t, "Local IP Address Change Notification", cfg.Mail.Subject)
	assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ip_changes.db", cfg.Database.DSN)
	assert.Equal(t, "hostname", cfg.Resolver.Mode)
	assert.Equal(t, 5*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "appsettings.yaml", `
mailsettings:
  smtphost: smtp.example.com
  smtpport: 465
  smtpuser: u
  smtppass: p
  fromaddress: ipwatch@example.com
  toaddresses: []
database:
  driver: sqlite
  dsn: /var/lib/ipwatch/ip_changes.db
resolver:
  mode: interfaces
  timeout: 2s
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Mail.HasRecipients())
	assert.Equal(t, "/var/lib/ipwatch/ip_changes.db", cfg.Database.DSN)
	assert.Equal(t, "interfaces", cfg.Resolver.Mode)
	assert.Equal(t, 2*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "appsettings.json", appSettings)
	t.Setenv("IPWATCH_MAILSETTINGS_SMTPPASS", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Mail.SMTPPass)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "missing host",
			content: `{"MailSettings": {"SmtpPort": 587, "SmtpUser": "u", "SmtpPass": "p",
				"FromAddress": "a@example.com", "ToAddresses": []}}`,
			wantMsg: "mailsettings.smtphost is required",
		},
		{
			name: "missing recipients key",
			content: `{"MailSettings": {"SmtpHost": "smtp.example.com", "SmtpPort": 587,
				"SmtpUser": "u", "SmtpPass": "p", "FromAddress": "a@example.com"}}`,
			wantMsg: "mailsettings.toaddresses",
		},
		{
			name: "bad port",
			content: `{"MailSettings": {"SmtpHost": "smtp.example.com", "SmtpPort": 0,
				"SmtpUser": "u", "SmtpPass": "p", "FromAddress": "a@example.com", "ToAddresses": []}}`,
			wantMsg: "mailsettings.smtpport is required",
		},
		{
			name: "bad driver",
			content: `{"MailSettings": {"SmtpHost": "smtp.example.com", "SmtpPort": 25,
				"SmtpUser": "u", "SmtpPass": "p", "FromAddress": "a@example.com", "ToAddresses": []},
				"Database": {"Driver": "oracle", "DSN": "x"}}`,
			wantMsg: "database.driver must be one of",
		},
		{
			name:    "malformed json",
			content: `{"MailSettings": `,
			wantMsg: "read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "appsettings.json", tt.content)

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.True(t, types.IsKind(err, types.KindConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConfig))
}
