package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ipwatch/internal/types"
	"ipwatch/internal/validator"

	"github.com/spf13/viper"
)

// Config represents the complete ipwatch configuration
type Config struct {
	Mail     MailConfig     `mapstructure:"mailsettings"`
	Database DatabaseConfig `mapstructure:"database"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Log      LogConfig      `mapstructure:"log"`

	// File is the settings file that was read
	File string `mapstructure:"-"`
}

// requiredKeys must be present in the settings file, even when empty
var requiredKeys = []string{
	"mailsettings.toaddresses",
}

// LoadConfig loads configuration from path, or searches the default
// locations for appsettings.{json,yaml,toml} when path is empty.
// Every failure is returned as a types.KindConfig error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(InDot)
		v.AddConfigPath(InHome)
		v.AddConfigPath(InHomeDot)
		v.AddConfigPath(InEtc)
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, types.ConfigError("read config file", err)
	}

	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return nil, types.ConfigError("check settings", fmt.Errorf("%w: %s", types.ErrMissingSetting, key))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.ConfigError("unmarshal config", err)
	}
	cfg.File = v.ConfigFileUsed()

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, types.ConfigError("validate config", err)
	}

	return &cfg, nil
}

// setDefaults sets default values if not specified
func setDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "ip_changes.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 30 * time.Second
	}

	if cfg.Resolver.Mode == "" {
		cfg.Resolver.Mode = "hostname"
	}
	if cfg.Resolver.Timeout == 0 {
		cfg.Resolver.Timeout = 5 * time.Second
	}

	if cfg.Mail.Subject == "" {
		cfg.Mail.Subject = "Local IP Address Change Notification"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 30 * time.Second
	}

	cfg.Log.SetDefaults()
}

// Validate validates the configuration
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}
