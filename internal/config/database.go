package config

import "time"

// DatabaseConfig represents change store configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=sqlite mysql postgres"`
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"maxopenconns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"connmaxlifetime"`
	QueryTimeout    time.Duration `mapstructure:"querytimeout"`
}

// ResolverConfig represents local address resolution settings
type ResolverConfig struct {
	Mode     string        `mapstructure:"mode" validate:"required,oneof=hostname interfaces"`
	Hostname string        `mapstructure:"hostname" validate:"hostname"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0"`
}
