// Package config loads and validates the application configuration from
// environment variables, an optional .env file, and an optional config file.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all store-related configuration settings.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"  validate:"required"`
	Name string `mapstructure:"name" validate:"required"`

	// ConnectTimeoutSeconds bounds the initial connect + ping.
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds" validate:"gte=0"`
}
