package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// TASKNEST_SERVER_PORT or TASKNEST_DATABASE_URI.
const envPrefix = "TASKNEST"

// Load reads configuration from (highest precedence first) environment
// variables, a .env file in the working directory, and an optional
// config.yaml. Returns a validated Config or an error.
func Load() (*Config, error) {
	// A missing .env file is fine; its values only feed the env lookup below.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 4000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "tasknest")
	v.SetDefault("database.connect_timeout_seconds", 10)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
