package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables (prefixed NOTUM_, e.g. NOTUM_SERVER_PORT) take
// precedence over values from the config file, which take precedence over
// defaults. Returns a populated Config or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8085)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "notum.db")
	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.timeout_seconds", 30)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NOTUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
