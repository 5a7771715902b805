package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the embedded database settings.
type DatabaseConfig struct {
	// Path is the filesystem location of the sqlite database file.
	Path string `mapstructure:"path" validate:"required"`
}

// WorkerConfig contains settings for the background worker pool.
type WorkerConfig struct {
	Count int `mapstructure:"count" validate:"required,gt=0"`
	// TimeoutSeconds bounds each delegated call; requests past the
	// deadline reject with a timeout error.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
