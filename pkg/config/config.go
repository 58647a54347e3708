// Package config loads and validates the service configuration. Sources in
// order of precedence: environment variables (LEXVAULT_*), an optional YAML
// or TOML file, and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Download DownloadConfig `mapstructure:"download"`
	Search   SearchConfig   `mapstructure:"search"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}

// StorageConfig selects the blob backend. Options carries the
// backend-specific settings and is decoded by the matching factory.
type StorageConfig struct {
	Type    string         `mapstructure:"type" validate:"required,oneof=s3 memory"`
	Options map[string]any `mapstructure:"options"`
}

// DownloadConfig controls presigned download URLs.
type DownloadConfig struct {
	URLTTL time.Duration `mapstructure:"url_ttl" validate:"required,gt=0"`
}

// SearchConfig bounds metadata searches and the tag catalog cache.
type SearchConfig struct {
	MaxScan    int           `mapstructure:"max_scan" validate:"required,gt=0"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" validate:"required,gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("storage.type", "memory")
	v.SetDefault("download.url_ttl", 15*time.Minute)
	v.SetDefault("search.max_scan", 10000)
	v.SetDefault("search.catalog_ttl", 5*time.Minute)
}

// Load reads the configuration, optionally from the given file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LEXVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
