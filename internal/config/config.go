// Package config provides configuration management for the application.
// Values come from a YAML config file, environment variables, and command
// flags, merged through Viper and decoded into typed per-concern configs.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	archivecfg "github.com/jonesrussell/pageserve/internal/config/archive"
	"github.com/jonesrussell/pageserve/internal/config/server"
)

// Defaults applied when neither flags, environment, nor config file provide
// a value. The directory default matches the capture tool's output location.
const (
	DefaultPort      = 8000
	DefaultDirectory = "./downloaded_sites"

	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Config represents the application configuration.
type Config struct {
	// Server holds replay server configuration.
	Server *server.Config `mapstructure:"server"`
	// Archive holds container storage configuration.
	Archive *archivecfg.Config `mapstructure:"archive"`
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Archive.Validate(); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	return nil
}

// SetDefaults registers default values with Viper. Must run before Load.
func SetDefaults() {
	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.read_timeout", defaultReadTimeout)
	viper.SetDefault("server.write_timeout", defaultWriteTimeout)
	viper.SetDefault("server.idle_timeout", defaultIdleTimeout)
	viper.SetDefault("archive.directory", DefaultDirectory)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")
}

// Load decodes the merged Viper settings into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Server:  &server.Config{},
		Archive: &archivecfg.Config{},
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
