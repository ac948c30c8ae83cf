// Package server provides replay server configuration.
package server

import (
	"errors"
	"fmt"
	"time"
)

// Valid TCP port bounds.
const (
	minPort = 1
	maxPort = 65535
)

// Config represents server-specific configuration settings.
type Config struct {
	// Port is the TCP port to listen on.
	Port int `mapstructure:"port" yaml:"port"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// IdleTimeout is the maximum time to wait for the next request.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// Address returns the listen address for the configured port.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < minPort || c.Port > maxPort {
		return fmt.Errorf("invalid port %d: must be between %d and %d", c.Port, minPort, maxPort)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}
