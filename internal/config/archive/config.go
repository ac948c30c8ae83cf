// Package archive provides container storage configuration.
package archive

import "errors"

// Config represents container storage configuration settings.
type Config struct {
	// Directory is the root directory scanned recursively for .page files.
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("container directory must not be empty")
	}
	return nil
}
