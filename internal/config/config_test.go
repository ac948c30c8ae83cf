package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pageserve/internal/config"
)

// resetViper gives each test a clean global Viper with defaults applied.
func resetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	config.SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultDirectory, cfg.Archive.Directory)
}

func TestLoad_Overrides(t *testing.T) {
	resetViper(t)

	viper.Set("server.port", 9090)
	viper.Set("server.read_timeout", "5s")
	viper.Set("archive.directory", "/srv/archives")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/archives", cfg.Archive.Directory)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetViper(t)

	viper.Set("server.port", 0)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestLoad_EmptyDirectory(t *testing.T) {
	resetViper(t)

	viper.Set("archive.directory", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}
