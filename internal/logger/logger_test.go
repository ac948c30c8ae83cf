package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToConfiguredOutputPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{
		Level:       InfoLevel,
		Encoding:    "json",
		OutputPaths: []string{path},
	})
	require.NoError(t, err)

	log.Info("containers ready", "sites", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "containers ready")
	assert.Contains(t, string(data), `"sites":2`)
}

func TestNew_UnopenableOutputPathFails(t *testing.T) {
	t.Parallel()

	_, err := New(&Config{
		OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "app.log")},
	})
	require.Error(t, err)
}

func TestNew_DefaultsApplyWhenUnset(t *testing.T) {
	t.Parallel()

	log, err := New(&Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
}
