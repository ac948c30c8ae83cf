package inspect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pageserve/internal/archive"
)

func writeTestContainer(t *testing.T) string {
	t.Helper()

	w := archive.NewWriter("https://example.com/")
	require.NoError(t, w.AddPage(&archive.PageRecord{
		URL:     "https://example.com/",
		Content: "<html></html>",
	}))

	path := filepath.Join(t.TempDir(), "site.page")
	require.NoError(t, w.WriteFile(path))
	return path
}

func TestRun_ReadableContainer(t *testing.T) {
	path := writeTestContainer(t)
	assert.NoError(t, run([]string{path}))
}

func TestRun_SkipsUnreadableButSucceedsWithOneGoodFile(t *testing.T) {
	path := writeTestContainer(t)
	missing := filepath.Join(t.TempDir(), "nope.page")

	assert.NoError(t, run([]string{missing, path}))
}

func TestRun_AllUnreadableFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.page")
	assert.Error(t, run([]string{missing}))
}
