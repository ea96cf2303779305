package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		"shapes/shapes.go":           "package shapes\n",
		"shapes/autogen_markers.go":  "package shapes\n",
		"grids/grids.go":             "package grids\n",
		"grids/autogen_markers.go":   "package grids\n",
		"grids/sub/sub.go":           "package sub\n",
		"grids/sub/autogen_markers.go": "package sub\n",
	})

	t.Run("wildcard cleans the whole tree", func(t *testing.T) {
		cleaner := NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles([]string{filepath.Join(tempDir, "grids") + "/..."})
		require.NoError(t, err)

		assert.Len(t, removed, 2)
		assert.NoFileExists(t, filepath.Join(tempDir, "grids", "autogen_markers.go"))
		assert.NoFileExists(t, filepath.Join(tempDir, "grids", "sub", "autogen_markers.go"))
		assert.FileExists(t, filepath.Join(tempDir, "shapes", "autogen_markers.go"))
	})

	t.Run("plain directory cleans only itself", func(t *testing.T) {
		cleaner := NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles([]string{filepath.Join(tempDir, "shapes")})
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join(tempDir, "shapes", "autogen_markers.go")}, removed)
		assert.NoFileExists(t, filepath.Join(tempDir, "shapes", "autogen_markers.go"))
	})

	t.Run("source files are left alone", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(tempDir, "shapes", "shapes.go"))
		assert.FileExists(t, filepath.Join(tempDir, "grids", "grids.go"))
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		cleaner := NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles([]string{filepath.Join(tempDir, "missing")})
		require.NoError(t, err)
		assert.Empty(t, removed)
	})
}

func TestCleaner_CustomGeneratedFileName(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		"shapes/shapes.go":          "package shapes\n",
		"shapes/zz_markers.go":      "package shapes\n",
		"shapes/autogen_markers.go": "package shapes\n",
	})

	cleaner := NewCleaner()
	cleaner.SetGeneratedFileName("zz_markers.go")

	removed, err := cleaner.CleanGeneratedFiles([]string{tempDir + "/..."})
	require.NoError(t, err)

	assert.Len(t, removed, 1)
	assert.NoFileExists(t, filepath.Join(tempDir, "shapes", "zz_markers.go"))
	assert.FileExists(t, filepath.Join(tempDir, "shapes", "autogen_markers.go"))
}
