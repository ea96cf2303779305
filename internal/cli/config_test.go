package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/earmark/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, []string{"./..."}, config.Directories)
	assert.Equal(t, "autogen_markers.go", config.OutputFileName)
	assert.False(t, config.Recursive)
	assert.Zero(t, config.Jobs)
}

func TestLoadConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("all keys", func(t *testing.T) {
		path := filepath.Join(tempDir, "full.yaml")
		content := `output: zz_markers.go
recursive: true
jobs: 4
exclude:
  - fixtures
  - snapshots
required-version: ">= 0.2"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		fc, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, "zz_markers.go", fc.Output)
		require.NotNil(t, fc.Recursive)
		assert.True(t, *fc.Recursive)
		require.NotNil(t, fc.Jobs)
		assert.Equal(t, 4, *fc.Jobs)
		assert.Equal(t, []string{"fixtures", "snapshots"}, fc.Exclude)
		assert.Equal(t, ">= 0.2", fc.RequiredVersion)
	})

	t.Run("absent keys stay nil", func(t *testing.T) {
		path := filepath.Join(tempDir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output: other.go\n"), 0644))

		fc, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, "other.go", fc.Output)
		assert.Nil(t, fc.Recursive)
		assert.Nil(t, fc.Jobs)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("outputs: typo.go\n"), 0644))

		_, err := LoadConfigFile(path)
		require.Error(t, err)
		assert.Equal(t, errors.ConfigurationErrorCode, err.(*errors.BaseError).ErrorCode())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(tempDir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	writeTree(t, tempDir, map[string]string{
		".earmark.yaml":          "output: from_root.go\n",
		"go.mod":                 "module example.com/proj\n\ngo 1.25\n",
		"pkg/inner/doc.go":       "package inner\n",
		"nested/go.mod":          "module example.com/proj/nested\n\ngo 1.25\n",
		"nested/pkg/doc.go":      "package pkg\n",
	})

	t.Run("found walking up from a package", func(t *testing.T) {
		path, err := FindConfigFile(filepath.Join(tempDir, "pkg", "inner"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, ".earmark.yaml"), path)
	})

	t.Run("found directly in the start directory", func(t *testing.T) {
		path, err := FindConfigFile(tempDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, ".earmark.yaml"), path)
	})

	t.Run("search stops at the nearest module root", func(t *testing.T) {
		// nested/ has its own go.mod, so the outer config must not
		// leak into it.
		path, err := FindConfigFile(filepath.Join(tempDir, "nested", "pkg"))
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}

func TestConfig_ApplyFile(t *testing.T) {
	t.Run("file values fill defaults", func(t *testing.T) {
		config := DefaultConfig()
		recursive := true
		jobs := 8

		config.ApplyFile(&FileConfig{
			Output:          "zz_markers.go",
			Recursive:       &recursive,
			Jobs:            &jobs,
			Exclude:         []string{"fixtures"},
			RequiredVersion: ">= 0.1",
		})

		assert.Equal(t, "zz_markers.go", config.OutputFileName)
		assert.True(t, config.Recursive)
		assert.Equal(t, 8, config.Jobs)
		assert.Equal(t, []string{"fixtures"}, config.Exclude)
		assert.Equal(t, ">= 0.1", config.RequiredVersion)
	})

	t.Run("absent keys leave the config alone", func(t *testing.T) {
		config := DefaultConfig()
		config.Recursive = true
		config.Jobs = 2

		config.ApplyFile(&FileConfig{})

		assert.Equal(t, "autogen_markers.go", config.OutputFileName)
		assert.True(t, config.Recursive)
		assert.Equal(t, 2, config.Jobs)
	})

	t.Run("nil file config is a no-op", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyFile(nil)
		assert.Equal(t, "autogen_markers.go", config.OutputFileName)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("no directories", func(t *testing.T) {
		config := DefaultConfig()
		config.Directories = nil

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no directories to scan")
	})

	t.Run("output name must be a bare .go file", func(t *testing.T) {
		for _, bad := range []string{"", "markers.txt", "sub/markers.go"} {
			config := DefaultConfig()
			config.OutputFileName = bad
			assert.Error(t, config.Validate(), "output %q", bad)
		}
	})

	t.Run("negative jobs", func(t *testing.T) {
		config := DefaultConfig()
		config.Jobs = -1

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jobs must be zero or positive")
	})
}

func TestConfig_CheckRequiredVersion(t *testing.T) {
	config := DefaultConfig()
	config.RequiredVersion = ">= 0.2"

	t.Run("satisfied", func(t *testing.T) {
		assert.NoError(t, config.CheckRequiredVersion("0.3.1"))
	})

	t.Run("unsatisfied", func(t *testing.T) {
		err := config.CheckRequiredVersion("0.1.0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not satisfy the required version")
		assert.Equal(t, errors.ConfigurationErrorCode, err.(*errors.BaseError).ErrorCode())
	})

	t.Run("development builds skip the check", func(t *testing.T) {
		assert.NoError(t, config.CheckRequiredVersion("dev"))
		assert.NoError(t, config.CheckRequiredVersion("(devel)"))
		assert.NoError(t, config.CheckRequiredVersion(""))
	})

	t.Run("no constraint configured", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().CheckRequiredVersion("0.0.1"))
	})

	t.Run("malformed constraint", func(t *testing.T) {
		config := DefaultConfig()
		config.RequiredVersion = "not-a-range"

		err := config.CheckRequiredVersion("1.0.0")
		assert.Error(t, err)
	})
}
