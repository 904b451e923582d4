package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetConfigInfo(t *testing.T) {
	t.Run("reports existing files", func(t *testing.T) {
		workDir := t.TempDir()
		globalDir := t.TempDir()
		writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "[log]\nlevel = \"debug\"")
		writeFile(t, filepath.Join(workDir, EnvFileName), "TASKBOARD_API_URL=http://x")

		info := NewManagerWithGlobalDir(workDir, globalDir).GetConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.GlobalPath)
		assert.True(t, info.GlobalExists)
		assert.Equal(t, filepath.Join(workDir, domain.RepoConfigFileName), info.RepoPath)
		assert.False(t, info.RepoExists)
		assert.True(t, info.EnvExists)
	})

	t.Run("returns empty global path when global dir is empty", func(t *testing.T) {
		info := NewManagerWithGlobalDir(t.TempDir(), "").GetConfigInfo()

		assert.Empty(t, info.GlobalPath)
		assert.False(t, info.GlobalExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "taskboard")
		manager := NewManagerWithGlobalDir(t.TempDir(), globalDir)

		require.NoError(t, manager.InitGlobalConfig())

		content, err := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), `base_url = "http://127.0.0.1:8000"`)

		// The rendered template must be valid TOML that the loader accepts.
		var raw map[string]any
		require.NoError(t, toml.Unmarshal(content, &raw))
		cfg := convertRawToDomainConfig(raw)
		assert.Empty(t, cfg.Warnings)
		assert.Equal(t, domain.DefaultTimeout, cfg.API.Timeout)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		globalDir := t.TempDir()
		writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "# mine")
		manager := NewManagerWithGlobalDir(t.TempDir(), globalDir)

		err := manager.InitGlobalConfig()
		require.ErrorIs(t, err, domain.ErrConfigExists)

		content, _ := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
		assert.Equal(t, "# mine", string(content))
	})

	t.Run("fails without global dir", func(t *testing.T) {
		err := NewManagerWithGlobalDir(t.TempDir(), "").InitGlobalConfig()
		require.Error(t, err)
	})
}
