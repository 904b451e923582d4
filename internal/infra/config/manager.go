package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	workDir       string // Working directory used to locate .taskboard.toml and .env
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskboard)
}

// NewManager creates a new Manager.
func NewManager(workDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// GetConfigInfo returns the locations of every configuration source.
func (m *Manager) GetConfigInfo() domain.ConfigInfo {
	info := domain.ConfigInfo{
		RepoPath: RepoConfigPath(m.workDir),
		EnvFile:  filepath.Join(m.workDir, EnvFileName),
	}
	if m.globalConfDir != "" {
		info.GlobalPath = filepath.Join(m.globalConfDir, domain.ConfigFileName)
		info.GlobalExists = fileExists(info.GlobalPath)
	}
	info.RepoExists = fileExists(info.RepoPath)
	info.EnvExists = fileExists(info.EnvFile)
	return info
}

// InitGlobalConfig creates a global config file with the default template.
func (m *Manager) InitGlobalConfig() error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	content := domain.RenderConfigTemplate(domain.NewDefaultConfig())
	return os.WriteFile(path, []byte(content), 0o600)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
