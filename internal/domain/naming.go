package domain

import (
	"fmt"
	"path/filepath"
)

// AppName is used for config directories and the User-Agent header.
const AppName = "taskboard"

// ConfigFileName is the name of the global config file.
const ConfigFileName = "config.toml"

// RepoConfigFileName is the name of the repository-local config file.
const RepoConfigFileName = ".taskboard.toml"

// SessionFileName is the name of the persisted session file.
const SessionFileName = "session.json"

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// SessionPath returns the path to the persisted session file.
func SessionPath(configDir string) string {
	return filepath.Join(configDir, SessionFileName)
}

// LogPath returns the path to the log file.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", AppName+".log")
}

// TaskLabel returns the display label for a task id.
// Format: #<id>
func TaskLabel(id int) string {
	return fmt.Sprintf("#%d", id)
}
