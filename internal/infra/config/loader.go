// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskboard/internal/domain"
)

// Environment variables that override file settings.
const (
	EnvAPIURL     = "TASKBOARD_API_URL"
	EnvAuthMode   = "TASKBOARD_AUTH_MODE"
	EnvLogLevel   = "TASKBOARD_LOG_LEVEL"
	EnvSessionKey = "TASKBOARD_SESSION_KEY"
)

// EnvFileName is the dotenv file read from the working directory.
const EnvFileName = ".env"

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	workDir       string // Directory the repository config and .env are looked up from
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskboard)
}

// NewLoader creates a new Loader.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory
// and environment lookup. This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
		getenv:        getenv,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// GlobalDir returns the global config directory.
func (l *Loader) GlobalDir() string {
	return l.globalConfDir
}

// Load returns the merged configuration.
// Precedence: defaults <- global <- repository <- .env <- process environment.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	repo, err := l.loadFile(RepoConfigPath(l.workDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if repo != nil {
		base = mergeConfigs(base, repo)
	}

	env, err := l.environment()
	if err != nil {
		return nil, err
	}
	base = mergeConfigs(base, env)

	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// RepoConfigPath returns the repository config path for workDir.
// Inside a git work tree the file lives at the repository root;
// elsewhere it is looked up in workDir itself.
func RepoConfigPath(workDir string) string {
	return filepath.Join(repoRoot(workDir), domain.RepoConfigFileName)
}

func repoRoot(workDir string) string {
	repo, err := git.PlainOpenWithOptions(workDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return workDir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return workDir
	}
	return wt.Filesystem.Root()
}

// environment builds an override config from .env and the process environment.
// Process variables win over .env entries.
func (l *Loader) environment() (*domain.Config, error) {
	values := map[string]string{}
	if l.workDir != "" {
		dotenv, err := godotenv.Read(filepath.Join(l.workDir, EnvFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", EnvFileName, err)
		}
		for k, v := range dotenv {
			values[k] = v
		}
	}
	for _, key := range []string{EnvAPIURL, EnvAuthMode, EnvLogLevel, EnvSessionKey} {
		if v := l.getenv(key); v != "" {
			values[key] = v
		}
	}

	cfg := &domain.Config{}
	cfg.API.BaseURL = values[EnvAPIURL]
	cfg.API.AuthMode = domain.AuthMode(strings.ToLower(values[EnvAuthMode]))
	cfg.Log.Level = strings.ToLower(values[EnvLogLevel])
	cfg.Session.Key = values[EnvSessionKey]
	return cfg, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "api":
			for k, v := range m {
				switch k {
				case "base_url":
					if s, ok := v.(string); ok {
						res.API.BaseURL = s
					}
				case "auth_mode":
					if s, ok := v.(string); ok {
						res.API.AuthMode = domain.AuthMode(strings.ToLower(s))
					}
				case "timeout":
					d, err := parseTimeout(v)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("invalid [api] timeout: %v", err))
						continue
					}
					res.API.Timeout = d
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [api]: %s", k))
				}
			}
		case "tui":
			for k, v := range m {
				s, _ := v.(string)
				switch k {
				case "default_sort":
					res.TUI.DefaultSort = domain.SortKey(strings.ToLower(s))
				case "default_view":
					res.TUI.DefaultView = strings.ToLower(s)
				case "priority_filter":
					res.TUI.PriorityFilter = domain.PriorityFilter(s)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [tui]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				case "max_size_mb":
					if n, ok := v.(int64); ok {
						res.Log.MaxSizeMB = int(n)
					}
				case "max_backups":
					if n, ok := v.(int64); ok {
						res.Log.MaxBackups = int(n)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "session":
			for k, v := range m {
				switch k {
				case "encrypt":
					if b, ok := v.(bool); ok {
						res.Session.Encrypt = b
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [session]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// parseTimeout accepts a duration string ("10s") or a number of seconds.
func parseTimeout(v any) (time.Duration, error) {
	switch t := v.(type) {
	case string:
		d, err := time.ParseDuration(t)
		if err != nil {
			return 0, err
		}
		if d <= 0 {
			return 0, fmt.Errorf("must be positive: %s", t)
		}
		return d, nil
	case int64:
		if t <= 0 {
			return 0, fmt.Errorf("must be positive: %d", t)
		}
		return time.Duration(t) * time.Second, nil
	case float64:
		if t <= 0 {
			return 0, fmt.Errorf("must be positive: %g", t)
		}
		return time.Duration(t * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("unsupported value %v", v)
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		API:      base.API,
		TUI:      base.TUI,
		Log:      base.Log,
		Session:  base.Session,
		Warnings: append([]string{}, base.Warnings...),
	}

	// Add override warnings
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.AuthMode != "" {
		result.API.AuthMode = override.API.AuthMode
	}
	if override.API.Timeout > 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.TUI.DefaultSort != "" {
		result.TUI.DefaultSort = override.TUI.DefaultSort
	}
	if override.TUI.DefaultView != "" {
		result.TUI.DefaultView = override.TUI.DefaultView
	}
	if override.TUI.PriorityFilter != "" {
		result.TUI.PriorityFilter = override.TUI.PriorityFilter
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.MaxSizeMB > 0 {
		result.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if override.Log.MaxBackups > 0 {
		result.Log.MaxBackups = override.Log.MaxBackups
	}
	if override.Session.Encrypt {
		result.Session.Encrypt = override.Session.Encrypt
	}
	if override.Session.Key != "" {
		result.Session.Key = override.Session.Key
	}

	return result
}
