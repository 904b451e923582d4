package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Default configuration values.
const (
	DefaultBaseURL       = "http://127.0.0.1:8000"
	DefaultTimeout       = 10 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 3
	DefaultTUIView       = "list"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	API      APIConfig     `toml:"api"`
	TUI      TUIConfig     `toml:"tui"`
	Log      LogConfig     `toml:"log"`
	Session  SessionConfig `toml:"session"`
}

// APIConfig holds settings from the [api] section.
type APIConfig struct {
	BaseURL  string        `toml:"base_url"`
	AuthMode AuthMode      `toml:"auth_mode"`
	Timeout  time.Duration `toml:"timeout"`
}

// TUIConfig holds settings from the [tui] section.
type TUIConfig struct {
	DefaultSort    SortKey        `toml:"default_sort"`
	DefaultView    string         `toml:"default_view"` // "list" or "kanban"
	PriorityFilter PriorityFilter `toml:"priority_filter"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// SessionConfig holds settings from the [session] section.
type SessionConfig struct {
	Key     string `toml:"-"` // From TASKBOARD_SESSION_KEY only
	Encrypt bool   `toml:"encrypt"`
}

// NewDefaultConfig returns the configuration used when no file sets a value.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			AuthMode: AuthWhenAvailable,
			Timeout:  DefaultTimeout,
		},
		TUI: TUIConfig{
			DefaultSort:    SortNewest,
			DefaultView:    DefaultTUIView,
			PriorityFilter: FilterAll,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	if !c.API.AuthMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAuthMode, c.API.AuthMode)
	}
	if _, err := ParseSortKey(string(c.TUI.DefaultSort)); err != nil {
		return fmt.Errorf("tui.default_sort: %w", err)
	}
	if _, err := ParsePriorityFilter(string(c.TUI.PriorityFilter)); err != nil {
		return fmt.Errorf("tui.priority_filter: %w", err)
	}
	return nil
}

// RenderConfigTemplate renders a commented config file showing the given values.
func RenderConfigTemplate(cfg *Config) string {
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return configTemplateContent
	}
	return buf.String()
}
