package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
// Without a subcommand it shows the effective configuration.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Long: `Display the effective configuration and the files it was read from.

Sources, lowest to highest precedence:
  1. Built-in defaults
  2. Global config (~/.config/taskboard/config.toml)
  3. Repository config (.taskboard.toml at the git root)
  4. .env in the working directory and TASKBOARD_* environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printSource(w, out.Info.GlobalPath, out.Info.GlobalExists)
			printSource(w, out.Info.RepoPath, out.Info.RepoExists)
			printSource(w, out.Info.EnvFile, out.Info.EnvExists)
			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Config)
		},
	}

	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

func printSource(w io.Writer, path string, exists bool) {
	if path == "" {
		return
	}
	if exists {
		_, _ = fmt.Fprintf(w, "- %s\n", path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", path)
	}
}

// effectiveConfig mirrors domain.Config with the timeout as a duration string
// and without the session key.
type effectiveConfig struct {
	API struct {
		BaseURL  string `toml:"base_url"`
		Timeout  string `toml:"timeout"`
		AuthMode string `toml:"auth_mode"`
	} `toml:"api"`
	TUI struct {
		DefaultSort    string `toml:"default_sort"`
		DefaultView    string `toml:"default_view"`
		PriorityFilter string `toml:"priority_filter"`
	} `toml:"tui"`
	Log struct {
		Level      string `toml:"level"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
	} `toml:"log"`
	Session struct {
		Encrypt bool `toml:"encrypt"`
		KeySet  bool `toml:"key_set"`
	} `toml:"session"`
}

// formatEffectiveConfig writes cfg in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	var out effectiveConfig
	out.API.BaseURL = cfg.API.BaseURL
	out.API.Timeout = cfg.API.Timeout.String()
	out.API.AuthMode = string(cfg.API.AuthMode)
	out.TUI.DefaultSort = string(cfg.TUI.DefaultSort)
	out.TUI.DefaultView = cfg.TUI.DefaultView
	out.TUI.PriorityFilter = string(cfg.TUI.PriorityFilter)
	out.Log.Level = cfg.Log.Level
	out.Log.MaxSizeMB = cfg.Log.MaxSizeMB
	out.Log.MaxBackups = cfg.Log.MaxBackups
	out.Session.Encrypt = cfg.Session.Encrypt
	out.Session.KeySet = cfg.Session.Key != ""

	enc := toml.NewEncoder(w)
	enc.SetIndentTables(false)
	return enc.Encode(out)
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the global config file",
		Long: `Write a commented config template to the global config path.

An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{})
			if errors.Is(err, domain.ErrConfigExists) {
				return fmt.Errorf("%w: %s", err, c.ConfigManager.GetConfigInfo().GlobalPath)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}
}
