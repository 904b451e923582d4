// Package cli provides the command-line interface for taskboard.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/tui"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupTask   = "task"
	groupDetail = "detail"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for taskboard.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Terminal client for the task API",
		Long: `taskboard is a terminal client for a remote task-tracking API.

Run without arguments to open the interactive board. Subcommands
expose the same operations for scripting.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			if cmd.Name() == "init" {
				return nil
			}
			out, err := c.RestoreSessionUseCase().Execute(cmd.Context(), usecase.RestoreSessionInput{})
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				return nil
			}
			if out.Expired {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: session expired, please log in again")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupDetail, Title: "Task Details:"},
	)

	// Setup commands
	loginCmd := newLoginCommand(c)
	loginCmd.GroupID = groupSetup

	logoutCmd := newLogoutCommand(c)
	logoutCmd.GroupID = groupSetup

	whoamiCmd := newWhoamiCommand(c)
	whoamiCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Task management commands
	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	kanbanCmd := newKanbanCommand(c)
	kanbanCmd.GroupID = groupTask

	summaryCmd := newSummaryCommand(c)
	summaryCmd.GroupID = groupTask

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupTask

	// Detail commands
	showCmd := newShowCommand(c)
	showCmd.GroupID = groupDetail

	commentCmd := newCommentCommand(c)
	commentCmd.GroupID = groupDetail

	commentsCmd := newCommentsCommand(c)
	commentsCmd.GroupID = groupDetail

	attachCmd := newAttachCommand(c)
	attachCmd.GroupID = groupDetail

	attachmentsCmd := newAttachmentsCommand(c)
	attachmentsCmd.GroupID = groupDetail

	downloadCmd := newDownloadCommand(c)
	downloadCmd.GroupID = groupDetail

	// Add subcommands
	root.AddCommand(
		loginCmd,
		logoutCmd,
		whoamiCmd,
		configCmd,
		listCmd,
		newCmd,
		editCmd,
		rmCmd,
		kanbanCmd,
		summaryCmd,
		tuiCmd,
		showCmd,
		commentCmd,
		commentsCmd,
		attachCmd,
		attachmentsCmd,
		downloadCmd,
	)

	return root
}

// newTUICommand creates the tui command for launching the interactive TUI.
// It is the same as running taskboard without arguments.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long:  `Launch the interactive terminal user interface for managing tasks.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the Bubble Tea program until the user quits.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
