package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// timeLayout formats server timestamps in human output.
const timeLayout = "2006-01-02 15:04"

// Output formats for list commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority string
		Search   string
		Sort     string
		Format   string
		Mine     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display the task list.

Tasks are filtered by priority, then by a case-insensitive search over
name, assignee and status, then sorted.

Output format is tab-separated with columns:
  ID, STATUS, PRIORITY, ASSIGNEE, DUE, NAME

Examples:
  # List all tasks, newest first
  taskboard list

  # Only urgent tasks matching "login"
  taskboard list --priority urgent --search login

  # Sort by priority and print JSON
  taskboard list --sort priority --format json

  # Tasks assigned to me
  taskboard list --mine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParsePriorityFilter(opts.Priority)
			if err != nil {
				return fmt.Errorf("%w: %q", err, opts.Priority)
			}
			sortKey, err := domain.ParseSortKey(opts.Sort)
			if err != nil {
				return fmt.Errorf("%w: %q (newest, oldest, priority)", err, opts.Sort)
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Options: domain.ViewOptions{
					PriorityFilter: filter,
					Query:          opts.Search,
					SortKey:        sortKey,
				},
				Mine: opts.Mine,
			})
			if err != nil {
				return err
			}

			return writeFormatted(cmd.OutOrStdout(), opts.Format, out.Tasks, func(w io.Writer) {
				printTaskList(w, out.Tasks, domain.DateOf(c.Clock.Now()))
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "All", "Filter by priority (All, Low, Medium, High, Urgent)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Case-insensitive search over name, assignee and status")
	cmd.Flags().StringVar(&opts.Sort, "sort", string(domain.SortNewest), "Sort order (newest, oldest, priority)")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", formatTable, "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.Mine, "mine", false, "Only tasks assigned to the signed-in user")

	return cmd
}

// writeFormatted writes v as JSON or YAML, or calls table for the default format.
func writeFormatted(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch strings.ToLower(format) {
	case formatTable, "":
		table(w)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (table, json, yaml)", format)
	}
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task, today domain.Date) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tASSIGNEE\tDUE\tNAME")

	// Rows
	for _, task := range tasks {
		assignee := task.Assignee()
		if assignee == "" {
			assignee = "-"
		}
		due := "-"
		if task.EndDate != nil {
			due = fmt.Sprintf("%s (%s)", task.EndDate, domain.DescribeDue(task.EndDate, today))
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status.Display(),
			task.EffectivePriority(),
			assignee,
			due,
			task.TaskName,
		)
	}
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Raw    bool
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Show a task with its description, attachments and comments.

The description is rendered as Markdown unless --raw is given.
If attachments or comments cannot be loaded, the task is still shown
and a warning is printed.

Examples:
  taskboard show 7
  taskboard show "#7" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}
			for _, w := range out.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			view := detailView{
				Task:        out.Detail.Task,
				Attachments: out.Detail.Attachments,
				Comments:    out.Detail.Comments,
			}
			return writeFormatted(cmd.OutOrStdout(), opts.Format, view, func(w io.Writer) {
				printTaskDetails(w, out.Detail, domain.DateOf(c.Clock.Now()), opts.Raw)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "o", formatTable, "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Print the description without Markdown rendering")

	return cmd
}

// detailView is the serialized form of a task detail.
type detailView struct {
	Task        *domain.Task        `json:"task" yaml:"task"`
	Attachments []domain.Attachment `json:"attachments" yaml:"attachments"`
	Comments    []domain.Comment    `json:"comments" yaml:"comments"`
}

// printTaskDetails prints a task detail page.
func printTaskDetails(w io.Writer, d domain.TaskDetail, today domain.Date, raw bool) {
	task := d.Task

	// Header
	_, _ = fmt.Fprintf(w, "# Task %d: %s\n\n", task.ID, task.TaskName)

	// Fields
	_, _ = fmt.Fprintf(w, "Status:   %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.EffectivePriority())
	if a := task.Assignee(); a != "" {
		_, _ = fmt.Fprintf(w, "Assignee: %s\n", a)
	} else {
		_, _ = fmt.Fprintln(w, "Assignee: none")
	}
	if task.StartDate != nil {
		_, _ = fmt.Fprintf(w, "Start:    %s\n", task.StartDate)
	}
	_, _ = fmt.Fprintf(w, "Due:      %s\n", domain.DescribeDue(task.EndDate, today))
	if task.CreatedAt != nil {
		_, _ = fmt.Fprintf(w, "Created:  %s\n", task.CreatedAt.Format(timeLayout))
	}

	// Description
	_, _ = fmt.Fprintln(w, "\nDescription:")
	desc := strings.TrimSpace(task.DescriptionText())
	switch {
	case desc == "":
		_, _ = fmt.Fprintln(w, "  (none)")
	case raw:
		_, _ = fmt.Fprintf(w, "%s\n", desc)
	default:
		_, _ = fmt.Fprint(w, renderMarkdown(desc))
	}

	// Attachments
	_, _ = fmt.Fprintf(w, "\nAttachments (%d):\n", len(d.Attachments))
	for _, a := range d.Attachments {
		uploaded := ""
		if a.UploadedAt != nil {
			uploaded = "  " + a.UploadedAt.Format(timeLayout)
		}
		_, _ = fmt.Fprintf(w, "  [%d] %s%s\n", a.ID, a.Filename, uploaded)
	}

	// Comments
	_, _ = fmt.Fprintf(w, "\nComments (%d):\n", len(d.Comments))
	printComments(w, d.Comments)
}

// renderMarkdown renders text for a plain terminal, falling back to the source.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

// parseTaskID parses a task ID string, accepting an optional leading "#".
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(s, "#")
	var id int
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("task ID must be positive")
	}
	return id, nil
}

// taskFlags are the field flags shared by new and edit.
type taskFlags struct {
	Name        string
	Status      string
	Priority    string
	Assignee    string
	Start       string
	End         string
	Description string
}

func (f *taskFlags) register(cmd *cobra.Command, withDescription bool) {
	cmd.Flags().StringVarP(&f.Name, "name", "n", "", "Task name")
	cmd.Flags().StringVar(&f.Status, "status", "", "Status (Considered, Investigation, Ready To Development, Under Development, Code Review, Development Completed)")
	cmd.Flags().StringVar(&f.Priority, "priority", "", "Priority (Low, Medium, High, Urgent)")
	cmd.Flags().StringVar(&f.Assignee, "assignee", "", "Assignee (empty clears)")
	cmd.Flags().StringVar(&f.Start, "start", "", "Start date YYYY-MM-DD (empty clears)")
	cmd.Flags().StringVar(&f.End, "end", "", "End date YYYY-MM-DD (empty clears)")
	if withDescription {
		cmd.Flags().StringVar(&f.Description, "description", "", "Description (empty clears)")
	}
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var flags taskFlags
	var opts struct {
		File   string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

Status defaults to Considered and priority to Medium. Empty optional
fields are sent as null.

Examples:
  # Create a task
  taskboard new --name "Fix login"

  # With all fields
  taskboard new --name "Fix login" --status "Under Development" \
    --priority urgent --assignee alice --start 2025-01-02 --end 2025-01-09

  # Create tasks from a YAML file (one task per document)
  taskboard new --file tasks.yaml

  # Validate a file without creating anything
  taskboard new --file tasks.yaml --dry-run

File format for --file:
  task_name: Write docs
  priority: High
  ---
  task_name: Review PR
  status: Code Review
  assigned_to: bob
  end_date: 2025-02-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.File != "" {
				return createTasksFromFile(cmd, c, opts.File, opts.DryRun)
			}
			if opts.DryRun {
				return fmt.Errorf("--dry-run requires --file")
			}

			// Require --name when not using --file
			if strings.TrimSpace(flags.Name) == "" {
				return domain.ErrEmptyTitle
			}

			draft := domain.TaskDraft{
				TaskName:   flags.Name,
				AssignedTo: flags.Assignee,
				StartDate:  flags.Start,
				EndDate:    flags.End,
			}
			if flags.Status != "" {
				status, err := domain.ParseStatus(flags.Status)
				if err != nil {
					return fmt.Errorf("%w: %q", err, flags.Status)
				}
				draft.Status = status
			}
			if flags.Priority != "" {
				priority, err := domain.ParsePriority(flags.Priority)
				if err != nil {
					return fmt.Errorf("%w: %q", err, flags.Priority)
				}
				draft.Priority = priority
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{Draft: draft})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.Task.ID)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Create tasks from a YAML file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate tasks without creating (requires --file)")

	return cmd
}

// createTasksFromFile creates tasks from a YAML file.
func createTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	out, err := c.CreateTasksFromFileUseCase().Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Content: f,
		DryRun:  dryRun,
	})

	w := cmd.OutOrStdout()
	if out != nil {
		if dryRun {
			_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
			for i, body := range out.Bodies {
				_, _ = fmt.Fprintf(w, "  %d. %s [%s, %s]\n", i+1, body.TaskName, body.Status, body.Priority)
			}
		}
		for _, task := range out.Tasks {
			_, _ = fmt.Fprintf(w, "Created task #%d: %s\n", task.ID, task.TaskName)
		}
	}
	return err
}

// newEditCommand creates the edit command for editing task information.
func newEditCommand(c *app.Container) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task information",
		Long: `Edit an existing task. Only the given flags are sent.

Passing an empty value to --assignee, --start, --end or --description
clears the field on the server.

Examples:
  # Move a task to review
  taskboard edit 7 --status "Code Review"

  # Rename and re-prioritise
  taskboard edit 7 --name "Fix OAuth login" --priority high

  # Clear the assignee
  taskboard edit 7 --assignee ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			var patch domain.TaskPatch
			changed := cmd.Flags().Changed
			if changed("name") {
				patch.TaskName = &flags.Name
			}
			if changed("status") {
				status, err := domain.ParseStatus(flags.Status)
				if err != nil {
					return fmt.Errorf("%w: %q", err, flags.Status)
				}
				patch.Status = &status
			}
			if changed("priority") {
				priority, err := domain.ParsePriority(flags.Priority)
				if err != nil {
					return fmt.Errorf("%w: %q", err, flags.Priority)
				}
				patch.Priority = &priority
			}
			if changed("assignee") {
				patch.AssignedTo = &flags.Assignee
			}
			if changed("start") {
				patch.StartDate = &flags.Start
			}
			if changed("end") {
				patch.EndDate = &flags.End
			}
			if changed("description") {
				patch.Description = &flags.Description
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
				TaskID: taskID,
				Patch:  patch,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d (%s)\n", out.Task.ID, out.Task.Status.Display())
			return nil
		},
	}

	flags.register(cmd, true)

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task on the server.

You are asked to confirm unless --yes is given.

Examples:
  # Delete task by ID
  taskboard rm 1

  # Delete task using # prefix, without a prompt
  taskboard rm "#1" --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			if yes {
				c.Confirm = domain.AlwaysConfirm
			} else {
				c.Confirm = stdinConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}
			if !out.Deleted {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", taskID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}
