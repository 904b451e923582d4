package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
)

// kanbanCardWidth is the display width of a task line in kanban output.
const kanbanCardWidth = 48

// newKanbanCommand creates the kanban command.
func newKanbanCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority string
		Search   string
		Format   string
	}

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Show tasks grouped by status",
		Long: `Show one column per status in workflow order:
Considered, Investigation, Ready To Development, Under Development,
Code Review, Development Completed.

Examples:
  taskboard kanban
  taskboard kanban --priority high --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParsePriorityFilter(opts.Priority)
			if err != nil {
				return fmt.Errorf("%w: %q", err, opts.Priority)
			}

			out, err := c.KanbanUseCase().Execute(cmd.Context(), usecase.KanbanInput{
				Options: domain.ViewOptions{PriorityFilter: filter, Query: opts.Search},
			})
			if err != nil {
				return err
			}

			return writeFormatted(cmd.OutOrStdout(), opts.Format, kanbanView(out.Columns), func(w io.Writer) {
				printKanban(w, out.Columns)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "All", "Filter by priority (All, Low, Medium, High, Urgent)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Case-insensitive search over name, assignee and status")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", formatTable, "Output format (table, json, yaml)")

	return cmd
}

// kanbanColumnView is the serialized form of a kanban column.
type kanbanColumnView struct {
	Status domain.Status  `json:"status" yaml:"status"`
	Tasks  []*domain.Task `json:"tasks" yaml:"tasks"`
}

func kanbanView(cols []domain.KanbanColumn) []kanbanColumnView {
	out := make([]kanbanColumnView, len(cols))
	for i, col := range cols {
		out[i] = kanbanColumnView{Status: col.Status, Tasks: col.Tasks}
	}
	return out
}

// printKanban prints each status as a section with its cards.
func printKanban(w io.Writer, cols []domain.KanbanColumn) {
	for i, col := range cols {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (%d)\n", col.Status, len(col.Tasks))
		if len(col.Tasks) == 0 {
			_, _ = fmt.Fprintln(w, "  -")
			continue
		}
		for _, t := range col.Tasks {
			line := fmt.Sprintf("#%d %s", t.ID, t.TaskName)
			line = runewidth.Truncate(line, kanbanCardWidth, "…")
			meta := string(t.EffectivePriority())
			if a := t.Assignee(); a != "" {
				meta += ", " + a
			}
			_, _ = fmt.Fprintf(w, "  %s [%s]\n", line, meta)
		}
	}
}

// newSummaryCommand creates the summary command.
func newSummaryCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show task statistics and upcoming deadlines",
		Long: `Show totals (all, active, completed, urgent), the tasks assigned
to the signed-in user, and the next deadlines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SummaryUseCase().Execute(cmd.Context(), usecase.SummaryInput{})
			if err != nil {
				return err
			}

			view := summaryView{
				Viewer:    out.Viewer,
				Total:     out.Aggregates.Total,
				Active:    out.Aggregates.Active,
				Completed: out.Aggregates.Completed,
				Urgent:    out.Aggregates.Urgent,
				Mine:      out.Aggregates.Mine,
				Upcoming:  out.Aggregates.Upcoming,
			}
			return writeFormatted(cmd.OutOrStdout(), format, view, func(w io.Writer) {
				printSummary(w, view, domain.DateOf(c.Clock.Now()))
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table, json, yaml)")

	return cmd
}

// summaryView is the serialized form of the aggregates.
type summaryView struct {
	Viewer    string         `json:"viewer,omitempty" yaml:"viewer,omitempty"`
	Mine      []*domain.Task `json:"mine" yaml:"mine"`
	Upcoming  []*domain.Task `json:"upcoming" yaml:"upcoming"`
	Total     int            `json:"total" yaml:"total"`
	Active    int            `json:"active" yaml:"active"`
	Completed int            `json:"completed" yaml:"completed"`
	Urgent    int            `json:"urgent" yaml:"urgent"`
}

func printSummary(w io.Writer, s summaryView, today domain.Date) {
	_, _ = fmt.Fprintf(w, "Total: %d   Active: %d   Completed: %d   Urgent: %d\n", s.Total, s.Active, s.Completed, s.Urgent)

	if s.Viewer != "" {
		_, _ = fmt.Fprintf(w, "\nAssigned to %s (%d):\n", s.Viewer, len(s.Mine))
		for _, t := range s.Mine {
			_, _ = fmt.Fprintf(w, "  #%d %s [%s]\n", t.ID, t.TaskName, t.Status.Display())
		}
	}

	_, _ = fmt.Fprintln(w, "\nUpcoming deadlines:")
	if len(s.Upcoming) == 0 {
		_, _ = fmt.Fprintln(w, "  none")
		return
	}
	for _, t := range s.Upcoming {
		_, _ = fmt.Fprintf(w, "  %s  #%d %s (%s)\n", t.EndDate, t.ID, t.TaskName,
			strings.ToLower(domain.DescribeDue(t.EndDate, today)))
	}
}
