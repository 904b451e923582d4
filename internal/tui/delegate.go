package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/taskboard/internal/domain"
)

type taskItem struct {
	task  *domain.Task
	today domain.Date
}

func (t taskItem) FilterValue() string {
	return t.task.SearchText()
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws two lines per task:
//
//	> #7   ● DEV     Urgent  Fix login
//	                          alice · Due in 2d
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicator := " "
	idStyle, titleStyle := d.styles.TaskID, d.styles.TaskTitle
	if selected {
		indicator = d.styles.CursorSelected.Render(">")
		idStyle, titleStyle = d.styles.TaskIDSelected, d.styles.TaskTitleSelected
	}

	idStr := fmt.Sprintf("#%-4d", task.ID)
	status := fmt.Sprintf("%s %-6s", StatusIcon(task.Status), task.Status.Short())
	priority := fmt.Sprintf("%-7s", task.EffectivePriority())

	const prefixWidth = 27
	listWidth := m.Width()
	name := truncate(escapeNewlines(task.TaskName), listWidth-prefixWidth-2)

	line := indicator + " " +
		idStyle.Render(idStr) + " " +
		d.styles.StatusStyle(task.Status).Render(status) + " " +
		d.styles.PriorityStyle(task.Priority).Render(priority) + " " +
		titleStyle.Render(name)
	_, _ = fmt.Fprintln(w, line)

	meta := make([]string, 0, 2)
	if a := task.Assignee(); a != "" {
		meta = append(meta, d.styles.TaskMeta.Render(a))
	}
	if task.EndDate != nil {
		due := domain.DescribeDue(task.EndDate, ti.today)
		meta = append(meta, d.styles.DueStyle(domain.ToneFor(task.EndDate, ti.today)).Render(due))
	}
	_, _ = fmt.Fprint(w, strings.Repeat(" ", prefixWidth)+strings.Join(meta, d.styles.TaskMeta.Render(" · ")))
}
