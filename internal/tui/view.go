package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"github.com/runoshun/taskboard/internal/domain"
)

const (
	headerHeight    = 5
	footerHeight    = 2
	minColumnWidth  = 18
	detailChrome    = 8
	timestampLayout = "2006-01-02 15:04"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeLogin:
		content = m.viewLogin()
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail, ModeComment, ModeDescription, ModeUpload:
		content = m.viewDetail()
	case ModeNormal, ModeSearch, ModeConfirm, ModeForm:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// updateLayoutSizes resizes the list, viewport and editors to the window.
func (m *Model) updateLayoutSizes() {
	contentWidth := max(m.width-4, 20)
	listHeight := max(m.height-headerHeight-footerHeight-4, 4)
	m.taskList.SetSize(contentWidth, listHeight)

	m.detailViewport.Width = contentWidth
	m.detailViewport.Height = max(m.height-detailChrome, 4)
	m.descInput.SetWidth(contentWidth - 4)
	m.commentInput.Width = contentWidth - 16
	m.uploadInput.Width = contentWidth - 16
	m.searchInput.Width = contentWidth - 12

	m.updateDetailContent()
}

// viewMain renders the board with its header, filters and overlays.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if msg := m.errorText(); msg != "" {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+msg) + "\n\n")
	}

	if m.mode == ModeSearch {
		b.WriteString(m.styles.InputPrompt.Render("Search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}
	b.WriteString(m.viewFilterLine())
	b.WriteString("\n\n")

	if len(m.container.Store.Tasks()) == 0 {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("No tasks yet. Press n to create one."))
		b.WriteString("\n")
	} else if m.board == BoardKanban {
		b.WriteString(m.viewKanban())
	} else if len(m.taskList.Items()) == 0 {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("No tasks match the current filters."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.taskList.View())
	}

	switch m.mode {
	case ModeNormal, ModeSearch:
		// No overlay for these modes
	case ModeConfirm:
		b.WriteString("\n")
		b.WriteString(m.viewConfirmDialog())
	case ModeForm:
		b.WriteString("\n")
		b.WriteString(m.viewForm())
	case ModeLogin, ModeDetail, ModeComment, ModeDescription, ModeUpload, ModeHelp:
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the title, the signed-in user and the aggregates.
func (m *Model) viewHeader() string {
	user := m.container.State.Username()
	who := "not signed in"
	if user != "" {
		who = "signed in as " + user
	}
	title := m.styles.HeaderText.Render("Task Board") + "  " + m.styles.Stat.Render(who)

	agg := m.container.Store.Aggregates(user)
	stat := func(label string, n int) string {
		return m.styles.Stat.Render(label+" ") + m.styles.StatValue.Render(fmt.Sprint(n))
	}
	stats := []string{
		stat("Total", agg.Total),
		stat("Active", agg.Active),
		stat("Completed", agg.Completed),
		stat("Urgent", agg.Urgent),
	}
	if user != "" {
		stats = append(stats, stat("Mine", len(agg.Mine)))
	}

	lines := []string{title, strings.Join(stats, "   ")}
	if len(agg.Upcoming) > 0 {
		next := agg.Upcoming[0]
		today := m.today()
		due := domain.DescribeDue(next.EndDate, today)
		lines = append(lines, m.styles.Stat.Render("Next deadline: ")+
			fmt.Sprintf("#%d %s ", next.ID, truncate(escapeNewlines(next.TaskName), 40))+
			m.styles.DueStyle(domain.ToneFor(next.EndDate, today)).Render("("+due+")"))
	}

	return m.styles.Header.Render(strings.Join(lines, "\n"))
}

// viewFilterLine shows the active view settings.
func (m *Model) viewFilterLine() string {
	parts := []string{
		"view: " + m.board.String(),
		"priority: " + string(m.priorityFilter),
		"sort: " + string(m.sortKey),
	}
	if q := strings.TrimSpace(m.searchInput.Value()); q != "" && m.mode != ModeSearch {
		parts = append(parts, "search: "+q)
	}
	return m.styles.Footer.Render(strings.Join(parts, " · "))
}

// viewKanban renders one column per status side by side.
func (m *Model) viewKanban() string {
	cols := m.kanbanColumns()
	colWidth := max((m.width-4)/len(cols)-4, minColumnWidth)

	rendered := make([]string, len(cols))
	for i, col := range cols {
		var b strings.Builder
		title := fmt.Sprintf("%s %s (%d)", StatusIcon(col.Status), col.Status.Short(), len(col.Tasks))
		b.WriteString(m.styles.StatusStyle(col.Status).Inherit(m.styles.ColumnTitle).Render(title))
		b.WriteString("\n")

		if len(col.Tasks) == 0 {
			b.WriteString(m.styles.ColumnEmptyMsg.Render("empty"))
		}
		for j, task := range col.Tasks {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.viewCard(task, colWidth, i == m.kanbanCol && j == m.kanbanRow))
		}

		style := m.styles.Column
		if i == m.kanbanCol {
			style = m.styles.ColumnFocused
		}
		rendered[i] = style.Width(colWidth).Render(b.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// viewCard renders a task as a kanban card.
func (m *Model) viewCard(task *domain.Task, width int, selected bool) string {
	style := m.styles.Card
	prefix := "  "
	if selected {
		style = m.styles.CardSelected
		prefix = m.styles.CursorSelected.Render("> ")
	}
	name := truncate(escapeNewlines(fmt.Sprintf("#%d %s", task.ID, task.TaskName)), width-4)
	lines := []string{prefix + style.Render(name)}

	meta := []string{m.styles.PriorityStyle(task.Priority).Render(string(task.EffectivePriority()))}
	if a := task.Assignee(); a != "" {
		meta = append(meta, m.styles.TaskMeta.Render(truncate(a, width/2)))
	}
	lines = append(lines, "  "+strings.Join(meta, " "))

	if task.EndDate != nil {
		today := m.today()
		lines = append(lines, "  "+m.styles.DueStyle(domain.ToneFor(task.EndDate, today)).
			Render(domain.DescribeDue(task.EndDate, today)))
	}
	return strings.Join(lines, "\n")
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.DialogPrompt.Render(fmt.Sprintf("Delete task #%d?", m.confirmTaskID)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("y confirm · n cancel"))
	return m.styles.Dialog.Render(b.String())
}

// viewForm renders the new/edit task form.
func (m *Model) viewForm() string {
	var b strings.Builder
	title := "New Task"
	if m.formKind == FormEdit {
		if id, ok := m.container.Store.Editing(); ok {
			title = fmt.Sprintf("Edit Task #%d", id)
		} else {
			title = "Edit Task"
		}
	}
	b.WriteString(m.styles.DialogTitle.Render(title))
	b.WriteString("\n\n")

	for f := FieldName; f < formFieldCount; f++ {
		label := m.styles.InputPrompt.Render(f.Label())
		if f == m.formField {
			label = m.styles.InputFocused.Render(f.Label())
		}
		var value string
		switch f {
		case FieldStatus:
			value = m.viewChoice(string(m.formStatus), f == m.formField)
		case FieldPriority:
			value = m.viewChoice(string(m.formPriority), f == m.formField)
		case FieldName, FieldAssignee, FieldStart, FieldEnd, formFieldCount:
			value = m.formInputs[f].View()
		}
		b.WriteString(label + " " + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("tab next field · ←/→ change choice · enter save · esc cancel"))
	return m.styles.Dialog.Render(b.String())
}

func (m *Model) viewChoice(value string, focused bool) string {
	if focused {
		return m.styles.CursorSelected.Render("‹ " + value + " ›")
	}
	return "  " + value
}

// viewLogin renders the sign-in form.
func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Sign in"))
	b.WriteString("\n\n")

	userLabel, passLabel := m.styles.InputFocused, m.styles.InputPrompt
	if m.loginOnPass {
		userLabel, passLabel = m.styles.InputPrompt, m.styles.InputFocused
	}
	b.WriteString(userLabel.Render("Username") + " " + m.usernameInput.View() + "\n")
	b.WriteString(passLabel.Render("Password") + " " + m.passwordInput.View() + "\n")

	if msg := m.errorText(); msg != "" {
		b.WriteString("\n" + m.styles.ErrorMsg.Render(msg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter sign in · tab switch field · esc continue without signing in"))
	return m.styles.Dialog.Render(b.String())
}

// viewHelp renders the full key reference.
func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("esc / ? close"))
	return m.styles.Dialog.Render(b.String())
}

// viewFooter renders the short help line.
func (m *Model) viewFooter() string {
	return m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// viewDetail renders the detail page with its active editor.
func (m *Model) viewDetail() string {
	var b strings.Builder

	title := fmt.Sprintf("Task #%d", m.detailTaskID)
	b.WriteString(m.styles.DetailTitle.Render(title))
	b.WriteString("\n")

	if msg := m.errorText(); msg != "" {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+msg) + "\n")
	}
	for _, w := range m.warnings {
		b.WriteString(m.styles.WarningMsg.Render("! "+w) + "\n")
	}
	b.WriteString("\n")

	if m.detail == nil {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.detailViewport.View())
		b.WriteString("\n")
	}

	switch m.mode {
	case ModeComment:
		b.WriteString("\n" + m.styles.InputFocused.Render("Comment") + " " + m.commentInput.View() + "\n")
		b.WriteString(m.styles.Footer.Render("enter post · esc cancel"))
	case ModeUpload:
		b.WriteString("\n" + m.styles.InputFocused.Render("Upload") + " " + m.uploadInput.View() + "\n")
		b.WriteString(m.styles.Footer.Render("enter upload · esc cancel"))
	case ModeDescription:
		b.WriteString("\n" + m.styles.DetailSection.Render("Edit description") + "\n")
		b.WriteString(m.descInput.View() + "\n")
		b.WriteString(m.styles.Footer.Render("ctrl+s save · esc cancel"))
	case ModeLogin, ModeNormal, ModeSearch, ModeConfirm, ModeForm, ModeDetail, ModeHelp:
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render(m.help.ShortHelpView(m.keys.DetailHelp())))
	}

	return b.String()
}

// updateDetailContent re-renders the detail page into the viewport.
func (m *Model) updateDetailContent() {
	if m.detail == nil || m.detail.Task == nil {
		return
	}
	m.detailViewport.SetContent(m.detailContent(max(m.detailViewport.Width, 40)))
}

// detailContent renders fields, description, attachments and comments.
func (m *Model) detailContent(width int) string {
	task := m.detail.Task
	today := m.today()
	var b strings.Builder

	b.WriteString(m.styles.HeaderText.Render(escapeNewlines(task.TaskName)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(m.styles.DetailLabel.Render(label) + " " + m.styles.DetailValue.Render(value) + "\n")
	}
	field("Status", StatusIcon(task.Status)+" "+task.Status.Display())
	field("Priority", m.styles.PriorityStyle(task.Priority).Render(string(task.EffectivePriority())))
	field("Assignee", orDash(task.Assignee()))
	field("Start", dateOrDash(task.StartDate))
	due := dateOrDash(task.EndDate)
	if task.EndDate != nil {
		due += " " + m.styles.DueStyle(domain.ToneFor(task.EndDate, today)).
			Render("("+domain.DescribeDue(task.EndDate, today)+")")
	}
	field("Due", due)
	if task.CreatedAt != nil {
		field("Created", task.CreatedAt.Format(timestampLayout))
	}

	b.WriteString(m.styles.DetailSection.Render("Description"))
	b.WriteString("\n")
	if desc := strings.TrimSpace(task.DescriptionText()); desc == "" {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("No description. Press D to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderMarkdown(desc, width))
	}

	b.WriteString(m.styles.DetailSection.Render(fmt.Sprintf("Attachments (%d)", len(m.detail.Attachments))))
	b.WriteString("\n")
	if len(m.detail.Attachments) == 0 {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("No attachments"))
		b.WriteString("\n")
	}
	for _, a := range m.detail.Attachments {
		line := fmt.Sprintf("  %d  %s", a.ID, a.Filename)
		if a.UploadedAt != nil {
			line += m.styles.TaskMeta.Render("  " + a.UploadedAt.Format(timestampLayout))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(m.styles.DetailSection.Render(fmt.Sprintf("Comments (%d)", len(m.detail.Comments))))
	b.WriteString("\n")
	if len(m.detail.Comments) == 0 {
		b.WriteString(m.styles.ColumnEmptyMsg.Render("No comments yet. Press c to add one."))
		b.WriteString("\n")
	}
	for _, c := range m.detail.Comments {
		head := m.styles.CommentAvatar.Render(c.Initials()) + " " + m.styles.CommentAuthor.Render(c.Author)
		if c.CreatedAt != nil {
			head += m.styles.TaskMeta.Render("  " + c.CreatedAt.Format(timestampLayout))
		}
		b.WriteString(head + "\n")
		body := wordwrap.String(strings.TrimSpace(c.Text), max(width-6, 20))
		b.WriteString(indent.String(body, 5) + "\n\n")
	}

	return b.String()
}

// renderMarkdown renders a description with glamour, falling back to plain wrapped text.
func renderMarkdown(text string, width int) string {
	style := "dark"
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wordwrap.String(text, width) + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return wordwrap.String(text, width) + "\n"
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dateOrDash(d *domain.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
