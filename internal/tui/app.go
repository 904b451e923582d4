package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error
	detail    *domain.TaskDetail
	changes   chan struct{}

	// State
	warnings []string

	// Components (structs with pointers)
	keys           KeyMap
	styles         Styles
	help           help.Model
	taskList       list.Model
	detailViewport viewport.Model

	// Input state (large structs)
	usernameInput textinput.Model
	passwordInput textinput.Model
	searchInput   textinput.Model
	commentInput  textinput.Model
	uploadInput   textinput.Model
	descInput     textarea.Model
	formInputs    [formFieldCount]textinput.Model

	// Choice state
	priorityFilter domain.PriorityFilter
	sortKey        domain.SortKey
	formStatus     domain.Status
	formPriority   domain.Priority

	// Numeric state (smaller types last)
	mode          Mode
	returnMode    Mode
	board         BoardView
	formKind      FormKind
	formField     FormField
	width         int
	height        int
	confirmTaskID int
	detailTaskID  int
	kanbanCol     int
	kanbanRow     int
	loginOnPass   bool
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ui := textinput.New()
	ui.Placeholder = "username"
	ui.CharLimit = 100

	pi := textinput.New()
	pi.Placeholder = "password"
	pi.EchoMode = textinput.EchoPassword
	pi.EchoCharacter = '•'

	si := textinput.New()
	si.Placeholder = "Search name, assignee, status..."
	si.CharLimit = 100

	ci := textinput.New()
	ci.Placeholder = "Write a comment"
	ci.CharLimit = 2000

	up := textinput.New()
	up.Placeholder = "Path to file"
	up.CharLimit = 500

	ta := textarea.New()
	ta.Placeholder = "Markdown description"
	ta.ShowLineNumbers = false
	ta.SetHeight(8)

	var form [formFieldCount]textinput.Model
	for f := FieldName; f < formFieldCount; f++ {
		in := textinput.New()
		in.CharLimit = 200
		switch f {
		case FieldName:
			in.Placeholder = "Task name"
		case FieldAssignee:
			in.Placeholder = "username (optional)"
		case FieldStart, FieldEnd:
			in.Placeholder = domain.DateLayout
			in.CharLimit = len(domain.DateLayout)
		case FieldStatus, FieldPriority:
			// Choice fields are not edited as text.
		}
		form[f] = in
	}

	styles := DefaultStyles()
	delegate := newTaskDelegate(styles)
	taskList := list.New([]list.Item{}, delegate, 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(true)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	m := &Model{
		container:      c,
		keys:           DefaultKeyMap(),
		styles:         styles,
		help:           help.New(),
		taskList:       taskList,
		detailViewport: viewport.New(0, 0),
		usernameInput:  ui,
		passwordInput:  pi,
		searchInput:    si,
		commentInput:   ci,
		uploadInput:    up,
		descInput:      ta,
		formInputs:     form,
		priorityFilter: domain.FilterAll,
		sortKey:        domain.SortNewest,
		mode:           ModeNormal,
	}

	if cfg := c.AppConfig; cfg != nil {
		if cfg.TUI.DefaultSort != "" {
			m.sortKey = cfg.TUI.DefaultSort
		}
		if cfg.TUI.PriorityFilter != "" {
			m.priorityFilter = cfg.TUI.PriorityFilter
		}
		m.board = ParseBoardView(cfg.TUI.DefaultView)
	}

	// Deletion is confirmed in the UI before the use case runs.
	c.Confirm = domain.AlwaysConfirm

	if c.Store != nil {
		m.changes = make(chan struct{}, 1)
		c.Store.Subscribe(func() {
			select {
			case m.changes <- struct{}{}:
			default:
			}
		})
	}

	if !c.State.Current().HasToken() {
		m.mode = ModeLogin
		m.usernameInput.Focus()
	}

	return m
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	if m.mode != ModeLogin {
		cmds = append(cmds, m.loadTasks())
	}
	return tea.Batch(cmds...)
}

// waitForChange returns a command that blocks until the store changes.
func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return MsgStoreChanged{}
	}
}

// today returns the current calendar date from the container clock.
func (m *Model) today() domain.Date {
	return domain.DateOf(m.container.Clock.Now())
}

// viewOptions returns the current filter, search and sort settings.
func (m *Model) viewOptions() domain.ViewOptions {
	return domain.ViewOptions{
		PriorityFilter: m.priorityFilter,
		Query:          strings.TrimSpace(m.searchInput.Value()),
		SortKey:        m.sortKey,
	}
}

// visibleTasks returns the derived view of the store.
func (m *Model) visibleTasks() []*domain.Task {
	return m.container.Store.View(m.viewOptions())
}

// kanbanColumns groups the visible tasks by status.
func (m *Model) kanbanColumns() []domain.KanbanColumn {
	return domain.GroupByStatus(m.visibleTasks())
}

// refreshItems rebuilds the list items and clamps the kanban cursor.
func (m *Model) refreshItems() {
	tasks := m.visibleTasks()
	today := m.today()
	items := make([]list.Item, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskItem{task: task, today: today})
	}
	m.taskList.SetItems(items)

	cols := domain.GroupByStatus(tasks)
	if m.kanbanCol >= len(cols) {
		m.kanbanCol = len(cols) - 1
	}
	if m.kanbanCol < 0 {
		m.kanbanCol = 0
	}
	m.clampKanbanRow(cols)
}

func (m *Model) clampKanbanRow(cols []domain.KanbanColumn) {
	if m.kanbanCol >= len(cols) {
		m.kanbanRow = 0
		return
	}
	n := len(cols[m.kanbanCol].Tasks)
	if m.kanbanRow >= n {
		m.kanbanRow = n - 1
	}
	if m.kanbanRow < 0 {
		m.kanbanRow = 0
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.board == BoardKanban {
		cols := m.kanbanColumns()
		if m.kanbanCol < 0 || m.kanbanCol >= len(cols) {
			return nil
		}
		tasks := cols[m.kanbanCol].Tasks
		if m.kanbanRow < 0 || m.kanbanRow >= len(tasks) {
			return nil
		}
		return tasks[m.kanbanRow]
	}
	if m.taskList.SelectedItem() == nil {
		return nil
	}
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		return ti.task
	}
	return nil
}

// errorText returns the message for the error line.
func (m *Model) errorText() string {
	if msg := m.container.Store.Err(); msg != "" {
		return msg
	}
	if m.err != nil {
		return domain.DisplayMessage(m.err, "Something went wrong")
	}
	return ""
}

// clearError drops the local and store errors.
func (m *Model) clearError() {
	m.err = nil
	m.container.Store.ClearErr()
}

// loadTasks returns a command that fetches the collection into the store.
func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		if err := m.container.Store.Load(context.Background()); err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{}
	}
}

// login returns a command that signs in.
func (m *Model) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.LoginUseCase().Execute(context.Background(), usecase.LoginInput{
			Username: username,
			Password: password,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgLoggedIn{Session: out.Session}
	}
}

// logout returns a command that signs out.
func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.LogoutUseCase().Execute(context.Background(), usecase.LogoutInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgLoggedOut{Username: out.Username}
	}
}

// createTask returns a command that creates a task.
func (m *Model) createTask(draft domain.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{Draft: draft})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskCreated{Task: out.Task}
	}
}

// saveEdit returns a command that saves the open edit session with patch.
func (m *Model) saveEdit(patch domain.TaskPatch) tea.Cmd {
	store := m.container.Store
	return func() tea.Msg {
		if err := store.SetEditDraft(patch); err != nil {
			return MsgError{Err: err}
		}
		task, err := store.SaveEdit(context.Background())
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskUpdated{Task: task}
	}
}

// deleteTask returns a command that deletes a task.
func (m *Model) deleteTask(taskID int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{TaskID: taskID})
		if err != nil {
			return MsgError{Err: err}
		}
		if !out.Deleted {
			return nil
		}
		return MsgTaskDeleted{TaskID: taskID}
	}
}

// loadDetail returns a command that fetches a detail page.
func (m *Model) loadDetail(taskID int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowTaskUseCase().Execute(context.Background(), usecase.ShowTaskInput{TaskID: taskID})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgDetailLoaded{Detail: out.Detail, Warnings: out.Warnings}
	}
}

// saveDescription returns a command that saves a task description.
func (m *Model) saveDescription(taskID int, text string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.SaveDescriptionUseCase().Execute(context.Background(), usecase.SaveDescriptionInput{
			TaskID: taskID,
			Text:   text,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgDescriptionSaved{Task: out.Task}
	}
}

// addComment returns a command that posts a comment.
func (m *Model) addComment(taskID int, text string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.AddCommentUseCase().Execute(context.Background(), usecase.AddCommentInput{
			TaskID: taskID,
			Text:   text,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgCommentAdded{TaskID: taskID, Comments: out.Comments}
	}
}

// uploadAttachment returns a command that uploads a local file.
func (m *Model) uploadAttachment(taskID int, path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.UploadAttachmentUseCase().Execute(context.Background(), usecase.UploadAttachmentInput{
			TaskID: taskID,
			Path:   path,
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgAttachmentUploaded{TaskID: taskID, Attachments: out.Attachments}
	}
}
