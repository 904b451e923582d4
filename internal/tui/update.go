package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskboard/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgTasksLoaded:
		m.refreshItems()
		return m, nil

	case MsgStoreChanged:
		m.refreshItems()
		return m, m.waitForChange()

	case MsgLoggedIn:
		m.mode = ModeNormal
		m.usernameInput.Reset()
		m.passwordInput.Reset()
		m.usernameInput.Blur()
		m.passwordInput.Blur()
		m.loginOnPass = false
		return m, m.loadTasks()

	case MsgLoggedOut:
		m.enterLogin()
		m.refreshItems()
		return m, nil

	case MsgTaskCreated, MsgTaskUpdated:
		m.mode = ModeNormal
		m.resetForm()
		m.refreshItems()
		return m, nil

	case MsgTaskDeleted:
		m.mode = ModeNormal
		m.confirmTaskID = 0
		if m.detailTaskID == msg.TaskID {
			m.closeDetail()
		}
		m.refreshItems()
		return m, nil

	case MsgDetailLoaded:
		if !m.inDetail() || msg.Detail.Task == nil || msg.Detail.Task.ID != m.detailTaskID {
			return m, nil
		}
		detail := msg.Detail
		m.detail = &detail
		m.warnings = msg.Warnings
		m.updateDetailContent()
		return m, nil

	case MsgDescriptionSaved:
		if m.detail != nil && msg.Task != nil && msg.Task.ID == m.detailTaskID {
			m.detail.Task = msg.Task
		}
		m.descInput.Blur()
		m.mode = ModeDetail
		m.updateDetailContent()
		return m, nil

	case MsgCommentAdded:
		if m.detail != nil && msg.TaskID == m.detailTaskID {
			m.detail.Comments = msg.Comments
		}
		m.commentInput.Reset()
		m.commentInput.Blur()
		m.mode = ModeDetail
		m.updateDetailContent()
		m.detailViewport.GotoBottom()
		return m, nil

	case MsgAttachmentUploaded:
		if m.detail != nil && msg.TaskID == m.detailTaskID {
			m.detail.Attachments = msg.Attachments
		}
		m.uploadInput.Reset()
		m.uploadInput.Blur()
		m.mode = ModeDetail
		m.updateDetailContent()
		return m, nil

	case MsgError:
		m.err = msg.Err
		switch m.mode {
		case ModeConfirm:
			m.mode = ModeNormal
			m.confirmTaskID = 0
		case ModeLogin:
			m.passwordInput.Reset()
		case ModeNormal, ModeSearch, ModeForm, ModeDetail, ModeComment, ModeDescription, ModeUpload, ModeHelp:
			// Input modes keep their state so the user can correct and retry.
		}
		return m, nil

	case MsgClearError:
		m.clearError()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear error on any key press
	m.clearError()

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeLogin:
		return m.handleLoginMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeForm:
		return m.handleFormMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeComment:
		return m.handleCommentMode(msg)
	case ModeDescription:
		return m.handleDescriptionMode(msg)
	case ModeUpload:
		return m.handleUploadMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

func (m *Model) handleLoginMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		// Continue without signing in.
		m.usernameInput.Blur()
		m.passwordInput.Blur()
		m.mode = ModeNormal
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.focusLoginField(!m.loginOnPass)
		return m, nil

	case msg.Type == tea.KeyEnter:
		if !m.loginOnPass {
			if strings.TrimSpace(m.usernameInput.Value()) == "" {
				m.err = domain.ErrEmptyUsername
				return m, nil
			}
			m.focusLoginField(true)
			return m, nil
		}
		return m, m.login(m.usernameInput.Value(), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	if m.loginOnPass {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusLoginField(password bool) {
	m.loginOnPass = password
	if password {
		m.usernameInput.Blur()
		m.passwordInput.Focus()
		return
	}
	m.passwordInput.Blur()
	m.usernameInput.Focus()
}

func (m *Model) enterLogin() {
	m.mode = ModeLogin
	m.detail = nil
	m.detailTaskID = 0
	m.passwordInput.Reset()
	m.focusLoginField(false)
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.returnMode = m.mode
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if m.board == BoardKanban {
			if key.Matches(msg, m.keys.Up) {
				m.kanbanRow--
			} else {
				m.kanbanRow++
			}
			m.clampKanbanRow(m.kanbanColumns())
			return m, nil
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if m.board != BoardKanban {
			return m, nil
		}
		cols := m.kanbanColumns()
		if key.Matches(msg, m.keys.Left) && m.kanbanCol > 0 {
			m.kanbanCol--
		}
		if key.Matches(msg, m.keys.Right) && m.kanbanCol < len(cols)-1 {
			m.kanbanCol++
		}
		m.clampKanbanRow(cols)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.openDetail(task.ID)

	case key.Matches(msg, m.keys.New):
		m.openForm(FormNew, nil)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		m.openForm(FormEdit, task)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		m.confirmTaskID = task.ID
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Priority):
		m.priorityFilter = m.priorityFilter.Next()
		m.refreshItems()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortKey = m.sortKey.Next()
		m.refreshItems()
		return m, nil

	case key.Matches(msg, m.keys.Kanban):
		if m.board == BoardKanban {
			m.board = BoardList
		} else {
			m.board = BoardKanban
		}
		m.refreshItems()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Logout):
		return m, m.logout()

	case key.Matches(msg, m.keys.Escape):
		if m.searchInput.Value() != "" {
			m.searchInput.Reset()
			m.refreshItems()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.mode = ModeNormal
		m.refreshItems()
		return m, nil
	case tea.KeyEnter:
		m.searchInput.Blur()
		m.mode = ModeNormal
		return m, nil
	default:
		// Filter live as the user types.
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshItems()
	return m, cmd
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
		m.confirmTaskID = 0
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		taskID := m.confirmTaskID
		m.mode = ModeNormal
		m.confirmTaskID = 0
		return m, m.deleteTask(taskID)
	}

	return m, nil
}

// openForm shows the task form. Editing opens an edit session in the store.
func (m *Model) openForm(kind FormKind, task *domain.Task) {
	m.resetForm()
	m.formKind = kind
	m.formStatus = domain.DefaultStatus
	m.formPriority = domain.PriorityMedium

	if kind == FormEdit && task != nil {
		m.container.Store.StartEdit(task)
		patch := domain.PatchFromTask(task)
		m.formInputs[FieldName].SetValue(derefString(patch.TaskName))
		m.formInputs[FieldAssignee].SetValue(derefString(patch.AssignedTo))
		m.formInputs[FieldStart].SetValue(derefString(patch.StartDate))
		m.formInputs[FieldEnd].SetValue(derefString(patch.EndDate))
		if patch.Status != nil {
			m.formStatus = *patch.Status
		}
		if patch.Priority != nil {
			m.formPriority = *patch.Priority
		}
	}

	m.mode = ModeForm
	m.focusFormField(FieldName)
}

func (m *Model) resetForm() {
	for i := range m.formInputs {
		m.formInputs[i].Reset()
		m.formInputs[i].Blur()
	}
	m.formField = FieldName
}

func (m *Model) focusFormField(f FormField) {
	m.formInputs[m.formField].Blur()
	m.formField = f
	if !f.IsChoice() {
		m.formInputs[f].Focus()
	}
}

func (m *Model) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.formKind == FormEdit {
			m.container.Store.CancelEdit()
		}
		m.resetForm()
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.focusFormField(m.formField.Next())
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.focusFormField(m.formField.Prev())
		return m, nil

	case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Save):
		return m, m.submitForm()
	}

	if m.formField.IsChoice() {
		step := 0
		switch {
		case key.Matches(msg, m.keys.Left):
			step = -1
		case key.Matches(msg, m.keys.Right), msg.Type == tea.KeySpace:
			step = 1
		}
		if step != 0 {
			m.cycleChoice(step)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formField], cmd = m.formInputs[m.formField].Update(msg)
	return m, cmd
}

// cycleChoice moves the status or priority choice by step.
func (m *Model) cycleChoice(step int) {
	switch m.formField {
	case FieldStatus:
		m.formStatus = cycle(domain.AllStatuses(), m.formStatus, step)
	case FieldPriority:
		m.formPriority = cycle(domain.AllPriorities(), m.formPriority, step)
	case FieldName, FieldAssignee, FieldStart, FieldEnd, formFieldCount:
	}
}

func cycle[T comparable](values []T, current T, step int) T {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	n := len(values)
	return values[((idx+step)%n+n)%n]
}

// submitForm creates or updates the task from the form values.
func (m *Model) submitForm() tea.Cmd {
	name := m.formInputs[FieldName].Value()
	assignee := strings.TrimSpace(m.formInputs[FieldAssignee].Value())
	start := strings.TrimSpace(m.formInputs[FieldStart].Value())
	end := strings.TrimSpace(m.formInputs[FieldEnd].Value())

	if m.formKind == FormNew {
		return m.createTask(domain.TaskDraft{
			TaskName:   name,
			Status:     m.formStatus,
			Priority:   m.formPriority,
			AssignedTo: assignee,
			StartDate:  start,
			EndDate:    end,
		})
	}

	status, priority := m.formStatus, m.formPriority
	return m.saveEdit(domain.TaskPatch{
		TaskName:   &name,
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &assignee,
		StartDate:  &start,
		EndDate:    &end,
	})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m *Model) inDetail() bool {
	switch m.mode {
	case ModeDetail, ModeComment, ModeDescription, ModeUpload:
		return true
	case ModeHelp:
		return m.returnMode == ModeDetail
	case ModeLogin, ModeNormal, ModeSearch, ModeConfirm, ModeForm:
		return false
	}
	return false
}

func (m *Model) openDetail(taskID int) tea.Cmd {
	m.mode = ModeDetail
	m.detailTaskID = taskID
	m.detail = nil
	m.warnings = nil
	m.detailViewport.SetContent("")
	m.detailViewport.GotoTop()
	return m.loadDetail(taskID)
}

func (m *Model) closeDetail() {
	m.mode = ModeNormal
	m.detail = nil
	m.detailTaskID = 0
	m.warnings = nil
}

func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.returnMode = m.mode
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadDetail(m.detailTaskID)
	}

	if m.detail == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Comment):
		m.mode = ModeComment
		m.commentInput.Reset()
		m.commentInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Description):
		m.mode = ModeDescription
		m.descInput.SetValue(m.detail.Task.DescriptionText())
		m.descInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Upload):
		m.mode = ModeUpload
		m.uploadInput.Reset()
		m.uploadInput.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleCommentMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commentInput.Blur()
		m.mode = ModeDetail
		return m, nil
	case tea.KeyEnter:
		return m, m.addComment(m.detailTaskID, m.commentInput.Value())
	default:
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDescriptionMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.descInput.Blur()
		m.mode = ModeDetail
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveDescription(m.detailTaskID, m.descInput.Value())
	}

	var cmd tea.Cmd
	m.descInput, cmd = m.descInput.Update(msg)
	return m, cmd
}

func (m *Model) handleUploadMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.uploadInput.Blur()
		m.mode = ModeDetail
		return m, nil
	case tea.KeyEnter:
		return m, m.uploadAttachment(m.detailTaskID, strings.TrimSpace(m.uploadInput.Value()))
	default:
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
		m.mode = m.returnMode
	}
	return m, nil
}
