package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_LoadingBeforeSize(t *testing.T) {
	m := New(newTestEnv().c)
	assert.Equal(t, "Loading...", m.View())
}

func TestView_Board(t *testing.T) {
	m, _ := loadedModel(t)

	out := m.View()

	assert.Contains(t, out, "Task Board")
	assert.Contains(t, out, "signed in as alice")
	assert.Contains(t, out, "Total 3")
	assert.Contains(t, out, "Active 1")
	assert.Contains(t, out, "Urgent 1")
	assert.Contains(t, out, "Mine 1")
	assert.Contains(t, out, "Next deadline: #7 Fix login (Due in 2d)")
	assert.Contains(t, out, "view: list · priority: All · sort: newest")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "Release 1.0")
}

func TestView_SignedOutHeader(t *testing.T) {
	env := newTestEnv(sampleTasks()...)
	m := New(env.c)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	send(t, m, press(m, keyType(tea.KeyEsc)))

	out := m.View()
	assert.Contains(t, out, "not signed in")
	assert.NotContains(t, out, "Mine")
}

func TestView_EmptyBoard(t *testing.T) {
	env := newTestEnv()
	env.signIn("alice")
	m := New(env.c)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, m.View(), "No tasks yet")
}

func TestView_NoMatches(t *testing.T) {
	m, _ := loadedModel(t)
	m.searchInput.SetValue("nothing matches this")
	m.refreshItems()

	out := m.View()
	assert.Contains(t, out, "No tasks match the current filters.")
	assert.Contains(t, out, "search: nothing matches this")
}

func TestView_ErrorLine(t *testing.T) {
	m, env := loadedModel(t)
	env.tasks.ListErr = errors.New("boom")

	send(t, m, m.loadTasks())

	assert.Contains(t, m.View(), "Error: ")
}

func TestView_Kanban(t *testing.T) {
	m, _ := loadedModel(t)
	press(m, keyRunes("v"))

	out := m.View()

	for _, s := range domain.AllStatuses() {
		assert.Contains(t, out, s.Short())
	}
	assert.Contains(t, out, "DEV (1)")
	assert.Contains(t, out, "INV (0)")
	assert.Contains(t, out, "empty")
	assert.Contains(t, out, "#7 Fix login")
}

func TestView_ConfirmDialog(t *testing.T) {
	m, _ := loadedModel(t)
	press(m, keyRunes("d"))

	out := m.View()
	assert.Contains(t, out, "Delete task #7?")
	assert.Contains(t, out, "y confirm")
}

func TestView_Form(t *testing.T) {
	m, _ := loadedModel(t)

	press(m, keyRunes("n"))
	out := m.View()
	assert.Contains(t, out, "New Task")
	assert.Contains(t, out, "Status")
	assert.Contains(t, out, "Considered")

	press(m, keyType(tea.KeyEsc))
	press(m, keyRunes("e"))
	out = m.View()
	assert.Contains(t, out, "Edit Task #7")
	assert.Contains(t, out, "Under Development")
	assert.Contains(t, out, "Urgent")
}

func TestView_Login(t *testing.T) {
	m := New(newTestEnv().c)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	assert.Contains(t, out, "Sign in")
	assert.Contains(t, out, "Username")
	assert.Contains(t, out, "Password")
	assert.Contains(t, out, "esc continue without signing in")

	press(m, keyType(tea.KeyEnter))
	assert.Contains(t, m.View(), domain.ErrEmptyUsername.Error())
}

func TestView_LoginMasksPassword(t *testing.T) {
	m := New(newTestEnv().c)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	press(m, keyType(tea.KeyTab))
	press(m, keyRunes("hunter2"))

	assert.NotContains(t, m.View(), "hunter2")
}

func TestView_Help(t *testing.T) {
	m, _ := loadedModel(t)
	press(m, keyRunes("?"))

	out := m.View()
	assert.Contains(t, out, "Keys")
	assert.Contains(t, out, "list/kanban")
	assert.Contains(t, out, "priority filter")
}

func TestView_Detail(t *testing.T) {
	m, env := loadedModel(t)
	env.tasks.Tasks[1].Description = strPtr("Cookie path is **wrong**")
	env.detail.Comments[7] = []domain.Comment{
		{ID: 1, Author: "Bob Builder", Text: strings.Repeat("word ", 40)},
	}
	env.detail.Attachments[7] = []domain.Attachment{{ID: 3, Filename: "trace.log"}}

	openDetail(t, m)
	m.detailViewport.Height = 100
	m.updateDetailContent()
	out := m.View()

	assert.Contains(t, out, "Task #7")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "Under Development")
	assert.Contains(t, out, "2025-01-10")
	assert.Contains(t, out, "Due in 2d")
	assert.Contains(t, out, "Cookie path is")
	assert.Contains(t, out, "Attachments (1)")
	assert.Contains(t, out, "trace.log")
	assert.Contains(t, out, "Comments (1)")
	assert.Contains(t, out, "BB")
	assert.Contains(t, out, "Bob Builder")
}

func TestView_DetailLoadingAndWarnings(t *testing.T) {
	m, env := loadedModel(t)
	env.detail.ListAttachmentsErr = errors.New("HTTP 503")

	cmd := press(m, keyType(tea.KeyEnter))
	assert.Contains(t, m.View(), "Loading...")

	send(t, m, cmd)
	out := m.View()
	assert.Contains(t, out, "failed to load attachments")
	assert.Contains(t, out, "No attachments")
}

func TestView_DetailEditors(t *testing.T) {
	m, _ := loadedModel(t)
	openDetail(t, m)

	press(m, keyRunes("c"))
	assert.Contains(t, m.View(), "enter post")

	press(m, keyType(tea.KeyEsc))
	press(m, keyRunes("D"))
	assert.Contains(t, m.View(), "Edit description")

	press(m, keyType(tea.KeyEsc))
	press(m, keyRunes("u"))
	require.Equal(t, ModeUpload, m.mode)
	assert.Contains(t, m.View(), "enter upload")
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("# Title\n\nSome *text*", 60)

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}
