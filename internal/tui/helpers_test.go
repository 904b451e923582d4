package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	c      *app.Container
	tasks  *testutil.MockTaskAPI
	detail *testutil.MockDetailAPI
	auth   *testutil.MockAuthAPI
	cfg    *domain.Config
}

func newTestEnv(tasks ...*domain.Task) *testEnv {
	lipgloss.SetColorProfile(termenv.Ascii)

	env := &testEnv{
		tasks:  testutil.NewMockTaskAPI(tasks...),
		detail: testutil.NewMockDetailAPI(),
		auth:   testutil.NewMockAuthAPI("alice", "secret"),
		cfg:    domain.NewDefaultConfig(),
	}
	env.c = app.NewWithDeps(app.Config{}, app.Deps{
		Tasks:         env.tasks,
		Detail:        env.detail,
		Auth:          env.auth,
		Sessions:      &testutil.MockSessionStore{},
		ConfigManager: &testutil.MockConfigManager{},
		Clock:         &testutil.MockClock{NowTime: testToday},
		AppConfig:     env.cfg,
	})
	return env
}

func (e *testEnv) signIn(username string) {
	session := &domain.Session{Token: "token-" + username, User: domain.User{Username: username, Role: "member"}}
	e.auth.Users[session.Token] = username
	e.c.State.Set(session)
}

// loadedModel returns a signed-in model with the sample board loaded.
func loadedModel(t *testing.T) (*Model, *testEnv) {
	t.Helper()
	env := newTestEnv(sampleTasks()...)
	env.signIn("alice")
	m := New(env.c)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	send(t, m, m.loadTasks())
	require.Len(t, m.taskList.Items(), 3)
	return m, env
}

// send runs cmd and feeds its message back into the model.
func send(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, next := m.Update(msg)
	return next
}

// runCmd runs cmd and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: 1, TaskName: "Write docs", Status: domain.StatusConsidered, Priority: domain.PriorityLow},
		{ID: 7, TaskName: "Fix login", Status: domain.StatusUnderDevelopment, Priority: domain.PriorityUrgent,
			AssignedTo: strPtr("alice"), EndDate: datePtr("2025-01-10")},
		{ID: 9, TaskName: "Release 1.0", Status: domain.StatusDevelopmentCompleted, AssignedTo: strPtr("bob")},
	}
}
