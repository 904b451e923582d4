package cli

import (
	"bytes"
	"strings"
	"time"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/spf13/cobra"
)

// testEnv is an app.Container wired to mocks, with handles on the mocks.
type testEnv struct {
	c        *app.Container
	tasks    *testutil.MockTaskAPI
	detail   *testutil.MockDetailAPI
	auth     *testutil.MockAuthAPI
	sessions *testutil.MockSessionStore
	config   *testutil.MockConfigManager
}

// testToday is the date reported by the test clock.
var testToday = time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(tasks ...*domain.Task) *testEnv {
	env := &testEnv{
		tasks:    testutil.NewMockTaskAPI(tasks...),
		detail:   testutil.NewMockDetailAPI(),
		auth:     testutil.NewMockAuthAPI("alice", "secret"),
		sessions: &testutil.MockSessionStore{},
		config:   &testutil.MockConfigManager{},
	}
	env.c = app.NewWithDeps(app.Config{}, app.Deps{
		Tasks:         env.tasks,
		Detail:        env.detail,
		Auth:          env.auth,
		Sessions:      env.sessions,
		ConfigManager: env.config,
		Clock:         &testutil.MockClock{NowTime: testToday},
	})
	return env
}

// signIn stores a session for username in both the store and the state.
func (e *testEnv) signIn(username string) {
	session := &domain.Session{Token: "token-" + username, User: domain.User{Username: username, Role: "member"}}
	e.sessions.Session = session
	e.c.State.Set(session)
}

// run executes cmd with args and stdin, returning stdout and stderr.
func run(cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// sampleTasks is a small board used across command tests.
func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: 1, TaskName: "Write docs", Status: domain.StatusConsidered, Priority: domain.PriorityLow},
		{ID: 7, TaskName: "Fix login", Status: domain.StatusUnderDevelopment, Priority: domain.PriorityUrgent,
			AssignedTo: strPtr("alice"), EndDate: datePtr("2025-01-10")},
		{ID: 9, TaskName: "Release 1.0", Status: domain.StatusDevelopmentCompleted, AssignedTo: strPtr("bob")},
	}
}
