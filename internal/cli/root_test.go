package cli

import (
	"testing"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	// Save original function and restore after test
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	// Mock launchTUIFunc to track if it was called
	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	// Create root command with nil container (not used in this test)
	root := NewRootCommand(nil, "test-version")

	// Execute root command without arguments
	root.SetArgs([]string{})
	err := root.Execute()

	assert.NoError(t, err)
	assert.True(t, called, "launchTUIFunc should be called when no arguments are provided")
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(nil, "test-version")
	stdout, _, err := run(root, "", "--help")

	assert.NoError(t, err)
	assert.False(t, called, "launchTUIFunc should NOT be called when --help is provided")
	assert.Contains(t, stdout, "Task Management:")
	assert.Contains(t, stdout, "kanban")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	env := newTestContainer()
	env.c.AppConfig.Warnings = []string{`unknown key "api.retries"`}

	root := NewRootCommand(env.c, "test-version")
	_, stderr, err := run(root, "", "logout")

	require.NoError(t, err)
	assert.Contains(t, stderr, `Warning: unknown key "api.retries"`)
}

func TestNewRootCommand_RestoresSession(t *testing.T) {
	env := newTestContainer()
	env.sessions.Session = &domain.Session{Token: "t", User: domain.User{Username: "alice", Role: "admin"}}

	root := NewRootCommand(env.c, "test-version")
	stdout, _, err := run(root, "", "whoami")

	require.NoError(t, err)
	assert.Equal(t, "alice (admin)\n", stdout)
}

func TestNewRootCommand_ExpiredSession(t *testing.T) {
	env := newTestContainer()
	env.sessions.LoadErr = domain.ErrSessionExpired

	root := NewRootCommand(env.c, "test-version")
	_, stderr, err := run(root, "", "whoami")

	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.Contains(t, stderr, "session expired")
}
