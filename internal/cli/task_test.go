package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand_Table(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newListCommand(env.c), "", "--sort", "priority")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "ASSIGNEE")
	assert.Contains(t, lines[1], "Fix login")
	assert.Contains(t, lines[1], "2025-01-10 (Due in 2d)")
	assert.Contains(t, lines[1], "alice")
}

func TestListCommand_PriorityAndSearch(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newListCommand(env.c), "", "-p", "urgent")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fix login")
	assert.NotContains(t, stdout, "Write docs")

	stdout, _, err = run(newListCommand(env.c), "", "-s", "BOB")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Release 1.0")
	assert.NotContains(t, stdout, "Fix login")
}

func TestListCommand_JSON(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newListCommand(env.c), "", "--format", "json", "--sort", "oldest")

	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "task_name")
	assert.Contains(t, got[0], "assigned_to")
}

func TestListCommand_YAML(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newListCommand(env.c), "", "-o", "yaml")

	require.NoError(t, err)
	assert.Contains(t, stdout, "task_name: Fix login")
	assert.Contains(t, stdout, "end_date: \"2025-01-10\"")
}

func TestListCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"priority", []string{"-p", "critical"}, domain.ErrInvalidPriority},
		{"sort", []string{"--sort", "alpha"}, domain.ErrInvalidSortKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(sampleTasks()...)
			_, _, err := run(newListCommand(env.c), "", tt.args...)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, env.tasks.TotalCalls())
		})
	}
}

func TestListCommand_UnknownFormat(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newListCommand(env.c), "", "-o", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestListCommand_Mine(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newListCommand(env.c), "", "--mine")
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)

	env.signIn("alice")
	stdout, _, err := run(newListCommand(env.c), "", "--mine")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Fix login")
	assert.NotContains(t, stdout, "Release 1.0")
}

func TestListCommand_LoadError(t *testing.T) {
	env := newTestContainer()
	env.tasks.ListErr = errors.New("connection refused")

	_, _, err := run(newListCommand(env.c), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestShowCommand(t *testing.T) {
	tasks := sampleTasks()
	tasks[1].Description = strPtr("Users **cannot** sign in with SSO.")
	env := newTestContainer(tasks...)
	env.detail.Attachments[7] = []domain.Attachment{{ID: 3, Filename: "trace.log"}}
	env.detail.Comments[7] = []domain.Comment{{ID: 1, Author: "Bob Stone", Text: "Seen on staging"}}

	stdout, stderr, err := run(newShowCommand(env.c), "", "#7")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "# Task 7: Fix login")
	assert.Contains(t, stdout, "Status:   Under Development")
	assert.Contains(t, stdout, "Assignee: alice")
	assert.Contains(t, stdout, "Due:      Due in 2d")
	assert.Contains(t, stdout, "sign in with SSO")
	assert.Contains(t, stdout, "Attachments (1):")
	assert.Contains(t, stdout, "[3] trace.log")
	assert.Contains(t, stdout, "Comments (1):")
	assert.Contains(t, stdout, "(BS) Bob Stone")
	assert.Contains(t, stdout, "Seen on staging")
}

func TestShowCommand_Raw(t *testing.T) {
	tasks := sampleTasks()
	tasks[0].Description = strPtr("Use **bold** here")
	env := newTestContainer(tasks...)

	stdout, _, err := run(newShowCommand(env.c), "", "1", "--raw")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Use **bold** here")
	assert.Contains(t, stdout, "Assignee: none")
	assert.Contains(t, stdout, "Due:      No due date")
}

func TestShowCommand_PartialFailure(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.detail.ListCommentsErr = errors.New("comments unavailable")

	stdout, stderr, err := run(newShowCommand(env.c), "", "7")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning:")
	assert.Contains(t, stdout, "Comments (0):")
}

func TestShowCommand_JSON(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newShowCommand(env.c), "", "7", "-o", "json")

	require.NoError(t, err)
	var got detailView
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.NotNil(t, got.Task)
	assert.Equal(t, "Fix login", got.Task.TaskName)
}

func TestShowCommand_NotFound(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newShowCommand(env.c), "", "42")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{"#7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTaskID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newNewCommand(env.c), "",
		"--name", "Add dark mode", "--status", "code-review", "--priority", "high",
		"--assignee", "carol", "--end", "2025-02-01")

	require.NoError(t, err)
	assert.Equal(t, "Created task #10\n", stdout)
	require.NotNil(t, env.tasks.LastCreate)
	assert.Equal(t, "Add dark mode", env.tasks.LastCreate.TaskName)
	assert.Equal(t, domain.StatusCodeReview, env.tasks.LastCreate.Status)
	assert.Equal(t, domain.PriorityHigh, env.tasks.LastCreate.Priority)
	require.NotNil(t, env.tasks.LastCreate.AssignedTo)
	assert.Equal(t, "carol", *env.tasks.LastCreate.AssignedTo)
	assert.Nil(t, env.tasks.LastCreate.StartDate)
}

func TestNewCommand_Defaults(t *testing.T) {
	env := newTestContainer()

	_, _, err := run(newNewCommand(env.c), "", "-n", "Plain task")

	require.NoError(t, err)
	require.NotNil(t, env.tasks.LastCreate)
	assert.Equal(t, domain.StatusConsidered, env.tasks.LastCreate.Status)
	assert.Equal(t, domain.PriorityMedium, env.tasks.LastCreate.Priority)
}

func TestNewCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"empty name", []string{"--name", "  "}, domain.ErrEmptyTitle},
		{"bad status", []string{"-n", "x", "--status", "finished"}, domain.ErrInvalidStatus},
		{"bad priority", []string{"-n", "x", "--priority", "p0"}, domain.ErrInvalidPriority},
		{"bad date", []string{"-n", "x", "--end", "01/02/2025"}, domain.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer()
			_, _, err := run(newNewCommand(env.c), "", tt.args...)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, env.tasks.CallCount("CreateTask"))
		})
	}
}

func TestNewCommand_DryRunRequiresFile(t *testing.T) {
	env := newTestContainer()

	_, _, err := run(newNewCommand(env.c), "", "-n", "x", "--dry-run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dry-run requires --file")
}

func writeTaskFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	content := `task_name: Write docs
priority: High
---
task_name: Review PR
status: Code Review
assigned_to: bob
end_date: 2025-02-01
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewCommand_FromFile(t *testing.T) {
	env := newTestContainer()
	path := writeTaskFile(t)

	stdout, _, err := run(newNewCommand(env.c), "", "--file", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Created task #1: Write docs")
	assert.Contains(t, stdout, "Created task #2: Review PR")
	assert.Equal(t, 2, env.tasks.CallCount("CreateTask"))
}

func TestNewCommand_FromFileDryRun(t *testing.T) {
	env := newTestContainer()
	path := writeTaskFile(t)

	stdout, _, err := run(newNewCommand(env.c), "", "-f", path, "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run - tasks that would be created:")
	assert.Contains(t, stdout, "1. Write docs [Considered, High]")
	assert.Contains(t, stdout, "2. Review PR [Code Review, Medium]")
	assert.Equal(t, 0, env.tasks.CallCount("CreateTask"))
}

func TestNewCommand_FromMissingFile(t *testing.T) {
	env := newTestContainer()

	_, _, err := run(newNewCommand(env.c), "", "-f", filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

func TestEditCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newEditCommand(env.c), "", "7", "--status", "Code Review", "--assignee", "")

	require.NoError(t, err)
	assert.Equal(t, "Updated task #7 (Code Review)\n", stdout)
	assert.Equal(t, 7, env.tasks.LastPatchID)
	assert.Equal(t, domain.StatusCodeReview, env.tasks.LastPatch["status"])
	v, ok := env.tasks.LastPatch["assigned_to"]
	assert.True(t, ok, "cleared field is sent")
	assert.Nil(t, v)
	assert.NotContains(t, env.tasks.LastPatch, "task_name")
}

func TestEditCommand_NoFields(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newEditCommand(env.c), "", "7")

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
	assert.Equal(t, 0, env.tasks.CallCount("UpdateTask"))
}

func TestRmCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantOut    string
		wantDelete int
	}{
		{"yes flag", []string{"7", "--yes"}, "", "Deleted task #7\n", 1},
		{"confirmed", []string{"#7"}, "y\n", "Deleted task #7\n", 1},
		{"declined", []string{"7"}, "n\n", "Cancelled\n", 0},
		{"no input", []string{"7"}, "", "Cancelled\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(sampleTasks()...)

			stdout, stderr, err := run(newRmCommand(env.c), tt.stdin, tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, stdout)
			assert.Equal(t, tt.wantDelete, env.tasks.CallCount("DeleteTask"))
			if tt.stdin != "" {
				assert.Contains(t, stderr, "Delete task #7? [y/N]: ")
			}
		})
	}
}
