package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCommand(t *testing.T) {
	tests := []struct {
		name       string
		signedIn   bool
		wantAuthor string
	}{
		{"signed in", true, "alice"},
		{"anonymous", false, domain.DefaultCommentAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(sampleTasks()...)
			if tt.signedIn {
				env.signIn("alice")
			}

			stdout, _, err := run(newCommentCommand(env.c), "", "7", "--text", "Reproduced on staging")

			require.NoError(t, err)
			assert.Equal(t, "Added comment to task #7 as "+tt.wantAuthor+" (1 comments)\n", stdout)
			require.NotNil(t, env.detail.LastComment)
			assert.Equal(t, "Reproduced on staging", env.detail.LastComment.Text)
		})
	}
}

func TestCommentCommand_PositionalText(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newCommentCommand(env.c), "", "#7", "Looks good")

	require.NoError(t, err)
	require.Len(t, env.detail.Comments[7], 1)
	assert.Equal(t, "Looks good", env.detail.Comments[7][0].Text)
}

func TestCommentCommand_Errors(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newCommentCommand(env.c), "", "7", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)

	_, _, err = run(newCommentCommand(env.c), "", "7", "a", "--text", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either as an argument or with --text")

	assert.Nil(t, env.detail.LastComment)
}

func TestCommentsCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	stdout, _, err := run(newCommentsCommand(env.c), "", "7")
	require.NoError(t, err)
	assert.Equal(t, "No comments\n", stdout)

	env.detail.Comments[7] = []domain.Comment{
		{ID: 1, Author: "alice", Text: "First"},
		{ID: 2, Author: "Bob Stone", Text: "Second"},
	}
	stdout, _, err = run(newCommentsCommand(env.c), "", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(A) alice\n  First")
	assert.Contains(t, stdout, "(BS) Bob Stone\n  Second")
}

func TestCommentsCommand_JSON(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.detail.Comments[7] = []domain.Comment{{ID: 1, Author: "alice", Text: "First"}}

	stdout, _, err := run(newCommentsCommand(env.c), "", "7", "-o", "json")

	require.NoError(t, err)
	var got []domain.Comment
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Author)
}

func TestPrintComments_WrapsLongText(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	long := "word "
	for len(long) < 200 {
		long += "word "
	}
	env.detail.Comments[7] = []domain.Comment{{ID: 1, Author: "alice", Text: long}}

	stdout, _, err := run(newCommentsCommand(env.c), "", "7")

	require.NoError(t, err)
	for _, line := range splitLines(stdout) {
		assert.LessOrEqual(t, len(line), commentWrapWidth+2)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := range len(s) {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func TestAttachCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	path := filepath.Join(t.TempDir(), "trace.log")
	require.NoError(t, os.WriteFile(path, []byte("stack"), 0o644))

	stdout, _, err := run(newAttachCommand(env.c), "", "7", path)

	require.NoError(t, err)
	assert.Equal(t, "Uploaded trace.log as attachment 1 (1 attachments)\n", stdout)
	assert.Equal(t, []byte("stack"), env.detail.Uploaded["trace.log"])
}

func TestAttachCommand_MissingFile(t *testing.T) {
	env := newTestContainer(sampleTasks()...)

	_, _, err := run(newAttachCommand(env.c), "", "7", filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, domain.ErrNoFile)
	assert.Empty(t, env.detail.Uploaded)
}

func TestAttachmentsCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.detail.Attachments[7] = []domain.Attachment{{ID: 3, Filename: "trace.log"}}

	stdout, _, err := run(newAttachmentsCommand(env.c), "", "7")

	require.NoError(t, err)
	lines := splitLines(stdout)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "FILENAME")
	assert.Contains(t, lines[1], "trace.log")
	assert.Contains(t, lines[1], "-")
}

func TestDownloadCommand(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.c.Config.WorkDir = t.TempDir()
	env.detail.Attachments[7] = []domain.Attachment{{ID: 3, Filename: "report.txt"}}
	env.detail.Files[3] = []byte("hello")

	stdout, _, err := run(newDownloadCommand(env.c), "", "3")

	require.NoError(t, err)
	want := filepath.Join(env.c.Config.WorkDir, "report.txt")
	assert.Equal(t, "Saved "+want+" (5 bytes)\n", stdout)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDownloadCommand_Output(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.detail.Attachments[7] = []domain.Attachment{{ID: 3, Filename: "report.txt"}}
	env.detail.Files[3] = []byte("hello")
	dest := filepath.Join(t.TempDir(), "copy.txt")

	_, _, err := run(newDownloadCommand(env.c), "", "3", "-O", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	stdout, _, err := run(newDownloadCommand(env.c), "", "3", "--output", "-")
	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)
}

func TestDownloadCommand_Error(t *testing.T) {
	env := newTestContainer(sampleTasks()...)
	env.detail.DownloadErr = errors.New("gone")

	_, _, err := run(newDownloadCommand(env.c), "", "3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "download attachment 3")
}
