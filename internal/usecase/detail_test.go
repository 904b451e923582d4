package usecase

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestShowTask_Execute(t *testing.T) {
	// Setup
	tasks := testutil.NewMockTaskAPI(&domain.Task{ID: 7, TaskName: "Fix login", Status: domain.StatusUnderDevelopment})
	detail := testutil.NewMockDetailAPI()
	detail.Attachments[7] = []domain.Attachment{{ID: 1, Filename: "spec.pdf"}}
	detail.Comments[7] = []domain.Comment{{ID: 2, Author: "alice", Text: "on it"}}
	uc := NewShowTask(tasks, detail, domain.NopLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: 7})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Fix login", out.Detail.Task.TaskName)
	assert.Len(t, out.Detail.Attachments, 1)
	assert.Len(t, out.Detail.Comments, 1)
	assert.Empty(t, out.Warnings)
}

func TestShowTask_Execute_TaskNotFound(t *testing.T) {
	uc := NewShowTask(testutil.NewMockTaskAPI(), testutil.NewMockDetailAPI(), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: 99})

	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowTask_Execute_SubResourceFailures(t *testing.T) {
	tasks := testutil.NewMockTaskAPI(&domain.Task{ID: 7, TaskName: "Fix login"})
	detail := testutil.NewMockDetailAPI()
	detail.ListAttachmentsErr = errors.New("HTTP 500")
	detail.ListCommentsErr = errors.New("HTTP 503")
	logger := &testutil.MockLogger{}
	uc := NewShowTask(tasks, detail, logger)

	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: 7})

	require.NoError(t, err, "the page still renders with the task")
	assert.NotNil(t, out.Detail.Attachments)
	assert.Empty(t, out.Detail.Attachments)
	assert.NotNil(t, out.Detail.Comments)
	assert.Empty(t, out.Detail.Comments)
	assert.Len(t, out.Warnings, 2)
	assert.Equal(t, 2, logger.Count("WARN"))
}

func TestSaveDescription_Execute(t *testing.T) {
	tasks := testutil.NewMockTaskAPI(&domain.Task{ID: 3, TaskName: "Docs"})
	cache := &testutil.MockTaskCache{}
	uc := NewSaveDescription(tasks, cache, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), SaveDescriptionInput{TaskID: 3, Text: "  Write the README  "})

	require.NoError(t, err)
	assert.Equal(t, "Write the README", out.Task.DescriptionText())
	assert.Equal(t, 3, tasks.LastPatchID)
	assert.Len(t, tasks.LastPatch, 1, "only the description is sent")
	require.Len(t, cache.Reconciled, 1)
	assert.Equal(t, 3, cache.Reconciled[0].ID)
}

func TestSaveDescription_Execute_BlankClears(t *testing.T) {
	tasks := testutil.NewMockTaskAPI(&domain.Task{ID: 3, TaskName: "Docs", Description: strPtr("old")})
	uc := NewSaveDescription(tasks, nil, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), SaveDescriptionInput{TaskID: 3, Text: "   "})

	require.NoError(t, err)
	assert.Nil(t, out.Task.Description)
	v, ok := tasks.LastPatch["description"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestSaveDescription_Execute_Error(t *testing.T) {
	tasks := testutil.NewMockTaskAPI(&domain.Task{ID: 3, TaskName: "Docs"})
	tasks.UpdateErr = errors.New("HTTP 500")
	cache := &testutil.MockTaskCache{}
	uc := NewSaveDescription(tasks, cache, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), SaveDescriptionInput{TaskID: 3, Text: "x"})

	require.Error(t, err)
	assert.Empty(t, cache.Reconciled)
}

func TestListAttachments_Execute(t *testing.T) {
	detail := testutil.NewMockDetailAPI()
	detail.Attachments[1] = []domain.Attachment{{ID: 4, Filename: "a.txt"}}

	out, err := NewListAttachments(detail).Execute(context.Background(), ListAttachmentsInput{TaskID: 1})

	require.NoError(t, err)
	assert.Equal(t, "a.txt", out.Attachments[0].Filename)
}

func TestUploadAttachment_Execute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	detail := testutil.NewMockDetailAPI()
	uc := NewUploadAttachment(detail, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), UploadAttachmentInput{TaskID: 5, Path: path})

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", out.Attachment.Filename)
	assert.Equal(t, []byte("hello"), detail.Uploaded["notes.txt"])
	assert.Len(t, out.Attachments, 1)
}

func TestUploadAttachment_Execute_NoFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: "  "},
		{name: "missing file", path: filepath.Join(dir, "nope.txt")},
		{name: "directory", path: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := testutil.NewMockDetailAPI()
			uc := NewUploadAttachment(detail, domain.NopLogger{})

			_, err := uc.Execute(context.Background(), UploadAttachmentInput{TaskID: 5, Path: tt.path})

			require.ErrorIs(t, err, domain.ErrNoFile)
			assert.Empty(t, detail.Uploaded, "no request is made")
		})
	}
}

func TestUploadAttachment_Execute_ReloadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	detail := testutil.NewMockDetailAPI()
	uc := NewUploadAttachment(detail, domain.NopLogger{})
	// Upload succeeds, then the list reload fails.
	detail.ListAttachmentsErr = errors.New("HTTP 500")

	out, err := uc.Execute(context.Background(), UploadAttachmentInput{TaskID: 5, Path: path})

	require.NoError(t, err)
	require.Len(t, out.Attachments, 1)
	assert.Equal(t, "a.bin", out.Attachments[0].Filename)
}

func TestDownloadAttachment_Execute(t *testing.T) {
	detail := testutil.NewMockDetailAPI()
	detail.Attachments[1] = []domain.Attachment{{ID: 9, Filename: "report.csv"}}
	detail.Files[9] = []byte("a,b\n1,2\n")
	uc := NewDownloadAttachment(detail, domain.NopLogger{})

	t.Run("server filename in dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := uc.Execute(context.Background(), DownloadAttachmentInput{AttachmentID: 9, Dir: dir})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "report.csv"), out.Path)
		assert.EqualValues(t, 8, out.Bytes)
		data, err := os.ReadFile(out.Path)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
		_, err = os.Stat(out.Path + ".part")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("explicit output", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "copy.csv")
		out, err := uc.Execute(context.Background(), DownloadAttachmentInput{AttachmentID: 9, Output: target})
		require.NoError(t, err)
		assert.Equal(t, target, out.Path)
	})

	t.Run("writer", func(t *testing.T) {
		var buf bytes.Buffer
		out, err := uc.Execute(context.Background(), DownloadAttachmentInput{AttachmentID: 9, Writer: &buf})
		require.NoError(t, err)
		assert.Empty(t, out.Path)
		assert.Equal(t, "a,b\n1,2\n", buf.String())
	})

	t.Run("unknown attachment", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), DownloadAttachmentInput{AttachmentID: 404, Dir: t.TempDir()})
		require.Error(t, err)
	})
}

func TestAddComment_Execute(t *testing.T) {
	tests := []struct {
		session    *domain.Session
		name       string
		wantAuthor string
	}{
		{name: "signed in", session: &domain.Session{Token: "t", User: domain.User{Username: "alice"}}, wantAuthor: "alice"},
		{name: "signed out", session: nil, wantAuthor: domain.DefaultCommentAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := testutil.NewMockDetailAPI()
			uc := NewAddComment(detail, domain.NewSessionState(tt.session), domain.NopLogger{})

			out, err := uc.Execute(context.Background(), AddCommentInput{TaskID: 2, Text: "  looks good  "})

			require.NoError(t, err)
			assert.Equal(t, tt.wantAuthor, out.Comment.Author)
			assert.Equal(t, "looks good", detail.LastComment.Text)
			assert.Len(t, out.Comments, 1)
		})
	}
}

func TestAddComment_Execute_Empty(t *testing.T) {
	detail := testutil.NewMockDetailAPI()
	uc := NewAddComment(detail, domain.NewSessionState(nil), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), AddCommentInput{TaskID: 2, Text: " \n\t "})

	require.ErrorIs(t, err, domain.ErrEmptyComment)
	assert.Nil(t, detail.LastComment)
}

func TestAddComment_Execute_Error(t *testing.T) {
	detail := testutil.NewMockDetailAPI()
	detail.AddCommentErr = errors.New("HTTP 422: text required")
	uc := NewAddComment(detail, domain.NewSessionState(nil), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), AddCommentInput{TaskID: 2, Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
}

func TestListComments_Execute(t *testing.T) {
	detail := testutil.NewMockDetailAPI()
	detail.Comments[1] = []domain.Comment{{ID: 1, Author: "bob", Text: "hi"}}

	out, err := NewListComments(detail).Execute(context.Background(), ListCommentsInput{TaskID: 1})

	require.NoError(t, err)
	assert.Equal(t, "bob", out.Comments[0].Author)
}
