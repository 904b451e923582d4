package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/domain"
)

// ListAttachments fetches GET /tasks/{id}/attachments.
func (c *Client) ListAttachments(ctx context.Context, taskID int) ([]domain.Attachment, error) {
	var out []domain.Attachment
	if err := c.do(ctx, request{method: http.MethodGet, path: taskPath(taskID) + "/attachments", out: &out}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Attachment{}
	}
	return out, nil
}

// UploadAttachment posts content as the multipart field "file".
// The body is streamed through a pipe so large files are not buffered.
func (c *Client) UploadAttachment(ctx context.Context, taskID int, filename string, content io.Reader) (*domain.Attachment, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	var att domain.Attachment
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        taskPath(taskID) + "/attachments",
		body:        pr,
		contentType: mw.FormDataContentType(),
		out:         &att,
	})
	// Unblock the writer goroutine if the request ended early.
	_ = pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// DownloadAttachment streams GET /attachments/{id}.
// The filename comes from Content-Disposition, falling back to "attachment-<id>".
func (c *Client) DownloadAttachment(ctx context.Context, attachmentID int) (*domain.Download, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/attachments/%d", attachmentID)})
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("attachment-%d", attachmentID)
	if _, params, perr := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); perr == nil {
		if fn := filepath.Base(params["filename"]); params["filename"] != "" && fn != "." && fn != "/" {
			name = fn
		}
	}
	return &domain.Download{Body: resp.Body, Filename: name}, nil
}

// ListComments fetches GET /tasks/{id}/comments.
func (c *Client) ListComments(ctx context.Context, taskID int) ([]domain.Comment, error) {
	var out []domain.Comment
	if err := c.do(ctx, request{method: http.MethodGet, path: taskPath(taskID) + "/comments", out: &out}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Comment{}
	}
	return out, nil
}

// AddComment posts body to /tasks/{id}/comments.
func (c *Client) AddComment(ctx context.Context, taskID int, body domain.NewCommentBody) (*domain.Comment, error) {
	rd, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	var comment domain.Comment
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        taskPath(taskID) + "/comments",
		body:        rd,
		contentType: "application/json",
		out:         &comment,
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
