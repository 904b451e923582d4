package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
)

// ListAttachmentsInput contains the parameters for listing attachments.
type ListAttachmentsInput struct {
	TaskID int
}

// ListAttachmentsOutput contains the attachments of a task.
type ListAttachmentsOutput struct {
	Attachments []domain.Attachment
}

// ListAttachments lists the files attached to a task.
type ListAttachments struct {
	detail domain.DetailAPI
}

// NewListAttachments creates a new ListAttachments use case.
func NewListAttachments(detail domain.DetailAPI) *ListAttachments {
	return &ListAttachments{detail: detail}
}

// Execute lists attachments.
func (uc *ListAttachments) Execute(ctx context.Context, in ListAttachmentsInput) (*ListAttachmentsOutput, error) {
	list, err := uc.detail.ListAttachments(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return &ListAttachmentsOutput{Attachments: list}, nil
}

// UploadAttachmentInput contains the parameters for uploading a file.
type UploadAttachmentInput struct {
	Path   string // Local file path (required)
	TaskID int
}

// UploadAttachmentOutput contains the uploaded attachment and the refreshed list.
type UploadAttachmentOutput struct {
	Attachment  *domain.Attachment
	Attachments []domain.Attachment
}

// UploadAttachment attaches a local file to a task.
type UploadAttachment struct {
	detail domain.DetailAPI
	logger domain.Logger
}

// NewUploadAttachment creates a new UploadAttachment use case.
func NewUploadAttachment(detail domain.DetailAPI, logger domain.Logger) *UploadAttachment {
	return &UploadAttachment{detail: detail, logger: logger}
}

// Execute validates the path locally before any request, uploads the file
// and reloads the attachment list.
func (uc *UploadAttachment) Execute(ctx context.Context, in UploadAttachmentInput) (*UploadAttachmentOutput, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return nil, domain.ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoFile, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", domain.ErrNoFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	att, err := uc.detail.UploadAttachment(ctx, in.TaskID, filepath.Base(path), f)
	if err != nil {
		uc.logger.Warn(in.TaskID, detailCategory, fmt.Sprintf("upload of %s failed: %v", filepath.Base(path), err))
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	uc.logger.Info(in.TaskID, detailCategory, fmt.Sprintf("uploaded %s (%d bytes)", att.Filename, info.Size()))

	list, err := uc.detail.ListAttachments(ctx, in.TaskID)
	if err != nil {
		uc.logger.Warn(in.TaskID, detailCategory, fmt.Sprintf("failed to reload attachments: %v", err))
		list = []domain.Attachment{*att}
	}
	return &UploadAttachmentOutput{Attachment: att, Attachments: list}, nil
}

// DownloadAttachmentInput contains the parameters for downloading a file.
type DownloadAttachmentInput struct {
	Output       string    // Destination path; empty = server filename in Dir
	Dir          string    // Directory for the server filename (default ".")
	Writer       io.Writer // If set, the body is copied here instead of a file
	AttachmentID int
}

// DownloadAttachmentOutput describes the downloaded file.
type DownloadAttachmentOutput struct {
	Path  string // Empty when written to Writer
	Bytes int64
}

// DownloadAttachment saves an attachment locally.
type DownloadAttachment struct {
	detail domain.DetailAPI
	logger domain.Logger
}

// NewDownloadAttachment creates a new DownloadAttachment use case.
func NewDownloadAttachment(detail domain.DetailAPI, logger domain.Logger) *DownloadAttachment {
	return &DownloadAttachment{detail: detail, logger: logger}
}

// Execute streams the attachment to its destination.
func (uc *DownloadAttachment) Execute(ctx context.Context, in DownloadAttachmentInput) (*DownloadAttachmentOutput, error) {
	dl, err := uc.detail.DownloadAttachment(ctx, in.AttachmentID)
	if err != nil {
		return nil, fmt.Errorf("download attachment %d: %w", in.AttachmentID, err)
	}
	defer func() { _ = dl.Body.Close() }()

	if in.Writer != nil {
		n, err := io.Copy(in.Writer, dl.Body)
		if err != nil {
			return nil, fmt.Errorf("write attachment: %w", err)
		}
		return &DownloadAttachmentOutput{Bytes: n}, nil
	}

	path := in.Output
	if path == "" {
		dir := in.Dir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, filepath.Base(dl.Filename))
	}

	tmp := path + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, dl.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write attachment: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("rename file: %w", err)
	}

	uc.logger.Info(0, detailCategory, fmt.Sprintf("downloaded attachment %d to %s", in.AttachmentID, path))
	return &DownloadAttachmentOutput{Path: path, Bytes: n}, nil
}
