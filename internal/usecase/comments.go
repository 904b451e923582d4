package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
)

// ListCommentsInput contains the parameters for listing comments.
type ListCommentsInput struct {
	TaskID int
}

// ListCommentsOutput contains the comments of a task.
type ListCommentsOutput struct {
	Comments []domain.Comment
}

// ListComments lists the comments of a task.
type ListComments struct {
	detail domain.DetailAPI
}

// NewListComments creates a new ListComments use case.
func NewListComments(detail domain.DetailAPI) *ListComments {
	return &ListComments{detail: detail}
}

// Execute lists comments.
func (uc *ListComments) Execute(ctx context.Context, in ListCommentsInput) (*ListCommentsOutput, error) {
	list, err := uc.detail.ListComments(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &ListCommentsOutput{Comments: list}, nil
}

// AddCommentInput contains the parameters for adding a comment.
type AddCommentInput struct {
	Text   string // Comment text (required)
	TaskID int
}

// AddCommentOutput contains the created comment and the refreshed list.
type AddCommentOutput struct {
	Comment  *domain.Comment
	Comments []domain.Comment
}

// AddComment posts a comment on a task.
type AddComment struct {
	detail domain.DetailAPI
	state  *domain.SessionState
	logger domain.Logger
}

// NewAddComment creates a new AddComment use case.
func NewAddComment(detail domain.DetailAPI, state *domain.SessionState, logger domain.Logger) *AddComment {
	return &AddComment{detail: detail, state: state, logger: logger}
}

// Execute posts the trimmed text. The author is the signed-in username,
// or "Team Member" when nobody is signed in.
func (uc *AddComment) Execute(ctx context.Context, in AddCommentInput) (*AddCommentOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	author := uc.state.Username()
	if author == "" {
		author = domain.DefaultCommentAuthor
	}

	comment, err := uc.detail.AddComment(ctx, in.TaskID, domain.NewCommentBody{Text: text, Author: author})
	if err != nil {
		uc.logger.Warn(in.TaskID, detailCategory, fmt.Sprintf("add comment failed: %v", err))
		return nil, fmt.Errorf("add comment: %w", err)
	}
	uc.logger.Info(in.TaskID, detailCategory, fmt.Sprintf("comment added by %s", author))

	list, err := uc.detail.ListComments(ctx, in.TaskID)
	if err != nil {
		uc.logger.Warn(in.TaskID, detailCategory, fmt.Sprintf("failed to reload comments: %v", err))
		list = []domain.Comment{*comment}
	}
	return &AddCommentOutput{Comment: comment, Comments: list}, nil
}
