package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/taskboard/internal/domain"
)

const detailCategory = "detail"

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID int
}

// ShowTaskOutput contains the task with its attachments and comments.
type ShowTaskOutput struct {
	Detail   domain.TaskDetail
	Warnings []string // Sub-resources that failed to load
}

// ShowTask loads the detail page of a task.
type ShowTask struct {
	tasks  domain.TaskAPI
	detail domain.DetailAPI
	logger domain.Logger
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskAPI, detail domain.DetailAPI, logger domain.Logger) *ShowTask {
	return &ShowTask{tasks: tasks, detail: detail, logger: logger}
}

// Execute fails only when the task itself cannot be fetched. Attachments and
// comments are fetched concurrently; a failure there yields an empty list and a warning.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.tasks.GetTask(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task #%d: %w", in.TaskID, err)
	}

	var (
		wg          sync.WaitGroup
		attachments []domain.Attachment
		comments    []domain.Comment
		attErr      error
		comErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		attachments, attErr = uc.detail.ListAttachments(ctx, in.TaskID)
	}()
	go func() {
		defer wg.Done()
		comments, comErr = uc.detail.ListComments(ctx, in.TaskID)
	}()
	wg.Wait()

	out := &ShowTaskOutput{Detail: domain.TaskDetail{Task: task}}
	if attErr != nil {
		msg := fmt.Sprintf("failed to load attachments: %v", attErr)
		uc.logger.Warn(in.TaskID, detailCategory, msg)
		out.Warnings = append(out.Warnings, msg)
		attachments = nil
	}
	if comErr != nil {
		msg := fmt.Sprintf("failed to load comments: %v", comErr)
		uc.logger.Warn(in.TaskID, detailCategory, msg)
		out.Warnings = append(out.Warnings, msg)
		comments = nil
	}
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	out.Detail.Attachments = attachments
	out.Detail.Comments = comments
	return out, nil
}
