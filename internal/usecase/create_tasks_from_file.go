package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/runoshun/taskboard/internal/domain"
)

// TaskCreator creates one task from a draft.
type TaskCreator interface {
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
}

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Content io.Reader // YAML stream, one task per document
	DryRun  bool      // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Tasks  []*domain.Task          // Created tasks (empty in dry-run mode)
	Bodies []domain.CreateTaskBody // Validated request bodies
}

// CreateTasksFromFile is the use case for creating tasks from a YAML file.
type CreateTasksFromFile struct {
	creator TaskCreator
	logger  domain.Logger
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(creator TaskCreator, logger domain.Logger) *CreateTasksFromFile {
	return &CreateTasksFromFile{creator: creator, logger: logger}
}

// Execute validates every draft before creating any, then creates them in file order.
// On a failed create the tasks created so far are returned with the error.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	out := &CreateTasksFromFileOutput{Bodies: make([]domain.CreateTaskBody, 0, len(drafts))}
	for i, draft := range drafts {
		body, err := draft.Body()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		out.Bodies = append(out.Bodies, body)
	}

	if in.DryRun {
		return out, nil
	}

	for i, draft := range drafts {
		task, err := uc.creator.Create(ctx, draft)
		if err != nil {
			return out, fmt.Errorf("task %d: %w", i+1, err)
		}
		out.Tasks = append(out.Tasks, task)
	}
	uc.logger.Info(0, "store", fmt.Sprintf("created %d tasks from file", len(out.Tasks)))
	return out, nil
}
