package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// SaveDescriptionInput contains the parameters for saving a description.
type SaveDescriptionInput struct {
	Text   string // Blank clears the description
	TaskID int
}

// SaveDescriptionOutput contains the canonical task.
type SaveDescriptionOutput struct {
	Task *domain.Task
}

// SaveDescription patches the description of a task.
type SaveDescription struct {
	tasks  domain.TaskAPI
	cache  domain.TaskCache
	logger domain.Logger
}

// NewSaveDescription creates a new SaveDescription use case. cache may be nil.
func NewSaveDescription(tasks domain.TaskAPI, cache domain.TaskCache, logger domain.Logger) *SaveDescription {
	return &SaveDescription{tasks: tasks, cache: cache, logger: logger}
}

// Execute sends {description: text-or-null} and reconciles the cached record.
func (uc *SaveDescription) Execute(ctx context.Context, in SaveDescriptionInput) (*SaveDescriptionOutput, error) {
	body, err := domain.TaskPatch{Description: &in.Text}.Body()
	if err != nil {
		return nil, err
	}

	task, err := uc.tasks.UpdateTask(ctx, in.TaskID, body)
	if err != nil {
		uc.logger.Warn(in.TaskID, detailCategory, fmt.Sprintf("save description failed: %v", err))
		return nil, fmt.Errorf("save description: %w", err)
	}
	if uc.cache != nil {
		uc.cache.Reconcile(task)
	}

	uc.logger.Info(in.TaskID, detailCategory, "description saved")
	return &SaveDescriptionOutput{Task: task}, nil
}
