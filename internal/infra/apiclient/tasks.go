package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/runoshun/taskboard/internal/domain"
)

// ListTasks fetches GET /tasks.
func (c *Client) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tasks", scope: authTask, out: &tasks}); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	for _, t := range tasks {
		if err := checkTask(t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// GetTask fetches GET /tasks/{id}.
func (c *Client) GetTask(ctx context.Context, id int) (*domain.Task, error) {
	var task *domain.Task
	if err := c.do(ctx, request{method: http.MethodGet, path: taskPath(id), scope: authTask, out: &task}); err != nil {
		return nil, err
	}
	if err := checkTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask posts body to /tasks.
func (c *Client) CreateTask(ctx context.Context, body domain.CreateTaskBody) (*domain.Task, error) {
	return c.writeTask(ctx, http.MethodPost, "/tasks", body)
}

// UpdateTask patches /tasks/{id} with body.
func (c *Client) UpdateTask(ctx context.Context, id int, body domain.PatchBody) (*domain.Task, error) {
	return c.writeTask(ctx, http.MethodPatch, taskPath(id), body)
}

// DeleteTask issues DELETE /tasks/{id}.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: taskPath(id), scope: authTask})
}

func (c *Client) writeTask(ctx context.Context, method, path string, body any) (*domain.Task, error) {
	rd, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	var task *domain.Task
	err = c.do(ctx, request{
		method:      method,
		path:        path,
		body:        rd,
		contentType: "application/json",
		scope:       authTask,
		out:         &task,
	})
	if err != nil {
		return nil, err
	}
	if err := checkTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

var errMissingTask = errors.New("task record missing id")

// checkTask rejects a well-formed body that is not a task record,
// such as null or an object without an id.
func checkTask(t *domain.Task) error {
	if t == nil || t.ID == 0 {
		return decodeError(errMissingTask)
	}
	return nil
}

func taskPath(id int) string {
	return fmt.Sprintf("/tasks/%d", id)
}
