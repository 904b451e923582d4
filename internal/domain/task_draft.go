package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaskDraft is the user input for creating a task.
// Empty optional fields are sent as null.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	TaskName   string   `yaml:"task_name"`
	Status     Status   `yaml:"status"`
	Priority   Priority `yaml:"priority"`
	AssignedTo string   `yaml:"assigned_to"`
	StartDate  string   `yaml:"start_date"`
	EndDate    string   `yaml:"end_date"`
}

// CreateTaskBody is the JSON body of POST /tasks.
type CreateTaskBody struct {
	AssignedTo *string  `json:"assigned_to"`
	StartDate  *Date    `json:"start_date"`
	EndDate    *Date    `json:"end_date"`
	TaskName   string   `json:"task_name"`
	Status     Status   `json:"status"`
	Priority   Priority `json:"priority"`
}

// Body validates the draft and builds the request body.
// The name is required; status and priority default to Considered and Medium.
func (d TaskDraft) Body() (CreateTaskBody, error) {
	name := strings.TrimSpace(d.TaskName)
	if name == "" {
		return CreateTaskBody{}, ErrEmptyTitle
	}

	status := d.Status
	if status == "" {
		status = DefaultStatus
	}
	if !status.IsValid() {
		return CreateTaskBody{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	priority := d.Priority.Normalize()
	if !priority.IsValid() {
		return CreateTaskBody{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	start, err := optionalDate(d.StartDate)
	if err != nil {
		return CreateTaskBody{}, fmt.Errorf("start date: %w", err)
	}
	end, err := optionalDate(d.EndDate)
	if err != nil {
		return CreateTaskBody{}, fmt.Errorf("end date: %w", err)
	}

	return CreateTaskBody{
		TaskName:   name,
		Status:     status,
		Priority:   priority,
		AssignedTo: optionalText(d.AssignedTo),
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// ParseTaskDrafts reads a YAML stream with one draft per document.
//
// Format:
//
//	task_name: Write docs
//	priority: High
//	---
//	task_name: Review release
//	status: Code Review
//	assigned_to: alice
//	end_date: 2025-01-20
func ParseTaskDrafts(r io.Reader) ([]TaskDraft, error) {
	dec := yaml.NewDecoder(r)
	var drafts []TaskDraft
	for i := 1; ; i++ {
		var d TaskDraft
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if d == (TaskDraft{}) {
			continue
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return nil, ErrNoTasksInFile
	}
	return drafts, nil
}

// TaskPatch is a partial update. A nil field is not sent.
// For optional text and date fields, a value that is empty after trimming is sent as null.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	TaskName    *string
	Status      *Status
	Priority    *Priority
	AssignedTo  *string
	StartDate   *string
	EndDate     *string
	Description *string
}

// PatchBody is the JSON body of PATCH /tasks/{id}. Only present keys are sent.
type PatchBody map[string]any

// IsEmpty reports whether the patch sets no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.TaskName == nil && p.Status == nil && p.Priority == nil &&
		p.AssignedTo == nil && p.StartDate == nil && p.EndDate == nil && p.Description == nil
}

// Body validates the patch and builds the request body.
func (p TaskPatch) Body() (PatchBody, error) {
	if p.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	body := PatchBody{}

	if p.TaskName != nil {
		name := strings.TrimSpace(*p.TaskName)
		if name == "" {
			return nil, ErrEmptyTitle
		}
		body["task_name"] = name
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
		}
		body["status"] = *p.Status
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
		}
		body["priority"] = *p.Priority
	}
	if p.AssignedTo != nil {
		body["assigned_to"] = optionalText(*p.AssignedTo)
	}
	if p.StartDate != nil {
		d, err := optionalDate(*p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("start date: %w", err)
		}
		body["start_date"] = d
	}
	if p.EndDate != nil {
		d, err := optionalDate(*p.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
		body["end_date"] = d
	}
	if p.Description != nil {
		body["description"] = optionalText(*p.Description)
	}
	return body, nil
}

// PatchFromTask seeds an edit form from a task.
// Absent status becomes Considered and absent priority becomes Medium.
// The description is edited separately and is not included.
func PatchFromTask(t *Task) TaskPatch {
	name := t.TaskName
	status := t.Status
	if status == "" {
		status = DefaultStatus
	}
	priority := t.Priority.Normalize()
	assignee := t.Assignee()
	var start, end string
	if t.StartDate != nil {
		start = t.StartDate.String()
	}
	if t.EndDate != nil {
		end = t.EndDate.String()
	}
	return TaskPatch{
		TaskName:   &name,
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &assignee,
		StartDate:  &start,
		EndDate:    &end,
	}
}

// optionalText trims s and returns nil when nothing is left.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalDate parses s as an ISO date and returns nil when s is blank.
func optionalDate(s string) (*Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
