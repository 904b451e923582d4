// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task is a work item owned by the remote task API.
// The client never invents field values: every Task it holds is a canonical server record.
// Fields are ordered to minimize memory padding.
type Task struct {
	AssignedTo  *string    `json:"assigned_to" yaml:"assigned_to"`
	StartDate   *Date      `json:"start_date" yaml:"start_date"`
	EndDate     *Date      `json:"end_date" yaml:"end_date"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   *Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	TaskName    string     `json:"task_name" yaml:"task_name"`
	Status      Status     `json:"status" yaml:"status"`
	Priority    Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	ID          int        `json:"id" yaml:"id"`
}

// Assignee returns the assignee name or an empty string.
func (t *Task) Assignee() string {
	if t.AssignedTo == nil {
		return ""
	}
	return *t.AssignedTo
}

// DescriptionText returns the description or an empty string.
func (t *Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// EffectivePriority returns the priority, treating absent as Medium.
func (t *Task) EffectivePriority() Priority {
	return t.Priority.Normalize()
}

// IsAssignedTo reports whether the task is assigned to username (case-insensitive).
func (t *Task) IsAssignedTo(username string) bool {
	if username == "" || t.AssignedTo == nil {
		return false
	}
	return strings.EqualFold(*t.AssignedTo, username)
}

// SortTime returns the instant used for chronological ordering:
// created_at, else end_date, else start_date, else the Unix epoch.
func (t *Task) SortTime() time.Time {
	switch {
	case t.CreatedAt != nil:
		return t.CreatedAt.Time
	case t.EndDate != nil:
		return t.EndDate.Time()
	case t.StartDate != nil:
		return t.StartDate.Time()
	default:
		return time.Unix(0, 0).UTC()
	}
}

// SearchText returns the text matched by free-text queries:
// name, assignee and status joined by single spaces, lower-cased.
func (t *Task) SearchText() string {
	return strings.ToLower(strings.Join([]string{t.TaskName, t.Assignee(), string(t.Status)}, " "))
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		c.AssignedTo = &v
	}
	if t.StartDate != nil {
		v := *t.StartDate
		c.StartDate = &v
	}
	if t.EndDate != nil {
		v := *t.EndDate
		c.EndDate = &v
	}
	if t.Description != nil {
		v := *t.Description
		c.Description = &v
	}
	if t.CreatedAt != nil {
		v := *t.CreatedAt
		c.CreatedAt = &v
	}
	return &c
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// DedupByID keeps the first occurrence of each id, preserving order.
func DedupByID(tasks []*Task) []*Task {
	seen := make(map[int]struct{}, len(tasks))
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
