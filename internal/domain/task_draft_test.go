package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDraft_Body_Defaults(t *testing.T) {
	body, err := TaskDraft{TaskName: "  Ship it  "}.Body()
	require.NoError(t, err)

	assert.Equal(t, "Ship it", body.TaskName)
	assert.Equal(t, StatusConsidered, body.Status)
	assert.Equal(t, PriorityMedium, body.Priority)
	assert.Nil(t, body.AssignedTo)
	assert.Nil(t, body.StartDate)
	assert.Nil(t, body.EndDate)
}

func TestTaskDraft_Body_EmptyOptionalFieldsBecomeNull(t *testing.T) {
	body, err := TaskDraft{TaskName: "x", AssignedTo: "  ", StartDate: "", EndDate: " "}.Body()
	require.NoError(t, err)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"task_name": "x",
		"status": "Considered",
		"assigned_to": null,
		"start_date": null,
		"end_date": null,
		"priority": "Medium"
	}`, string(raw))
}

func TestTaskDraft_Body_AllFields(t *testing.T) {
	body, err := TaskDraft{
		TaskName:   "Fix login",
		Status:     StatusCodeReview,
		Priority:   PriorityUrgent,
		AssignedTo: "alice",
		StartDate:  "2025-01-02",
		EndDate:    "2025-01-09",
	}.Body()
	require.NoError(t, err)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"task_name": "Fix login",
		"status": "Code Review",
		"assigned_to": "alice",
		"start_date": "2025-01-02",
		"end_date": "2025-01-09",
		"priority": "Urgent"
	}`, string(raw))
}

func TestTaskDraft_Body_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		draft   TaskDraft
	}{
		{name: "empty name", draft: TaskDraft{TaskName: "   "}, wantErr: ErrEmptyTitle},
		{name: "bad status", draft: TaskDraft{TaskName: "x", Status: "Done"}, wantErr: ErrInvalidStatus},
		{name: "bad priority", draft: TaskDraft{TaskName: "x", Priority: "Critical"}, wantErr: ErrInvalidPriority},
		{name: "bad start date", draft: TaskDraft{TaskName: "x", StartDate: "01/02/2025"}, wantErr: ErrInvalidDate},
		{name: "bad end date", draft: TaskDraft{TaskName: "x", EndDate: "2025-13-01"}, wantErr: ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Body()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskPatch_Body_OnlySetFields(t *testing.T) {
	status := StatusCodeReview
	body, err := TaskPatch{Status: &status}.Body()
	require.NoError(t, err)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "Code Review"}`, string(raw))
}

func TestTaskPatch_Body_NormalizesAndTrims(t *testing.T) {
	name := "  New name "
	assignee := "   "
	start := ""
	end := "2025-02-01"
	desc := "  some notes "
	body, err := TaskPatch{
		TaskName:    &name,
		AssignedTo:  &assignee,
		StartDate:   &start,
		EndDate:     &end,
		Description: &desc,
	}.Body()
	require.NoError(t, err)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"task_name": "New name",
		"assigned_to": null,
		"start_date": null,
		"end_date": "2025-02-01",
		"description": "some notes"
	}`, string(raw))
}

func TestTaskPatch_Body_Errors(t *testing.T) {
	empty := " "
	badStatus := Status("Done")
	badDate := "tomorrow"

	_, err := TaskPatch{}.Body()
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	_, err = TaskPatch{TaskName: &empty}.Body()
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = TaskPatch{Status: &badStatus}.Body()
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = TaskPatch{EndDate: &badDate}.Body()
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestPatchFromTask_SeedsDefaults(t *testing.T) {
	p := PatchFromTask(&Task{ID: 3, TaskName: "Plain"})

	require.NotNil(t, p.Status)
	require.NotNil(t, p.Priority)
	assert.Equal(t, StatusConsidered, *p.Status)
	assert.Equal(t, PriorityMedium, *p.Priority)
	assert.Equal(t, "", *p.AssignedTo)
	assert.Equal(t, "", *p.StartDate)
	assert.Nil(t, p.Description)
}

func TestPatchFromTask_CopiesFields(t *testing.T) {
	task := &Task{
		ID:         7,
		TaskName:   "Fix login",
		Status:     StatusUnderDevelopment,
		Priority:   PriorityHigh,
		AssignedTo: strPtr("bob"),
		StartDate:  datePtr("2025-01-01"),
		EndDate:    datePtr("2025-01-31"),
	}
	p := PatchFromTask(task)

	assert.Equal(t, "Fix login", *p.TaskName)
	assert.Equal(t, StatusUnderDevelopment, *p.Status)
	assert.Equal(t, PriorityHigh, *p.Priority)
	assert.Equal(t, "bob", *p.AssignedTo)
	assert.Equal(t, "2025-01-01", *p.StartDate)
	assert.Equal(t, "2025-01-31", *p.EndDate)

	*p.TaskName = "changed"
	assert.Equal(t, "Fix login", task.TaskName, "seeding must copy, not alias")
}

func TestParseTaskDrafts(t *testing.T) {
	content := `task_name: Write docs
priority: High
---
task_name: Review release
status: Code Review
assigned_to: alice
end_date: "2025-01-20"
---
`
	drafts, err := ParseTaskDrafts(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Write docs", drafts[0].TaskName)
	assert.Equal(t, PriorityHigh, drafts[0].Priority)
	assert.Equal(t, StatusCodeReview, drafts[1].Status)
	assert.Equal(t, "alice", drafts[1].AssignedTo)
	assert.Equal(t, "2025-01-20", drafts[1].EndDate)
}

func TestParseTaskDrafts_Empty(t *testing.T) {
	_, err := ParseTaskDrafts(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoTasksInFile)

	_, err = ParseTaskDrafts(strings.NewReader("---\n---\n"))
	assert.ErrorIs(t, err, ErrNoTasksInFile)
}

func TestParseTaskDrafts_InvalidYAML(t *testing.T) {
	_, err := ParseTaskDrafts(strings.NewReader("task_name: [unterminated"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "task 1")
}
