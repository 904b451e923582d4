package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTasks() []*Task {
	return []*Task{
		{ID: 1, TaskName: "Write docs", Status: StatusConsidered, Priority: PriorityLow, CreatedAt: tsPtr("2025-01-01T10:00:00Z")},
		{ID: 2, TaskName: "Fix login", Status: StatusCodeReview, Priority: PriorityUrgent, AssignedTo: strPtr("Alice"), CreatedAt: tsPtr("2025-01-03T10:00:00Z")},
		{ID: 3, TaskName: "Refactor API", Status: StatusUnderDevelopment, Priority: "", CreatedAt: tsPtr("2025-01-02T10:00:00Z")},
		{ID: 4, TaskName: "Release", Status: StatusDevelopmentCompleted, Priority: PriorityHigh, EndDate: datePtr("2025-01-05")},
		{ID: 5, TaskName: "Odd one", Status: StatusInvestigation, Priority: "Critical", StartDate: datePtr("2024-12-01")},
	}
}

func TestDeriveView_IsPure(t *testing.T) {
	tasks := sampleTasks()
	before := CloneTasks(tasks)
	opts := ViewOptions{PriorityFilter: FilterAll, Query: "", SortKey: SortPriority}

	first := DeriveView(tasks, opts)
	second := DeriveView(tasks, opts)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, before, tasks, "input must not be mutated")
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(tasks), "input order must be preserved")
}

func TestDeriveView_FilterAllPassesEverything(t *testing.T) {
	tasks := sampleTasks()
	got := DeriveView(tasks, ViewOptions{PriorityFilter: FilterAll})
	assert.Len(t, got, len(tasks))
}

func TestDeriveView_PriorityFilter(t *testing.T) {
	tests := []struct {
		filter PriorityFilter
		want   []int
	}{
		{PriorityFilter(PriorityMedium), []int{3}}, // absent priority counts as Medium
		{PriorityFilter(PriorityUrgent), []int{2}},
		{PriorityFilter(PriorityLow), []int{1}},
		{PriorityFilter(PriorityHigh), []int{4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := DeriveView(sampleTasks(), ViewOptions{PriorityFilter: tt.filter})
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestDeriveView_Query(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"matches name case-insensitively", "LOGIN", []int{2}},
		{"matches assignee", "alice", []int{2}},
		{"matches status", "code review", []int{2}},
		{"trims the query", "  refactor  ", []int{3}},
		{"blank query matches all", "   ", []int{1, 2, 3, 4, 5}},
		{"no match", "zzz", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveView(sampleTasks(), ViewOptions{Query: tt.query})
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestDeriveView_SortPriority(t *testing.T) {
	got := DeriveView(sampleTasks(), ViewOptions{SortKey: SortPriority})
	// Urgent, High, Medium (absent), Low, unknown
	assert.Equal(t, []int{2, 4, 3, 1, 5}, ids(got))
}

func TestDeriveView_SortPriorityIsStable(t *testing.T) {
	tasks := []*Task{
		{ID: 10, Priority: PriorityHigh},
		{ID: 11, Priority: PriorityUrgent},
		{ID: 12, Priority: PriorityHigh},
	}
	got := DeriveView(tasks, ViewOptions{SortKey: SortPriority})
	assert.Equal(t, []int{11, 10, 12}, ids(got))
}

func TestDeriveView_SortByDate(t *testing.T) {
	// Keys: 1=2025-01-01, 2=2025-01-03, 3=2025-01-02, 4=end 2025-01-05, 5=start 2024-12-01
	newest := DeriveView(sampleTasks(), ViewOptions{SortKey: SortNewest})
	assert.Equal(t, []int{4, 2, 3, 1, 5}, ids(newest))

	oldest := DeriveView(sampleTasks(), ViewOptions{SortKey: SortOldest})
	assert.Equal(t, []int{5, 1, 3, 2, 4}, ids(oldest))
}

func TestDeriveView_DefaultSortIsNewest(t *testing.T) {
	got := DeriveView(sampleTasks(), ViewOptions{})
	assert.Equal(t, []int{4, 2, 3, 1, 5}, ids(got))
}

func TestDeriveView_NoDatesSortAtEpoch(t *testing.T) {
	tasks := []*Task{
		{ID: 1},
		{ID: 2, StartDate: datePtr("2020-01-01")},
	}
	got := DeriveView(tasks, ViewOptions{SortKey: SortOldest})
	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestSortKey_NextAndParse(t *testing.T) {
	assert.Equal(t, SortOldest, SortNewest.Next())
	assert.Equal(t, SortPriority, SortOldest.Next())
	assert.Equal(t, SortNewest, SortPriority.Next())
	assert.Equal(t, SortNewest, SortKey("bogus").Next())

	k, err := ParseSortKey(" Priority ")
	assert.NoError(t, err)
	assert.Equal(t, SortPriority, k)

	k, err = ParseSortKey("")
	assert.NoError(t, err)
	assert.Equal(t, SortNewest, k)

	_, err = ParseSortKey("alphabetical")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}
