package domain

import "strings"

// Priority represents task urgency.
// An empty Priority means the server did not send one and is treated as Medium.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// DefaultPriority is used when a task has no priority.
const DefaultPriority = PriorityMedium

// unknownPriorityRank sorts unrecognized priorities after all known ones.
const unknownPriorityRank = 99

// AllPriorities returns all valid priorities from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Normalize returns the effective priority: Medium when absent.
func (p Priority) Normalize() Priority {
	if p == "" {
		return DefaultPriority
	}
	return p
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the sort rank of the priority: Urgent 0, High 1, Medium 2, Low 3.
// Absent priorities rank as Medium; unknown values rank 99.
func (p Priority) Rank() int {
	switch p.Normalize() {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return unknownPriorityRank
	}
}

// ParsePriority resolves user input to a Priority (case-insensitive).
func ParsePriority(input string) (Priority, error) {
	norm := strings.ToLower(strings.TrimSpace(input))
	for _, p := range AllPriorities() {
		if strings.ToLower(string(p)) == norm {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// PriorityFilter selects tasks by priority. FilterAll passes every task.
type PriorityFilter string

// FilterAll disables priority filtering.
const FilterAll PriorityFilter = "All"

// PriorityFilters returns the filter options in display order.
func PriorityFilters() []PriorityFilter {
	return []PriorityFilter{
		FilterAll,
		PriorityFilter(PriorityLow),
		PriorityFilter(PriorityMedium),
		PriorityFilter(PriorityHigh),
		PriorityFilter(PriorityUrgent),
	}
}

// Matches reports whether a task with priority p passes the filter.
func (f PriorityFilter) Matches(p Priority) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return Priority(f) == p.Normalize()
}

// Next returns the following filter option, wrapping around.
func (f PriorityFilter) Next() PriorityFilter {
	filters := PriorityFilters()
	for i, cur := range filters {
		if cur == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

// ParsePriorityFilter resolves user input to a filter. Empty input means FilterAll.
func ParsePriorityFilter(input string) (PriorityFilter, error) {
	norm := strings.TrimSpace(input)
	if norm == "" || strings.EqualFold(norm, string(FilterAll)) {
		return FilterAll, nil
	}
	p, err := ParsePriority(norm)
	if err != nil {
		return "", err
	}
	return PriorityFilter(p), nil
}
