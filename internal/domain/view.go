package domain

import (
	"slices"
	"strings"
)

// SortKey selects the ordering of a derived view.
type SortKey string

const (
	SortNewest   SortKey = "newest"   // Most recent first (default)
	SortOldest   SortKey = "oldest"   // Oldest first
	SortPriority SortKey = "priority" // Urgent first
)

// AllSortKeys returns the sort keys in cycling order.
func AllSortKeys() []SortKey {
	return []SortKey{SortNewest, SortOldest, SortPriority}
}

// Next returns the following sort key, wrapping around.
func (k SortKey) Next() SortKey {
	keys := AllSortKeys()
	for i, cur := range keys {
		if cur == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return SortNewest
}

// ParseSortKey resolves user input to a SortKey. Empty input means SortNewest.
func ParseSortKey(input string) (SortKey, error) {
	norm := SortKey(strings.ToLower(strings.TrimSpace(input)))
	if norm == "" {
		return SortNewest, nil
	}
	for _, k := range AllSortKeys() {
		if k == norm {
			return k, nil
		}
	}
	return "", ErrInvalidSortKey
}

// ViewOptions controls filtering and ordering of a derived view.
type ViewOptions struct {
	PriorityFilter PriorityFilter
	Query          string
	SortKey        SortKey
}

// DeriveView filters and sorts tasks without touching the input.
// Filtering is by priority (absent counts as Medium), then by a
// case-insensitive substring of the trimmed query against name, assignee and status.
// Sorting is stable, so ties keep their input order.
func DeriveView(tasks []*Task, opts ViewOptions) []*Task {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !opts.PriorityFilter.Matches(t.Priority) {
			continue
		}
		if query != "" && !strings.Contains(t.SearchText(), query) {
			continue
		}
		out = append(out, t)
	}

	switch opts.SortKey {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b *Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	case SortOldest:
		slices.SortStableFunc(out, func(a, b *Task) int {
			return a.SortTime().Compare(b.SortTime())
		})
	default:
		slices.SortStableFunc(out, func(a, b *Task) int {
			return b.SortTime().Compare(a.SortTime())
		})
	}
	return out
}
