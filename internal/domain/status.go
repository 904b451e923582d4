package domain

import "strings"

// Status represents the workflow stage of a task.
// The API accepts any value from AllStatuses; there is no enforced transition order.
type Status string

const (
	StatusConsidered           Status = "Considered"
	StatusInvestigation        Status = "Investigation"
	StatusReadyToDevelopment   Status = "Ready To Development"
	StatusUnderDevelopment     Status = "Under Development"
	StatusCodeReview           Status = "Code Review"
	StatusDevelopmentCompleted Status = "Development Completed"
)

// DefaultStatus is used when a new task does not name a status.
const DefaultStatus = StatusConsidered

// AllStatuses returns all valid status values in workflow order.
func AllStatuses() []Status {
	return []Status{
		StatusConsidered,
		StatusInvestigation,
		StatusReadyToDevelopment,
		StatusUnderDevelopment,
		StatusCodeReview,
		StatusDevelopmentCompleted,
	}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusConsidered, StatusInvestigation, StatusReadyToDevelopment,
		StatusUnderDevelopment, StatusCodeReview, StatusDevelopmentCompleted:
		return true
	}
	return false
}

// IsActive returns true for the statuses counted as work in flight.
func (s Status) IsActive() bool {
	switch s {
	case StatusInvestigation, StatusReadyToDevelopment, StatusUnderDevelopment, StatusCodeReview:
		return true
	case StatusConsidered, StatusDevelopmentCompleted:
		return false
	}
	return false
}

// IsCompleted returns true if the task has finished development.
func (s Status) IsCompleted() bool {
	return s == StatusDevelopmentCompleted
}

// Index returns the position of the status in workflow order, or -1 if unknown.
func (s Status) Index() int {
	for i, st := range AllStatuses() {
		if st == s {
			return i
		}
	}
	return -1
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	if s == "" {
		return "-"
	}
	return string(s)
}

// Short returns a compact label used in narrow columns.
func (s Status) Short() string {
	switch s {
	case StatusConsidered:
		return "CONS"
	case StatusInvestigation:
		return "INV"
	case StatusReadyToDevelopment:
		return "READY"
	case StatusUnderDevelopment:
		return "DEV"
	case StatusCodeReview:
		return "REVIEW"
	case StatusDevelopmentCompleted:
		return "DONE"
	default:
		return string(s)
	}
}

// ParseStatus resolves user input to a Status.
// Matching is case-insensitive and accepts the full name, the short label,
// or a snake/kebab-case form ("code_review", "code-review").
func ParseStatus(input string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(input))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	if norm == "" {
		return "", ErrInvalidStatus
	}
	for _, s := range AllStatuses() {
		if strings.ToLower(string(s)) == norm || strings.ToLower(s.Short()) == norm {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}
