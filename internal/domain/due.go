package domain

import "fmt"

// DueTone classifies how close a deadline is.
type DueTone string

const (
	DueToneNone    DueTone = ""
	DueToneSoon    DueTone = "soon"    // Due within 3 days
	DueToneOverdue DueTone = "overdue" // Past due
)

// dueSoonDays is the horizon for DueToneSoon.
const dueSoonDays = 3

// DescribeDue renders a deadline relative to today.
func DescribeDue(due *Date, today Date) string {
	if due == nil {
		return "No due date"
	}
	days := today.DaysUntil(*due)
	switch {
	case days == 0:
		return "Due today"
	case days > 0:
		return fmt.Sprintf("Due in %dd", days)
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}

// ToneFor classifies a deadline relative to today.
func ToneFor(due *Date, today Date) DueTone {
	if due == nil {
		return DueToneNone
	}
	days := today.DaysUntil(*due)
	switch {
	case days < 0:
		return DueToneOverdue
	case days <= dueSoonDays:
		return DueToneSoon
	default:
		return DueToneNone
	}
}
