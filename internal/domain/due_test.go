package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeDue(t *testing.T) {
	today := *datePtr("2025-01-10")
	tests := []struct {
		due      *Date
		name     string
		wantText string
		wantTone DueTone
	}{
		{name: "no date", due: nil, wantText: "No due date", wantTone: DueToneNone},
		{name: "today", due: datePtr("2025-01-10"), wantText: "Due today", wantTone: DueToneSoon},
		{name: "in three days", due: datePtr("2025-01-13"), wantText: "Due in 3d", wantTone: DueToneSoon},
		{name: "in four days", due: datePtr("2025-01-14"), wantText: "Due in 4d", wantTone: DueToneNone},
		{name: "overdue", due: datePtr("2025-01-08"), wantText: "2d overdue", wantTone: DueToneOverdue},
		{name: "across month end", due: datePtr("2025-02-01"), wantText: "Due in 22d", wantTone: DueToneNone},
		{name: "centuries ahead", due: datePtr("2500-01-10"), wantText: "Due in 173490d", wantTone: DueToneNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantText, DescribeDue(tt.due, today))
			assert.Equal(t, tt.wantTone, ToneFor(tt.due, today))
		})
	}
}

func TestDate_DaysUntil(t *testing.T) {
	from := *datePtr("2026-10-18")
	assert.Equal(t, 172835, from.DaysUntil(*datePtr("2500-01-01")))
	assert.Equal(t, -172835, datePtr("2500-01-01").DaysUntil(from))
	assert.Equal(t, 0, from.DaysUntil(from))
}
