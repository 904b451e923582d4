package domain

import "slices"

// UpcomingLimit caps the number of upcoming deadlines reported.
const UpcomingLimit = 4

// Aggregates are summary figures over the whole task collection.
type Aggregates struct {
	Mine      []*Task // Tasks assigned to the viewer
	Upcoming  []*Task // Tasks with an end date, soonest first
	Total     int
	Active    int
	Completed int
	Urgent    int
}

// DeriveAggregates computes summary figures. viewer is the signed-in
// username; when empty, Mine is empty.
func DeriveAggregates(tasks []*Task, viewer string) Aggregates {
	agg := Aggregates{
		Total:    len(tasks),
		Mine:     []*Task{},
		Upcoming: []*Task{},
	}
	for _, t := range tasks {
		if t.Status.IsActive() {
			agg.Active++
		}
		if t.Status.IsCompleted() {
			agg.Completed++
		}
		if t.EffectivePriority() == PriorityUrgent {
			agg.Urgent++
		}
		if t.IsAssignedTo(viewer) {
			agg.Mine = append(agg.Mine, t)
		}
		if t.EndDate != nil {
			agg.Upcoming = append(agg.Upcoming, t)
		}
	}
	slices.SortStableFunc(agg.Upcoming, func(a, b *Task) int {
		return a.EndDate.Time().Compare(b.EndDate.Time())
	})
	if len(agg.Upcoming) > UpcomingLimit {
		agg.Upcoming = agg.Upcoming[:UpcomingLimit]
	}
	return agg
}
