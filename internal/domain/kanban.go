package domain

// KanbanColumn is one status lane of the board.
type KanbanColumn struct {
	Status Status
	Tasks  []*Task
}

// GroupByStatus splits tasks into one column per status in workflow order.
// Tasks keep their input order within a column. Tasks with an unknown status are left out.
func GroupByStatus(tasks []*Task) []KanbanColumn {
	statuses := AllStatuses()
	cols := make([]KanbanColumn, len(statuses))
	for i, s := range statuses {
		cols[i] = KanbanColumn{Status: s, Tasks: []*Task{}}
	}
	for _, t := range tasks {
		if i := t.Status.Index(); i >= 0 {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}
