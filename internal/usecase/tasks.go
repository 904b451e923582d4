package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
)

// TaskBoard is the task list the task use cases operate on.
// It is implemented by *store.Store.
type TaskBoard interface {
	TaskCreator
	Load(ctx context.Context) error
	Tasks() []*domain.Task
	Update(ctx context.Context, id int, patch domain.TaskPatch) (*domain.Task, error)
	Remove(ctx context.Context, id int) (bool, error)
}

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Options domain.ViewOptions
	Mine    bool // Only tasks assigned to the signed-in user
}

// ListTasksOutput contains the derived view.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks loads the collection and derives a filtered, sorted view.
type ListTasks struct {
	board TaskBoard
	state *domain.SessionState
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(board TaskBoard, state *domain.SessionState) *ListTasks {
	return &ListTasks{board: board, state: state}
}

// Execute lists tasks.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	viewer := ""
	if in.Mine {
		viewer = uc.state.Username()
		if viewer == "" {
			return nil, domain.ErrNotLoggedIn
		}
	}
	if err := uc.board.Load(ctx); err != nil {
		return nil, err
	}

	tasks := domain.DeriveView(uc.board.Tasks(), in.Options)
	if in.Mine {
		mine := tasks[:0:0]
		for _, t := range tasks {
			if t.IsAssignedTo(viewer) {
				mine = append(mine, t)
			}
		}
		tasks = mine
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}

// SummaryInput contains no parameters.
type SummaryInput struct{}

// SummaryOutput contains the aggregates for the signed-in user.
type SummaryOutput struct {
	Viewer     string
	Aggregates domain.Aggregates
}

// Summary computes the dashboard figures.
type Summary struct {
	board TaskBoard
	state *domain.SessionState
}

// NewSummary creates a new Summary use case.
func NewSummary(board TaskBoard, state *domain.SessionState) *Summary {
	return &Summary{board: board, state: state}
}

// Execute loads the collection and aggregates it.
func (uc *Summary) Execute(ctx context.Context, _ SummaryInput) (*SummaryOutput, error) {
	if err := uc.board.Load(ctx); err != nil {
		return nil, err
	}
	viewer := uc.state.Username()
	return &SummaryOutput{
		Viewer:     viewer,
		Aggregates: domain.DeriveAggregates(uc.board.Tasks(), viewer),
	}, nil
}

// KanbanInput contains the view options applied before grouping.
type KanbanInput struct {
	Options domain.ViewOptions
}

// KanbanOutput contains one column per status.
type KanbanOutput struct {
	Columns []domain.KanbanColumn
}

// Kanban groups the filtered collection by status.
type Kanban struct {
	board TaskBoard
}

// NewKanban creates a new Kanban use case.
func NewKanban(board TaskBoard) *Kanban {
	return &Kanban{board: board}
}

// Execute loads and groups tasks.
func (uc *Kanban) Execute(ctx context.Context, in KanbanInput) (*KanbanOutput, error) {
	if err := uc.board.Load(ctx); err != nil {
		return nil, err
	}
	return &KanbanOutput{Columns: domain.GroupByStatus(domain.DeriveView(uc.board.Tasks(), in.Options))}, nil
}

// NewTaskInput contains the parameters for creating a task.
type NewTaskInput struct {
	Draft domain.TaskDraft
}

// NewTaskOutput contains the canonical created task.
type NewTaskOutput struct {
	Task *domain.Task
}

// NewTask creates one task.
type NewTask struct {
	board TaskBoard
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(board TaskBoard) *NewTask {
	return &NewTask{board: board}
}

// Execute creates the task.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	task, err := uc.board.Create(ctx, in.Draft)
	if err != nil {
		return nil, err
	}
	return &NewTaskOutput{Task: task}, nil
}

// EditTaskInput contains the parameters for editing a task.
type EditTaskInput struct {
	Patch  domain.TaskPatch
	TaskID int
}

// EditTaskOutput contains the canonical updated task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask applies a partial update.
type EditTask struct {
	board TaskBoard
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(board TaskBoard) *EditTask {
	return &EditTask{board: board}
}

// Execute updates the task. An empty patch fails with domain.ErrNoFieldsToUpdate.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	task, err := uc.board.Update(ctx, in.TaskID, in.Patch)
	if err != nil {
		return nil, err
	}
	return &EditTaskOutput{Task: task}, nil
}

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID int
}

// DeleteTaskOutput reports whether the task was deleted.
type DeleteTaskOutput struct {
	Deleted bool // False when the confirmation was declined
}

// DeleteTask removes a task after confirmation.
type DeleteTask struct {
	board TaskBoard
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(board TaskBoard) *DeleteTask {
	return &DeleteTask{board: board}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	deleted, err := uc.board.Remove(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &DeleteTaskOutput{Deleted: deleted}, nil
}
