// Package store holds the client-side task list: the authoritative in-memory
// copy of the server's task collection, mutated only through the remote API.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/taskboard/internal/domain"
)

// Fallback messages used when a failure carries no text of its own.
const (
	msgLoadFailed   = "Failed to load tasks"
	msgCreateFailed = "Failed to create task"
	msgUpdateFailed = "Failed to update task"
	msgDeleteFailed = "Failed to delete task"
)

const logCategory = "store"

// editSession is the in-progress edit of a single task.
type editSession struct {
	draft domain.TaskPatch
	id    int
}

// Store is the task list state machine.
// State is guarded by mu, which is never held across a network call;
// overlapping operations resolve last-writer-wins.
// Fields are ordered to minimize memory padding.
type Store struct {
	api     domain.TaskAPI
	confirm domain.Confirmer
	logger  domain.Logger
	edit    *editSession
	subs    map[int]func()
	errMsg  string
	tasks   []*domain.Task
	nextSub int
	mu      sync.RWMutex
}

// New creates an empty Store. confirm gates Remove; logger may be nil.
func New(api domain.TaskAPI, confirm domain.Confirmer, logger domain.Logger) *Store {
	if confirm == nil {
		confirm = domain.AlwaysConfirm
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{
		api:     api,
		confirm: confirm,
		logger:  logger,
		tasks:   []*domain.Task{},
		subs:    make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify runs subscribers outside the lock.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Tasks returns a copy of the current collection in store order.
func (s *Store) Tasks() []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneTasks(s.tasks)
}

// Task returns a copy of the task with id, or nil.
func (s *Store) Task(id int) *domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone()
	}
	return nil
}

// Err returns the displayable message of the last failure, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// ClearErr dismisses the current error message.
func (s *Store) ClearErr() {
	s.mu.Lock()
	changed := s.errMsg != ""
	s.errMsg = ""
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// View returns the derived view of the current collection.
func (s *Store) View(opts domain.ViewOptions) []*domain.Task {
	return domain.DeriveView(s.Tasks(), opts)
}

// Aggregates returns summary figures for viewer.
func (s *Store) Aggregates(viewer string) domain.Aggregates {
	return domain.DeriveAggregates(s.Tasks(), viewer)
}

// Kanban returns the collection grouped by status.
func (s *Store) Kanban() []domain.KanbanColumn {
	return domain.GroupByStatus(s.Tasks())
}

// Reset clears tasks, error and edit session.
func (s *Store) Reset() {
	s.mu.Lock()
	s.tasks = []*domain.Task{}
	s.errMsg = ""
	s.edit = nil
	s.mu.Unlock()
	s.notify()
}

// Load replaces the collection with the server's list.
// On failure the previous collection is kept and the error is recorded.
func (s *Store) Load(ctx context.Context) error {
	s.beginOperation()

	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		s.fail(0, err, msgLoadFailed)
		return fmt.Errorf("load tasks: %w", err)
	}

	loaded := domain.DedupByID(domain.CloneTasks(tasks))
	s.mu.Lock()
	s.tasks = loaded
	s.mu.Unlock()

	s.logger.Debug(0, logCategory, fmt.Sprintf("loaded %d tasks", len(loaded)))
	s.notify()
	return nil
}

// Create validates draft, posts it and prepends the canonical record.
// A local validation failure issues no request.
func (s *Store) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	s.beginOperation()

	body, err := draft.Body()
	if err != nil {
		s.fail(0, err, msgCreateFailed)
		return nil, err
	}

	created, err := s.api.CreateTask(ctx, body)
	if err != nil {
		s.fail(0, err, msgCreateFailed)
		return nil, fmt.Errorf("create task: %w", err)
	}
	if created == nil || created.ID == 0 {
		s.fail(0, domain.ErrUnexpectedRecord, msgCreateFailed)
		return nil, fmt.Errorf("create task: %w", domain.ErrUnexpectedRecord)
	}

	s.mu.Lock()
	if i := s.indexOf(created.ID); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.tasks = slices.Insert(s.tasks, 0, created.Clone())
	s.mu.Unlock()

	s.logger.Info(created.ID, logCategory, fmt.Sprintf("task created: %q", created.TaskName))
	s.notify()
	return created.Clone(), nil
}

// Update sends patch and replaces the local record with the canonical one.
// Nothing is applied locally before the server confirms. On success an
// edit session on id is closed.
func (s *Store) Update(ctx context.Context, id int, patch domain.TaskPatch) (*domain.Task, error) {
	s.beginOperation()

	body, err := patch.Body()
	if err != nil {
		s.fail(id, err, msgUpdateFailed)
		return nil, err
	}

	updated, err := s.api.UpdateTask(ctx, id, body)
	if err != nil {
		s.fail(id, err, msgUpdateFailed)
		return nil, fmt.Errorf("update task #%d: %w", id, err)
	}
	if updated == nil || updated.ID != id {
		s.fail(id, domain.ErrUnexpectedRecord, msgUpdateFailed)
		return nil, fmt.Errorf("update task #%d: %w", id, domain.ErrUnexpectedRecord)
	}

	s.mu.Lock()
	s.replaceLocked(updated)
	if s.edit != nil && s.edit.id == id {
		s.edit = nil
	}
	s.mu.Unlock()

	s.logger.Info(id, logCategory, "task updated")
	s.notify()
	return updated.Clone(), nil
}

// Reconcile replaces a local record with a canonical record obtained elsewhere
// (for example a description save on the detail page). Unknown ids are ignored.
func (s *Store) Reconcile(task *domain.Task) {
	if task == nil {
		return
	}
	s.mu.Lock()
	i := s.indexOf(task.ID)
	if i >= 0 {
		s.tasks[i] = task.Clone()
	}
	s.mu.Unlock()
	if i >= 0 {
		s.notify()
	}
}

// Remove deletes the task after confirmation.
// It returns false without issuing a request when the user declines.
func (s *Store) Remove(ctx context.Context, id int) (bool, error) {
	if !s.confirm.Confirm(fmt.Sprintf("Delete task #%d?", id)) {
		return false, nil
	}
	s.beginOperation()

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.fail(id, err, msgDeleteFailed)
		return false, fmt.Errorf("delete task #%d: %w", id, err)
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	if s.edit != nil && s.edit.id == id {
		s.edit = nil
	}
	s.mu.Unlock()

	s.logger.Info(id, logCategory, "task deleted")
	s.notify()
	return true, nil
}

// StartEdit opens an edit session on task, replacing any previous one.
func (s *Store) StartEdit(task *domain.Task) {
	s.mu.Lock()
	s.edit = &editSession{id: task.ID, draft: domain.PatchFromTask(task)}
	s.mu.Unlock()
	s.notify()
}

// Editing returns the id under edit and whether a session is open.
func (s *Store) Editing() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.edit == nil {
		return 0, false
	}
	return s.edit.id, true
}

// EditDraft returns the scratch values of the open edit session.
func (s *Store) EditDraft() (domain.TaskPatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.edit == nil {
		return domain.TaskPatch{}, false
	}
	return s.edit.draft, true
}

// SetEditDraft replaces the scratch values of the open edit session.
func (s *Store) SetEditDraft(draft domain.TaskPatch) error {
	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return domain.ErrNotEditing
	}
	s.edit.draft = draft
	s.mu.Unlock()
	s.notify()
	return nil
}

// CancelEdit discards the edit session without a request.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	had := s.edit != nil
	s.edit = nil
	s.mu.Unlock()
	if had {
		s.notify()
	}
}

// SaveEdit submits the open edit session through Update.
func (s *Store) SaveEdit(ctx context.Context) (*domain.Task, error) {
	s.mu.RLock()
	edit := s.edit
	s.mu.RUnlock()
	if edit == nil {
		return nil, domain.ErrNotEditing
	}
	return s.Update(ctx, edit.id, edit.draft)
}

// beginOperation clears the previous error, as every operation starts fresh.
func (s *Store) beginOperation() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// fail records err as the displayable error and logs it.
func (s *Store) fail(taskID int, err error, fallback string) {
	msg := domain.DisplayMessage(err, fallback)
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.logger.Warn(taskID, logCategory, fallback+": "+msg)
	s.notify()
}

func (s *Store) replaceLocked(task *domain.Task) {
	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task.Clone()
	}
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t *domain.Task) bool { return t.ID == id })
}
