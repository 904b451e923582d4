// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskAPI is a test double for domain.TaskAPI.
// Tasks is the server-side collection; the *Err fields inject failures.
// Fields are ordered to minimize memory padding.
type MockTaskAPI struct {
	ListErr     error
	GetErr      error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	Calls       map[string]int
	Tasks       []*domain.Task
	LastCreate  *domain.CreateTaskBody
	LastPatch   domain.PatchBody
	NextIDN     int
	LastPatchID int
	mu          sync.Mutex
}

// NewMockTaskAPI creates a MockTaskAPI seeded with tasks.
func NewMockTaskAPI(tasks ...*domain.Task) *MockTaskAPI {
	next := 1
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return &MockTaskAPI{
		Tasks:   tasks,
		Calls:   make(map[string]int),
		NextIDN: next,
	}
}

// CallCount returns how many times method was called.
func (m *MockTaskAPI) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (m *MockTaskAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		n += c
	}
	return n
}

func (m *MockTaskAPI) record(method string) {
	m.Calls[method]++
}

// ListTasks returns copies of the server collection.
func (m *MockTaskAPI) ListTasks(_ context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListTasks")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return domain.CloneTasks(m.Tasks), nil
}

// GetTask returns a copy of one task.
func (m *MockTaskAPI) GetTask(_ context.Context, id int) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetTask")
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, t := range m.Tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// CreateTask assigns the next id and stores the task.
func (m *MockTaskAPI) CreateTask(_ context.Context, body domain.CreateTaskBody) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateTask")
	m.LastCreate = &body
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	task := &domain.Task{
		ID:         m.NextIDN,
		TaskName:   body.TaskName,
		Status:     body.Status,
		Priority:   body.Priority,
		AssignedTo: body.AssignedTo,
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
	}
	m.NextIDN++
	m.Tasks = append(m.Tasks, task)
	return task.Clone(), nil
}

// UpdateTask applies the patch body to the stored task.
func (m *MockTaskAPI) UpdateTask(_ context.Context, id int, body domain.PatchBody) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateTask")
	m.LastPatchID = id
	m.LastPatch = body
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for _, t := range m.Tasks {
		if t.ID == id {
			applyPatch(t, body)
			return t.Clone(), nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// DeleteTask removes the stored task.
func (m *MockTaskAPI) DeleteTask(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteTask")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	i := slices.IndexFunc(m.Tasks, func(t *domain.Task) bool { return t.ID == id })
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	m.Tasks = slices.Delete(m.Tasks, i, i+1)
	return nil
}

func applyPatch(t *domain.Task, body domain.PatchBody) {
	for k, v := range body {
		switch k {
		case "task_name":
			t.TaskName, _ = v.(string)
		case "status":
			t.Status, _ = v.(domain.Status)
		case "priority":
			t.Priority, _ = v.(domain.Priority)
		case "assigned_to":
			t.AssignedTo, _ = v.(*string)
		case "start_date":
			t.StartDate, _ = v.(*domain.Date)
		case "end_date":
			t.EndDate, _ = v.(*domain.Date)
		case "description":
			t.Description, _ = v.(*string)
		}
	}
}

// MockDetailAPI is a test double for domain.DetailAPI.
// Fields are ordered to minimize memory padding.
type MockDetailAPI struct {
	ListAttachmentsErr error
	UploadErr          error
	DownloadErr        error
	ListCommentsErr    error
	AddCommentErr      error
	Attachments        map[int][]domain.Attachment
	Comments           map[int][]domain.Comment
	Files              map[int][]byte
	Uploaded           map[string][]byte
	LastComment        *domain.NewCommentBody
	nextID             int
	mu                 sync.Mutex
}

// NewMockDetailAPI creates a MockDetailAPI with initialized maps.
func NewMockDetailAPI() *MockDetailAPI {
	return &MockDetailAPI{
		Attachments: make(map[int][]domain.Attachment),
		Comments:    make(map[int][]domain.Comment),
		Files:       make(map[int][]byte),
		Uploaded:    make(map[string][]byte),
		nextID:      1,
	}
}

// ListAttachments returns the attachments of a task.
func (m *MockDetailAPI) ListAttachments(_ context.Context, taskID int) ([]domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListAttachmentsErr != nil {
		return nil, m.ListAttachmentsErr
	}
	return slices.Clone(m.Attachments[taskID]), nil
}

// UploadAttachment stores the content under a new attachment id.
func (m *MockDetailAPI) UploadAttachment(_ context.Context, taskID int, filename string, content io.Reader) (*domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	a := domain.Attachment{ID: m.nextID, Filename: filename}
	m.nextID++
	m.Attachments[taskID] = append(m.Attachments[taskID], a)
	m.Files[a.ID] = data
	m.Uploaded[filename] = data
	return &a, nil
}

// DownloadAttachment streams a stored file.
func (m *MockDetailAPI) DownloadAttachment(_ context.Context, attachmentID int) (*domain.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	data, ok := m.Files[attachmentID]
	if !ok {
		return nil, fmt.Errorf("attachment %d not found", attachmentID)
	}
	name := ""
	for _, list := range m.Attachments {
		for _, a := range list {
			if a.ID == attachmentID {
				name = a.Filename
			}
		}
	}
	return &domain.Download{Filename: name, Body: io.NopCloser(bytes.NewReader(data))}, nil
}

// ListComments returns the comments of a task.
func (m *MockDetailAPI) ListComments(_ context.Context, taskID int) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListCommentsErr != nil {
		return nil, m.ListCommentsErr
	}
	return slices.Clone(m.Comments[taskID]), nil
}

// AddComment appends a comment to a task.
func (m *MockDetailAPI) AddComment(_ context.Context, taskID int, body domain.NewCommentBody) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastComment = &body
	if m.AddCommentErr != nil {
		return nil, m.AddCommentErr
	}
	c := domain.Comment{ID: m.nextID, Author: body.Author, Text: body.Text}
	m.nextID++
	m.Comments[taskID] = append(m.Comments[taskID], c)
	return &c, nil
}

// MockAuthAPI is a test double for domain.AuthAPI.
// Fields are ordered to minimize memory padding.
type MockAuthAPI struct {
	LoginErr   error
	MeErr      error
	Users      map[string]string // token -> username
	Passwords  map[string]string // username -> password
	Role       string
	LoginCalls int
	MeCalls    int
}

// NewMockAuthAPI creates a MockAuthAPI that accepts the given username/password.
func NewMockAuthAPI(username, password string) *MockAuthAPI {
	return &MockAuthAPI{
		Users:     make(map[string]string),
		Passwords: map[string]string{username: password},
		Role:      "member",
	}
}

// Login returns a token "token-<username>" for known credentials.
func (m *MockAuthAPI) Login(_ context.Context, username, password string) (string, error) {
	m.LoginCalls++
	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	if pw, ok := m.Passwords[username]; !ok || pw != password {
		return "", fmt.Errorf("login failed")
	}
	token := "token-" + username
	m.Users[token] = username
	return token, nil
}

// Me resolves a token issued by Login.
func (m *MockAuthAPI) Me(_ context.Context, token string) (*domain.User, error) {
	m.MeCalls++
	if m.MeErr != nil {
		return nil, m.MeErr
	}
	name, ok := m.Users[token]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return &domain.User{Username: name, Role: m.Role}, nil
}

// MockSessionStore is a test double for domain.SessionStore.
type MockSessionStore struct {
	Session  *domain.Session
	LoadErr  error
	SaveErr  error
	ClearErr error
	Cleared  bool
}

// Load returns the stored session.
func (m *MockSessionStore) Load() (*domain.Session, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Session, nil
}

// Save stores the session.
func (m *MockSessionStore) Save(s *domain.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = s
	m.Cleared = false
	return nil
}

// Clear removes the stored session.
func (m *MockSessionStore) Clear() error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Session = nil
	m.Cleared = true
	return nil
}

// MockConfirmer is a test double for domain.Confirmer.
type MockConfirmer struct {
	Prompts []string
	Answer  bool
}

// Confirm records the prompt and returns Answer.
func (m *MockConfirmer) Confirm(prompt string) bool {
	m.Prompts = append(m.Prompts, prompt)
	return m.Answer
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level string, taskID int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID int, category, msg string) { m.add("INFO", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID int, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID int, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID int, category, msg string) { m.add("ERROR", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured Config or defaults.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal behaves like Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr   error
	Info      domain.ConfigInfo
	InitCalls int
}

// GetConfigInfo returns Info.
func (m *MockConfigManager) GetConfigInfo() domain.ConfigInfo {
	return m.Info
}

// InitGlobalConfig records the call and marks the global file as present.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitCalls++
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Info.GlobalExists = true
	return nil
}

// MockTaskCache is a test double for domain.TaskCache.
type MockTaskCache struct {
	Reconciled []*domain.Task
	Resets     int
}

// Reconcile records the task.
func (m *MockTaskCache) Reconcile(task *domain.Task) {
	m.Reconciled = append(m.Reconciled, task)
}

// Reset records the call.
func (m *MockTaskCache) Reset() {
	m.Resets++
}
