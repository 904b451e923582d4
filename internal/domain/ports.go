package domain

import (
	"context"
	"io"
	"sync"
	"time"
)

// TaskAPI is the remote task resource. Each call issues exactly one request.
type TaskAPI interface {
	// ListTasks fetches the full task collection.
	ListTasks(ctx context.Context) ([]*Task, error)

	// GetTask fetches one task.
	GetTask(ctx context.Context, id int) (*Task, error)

	// CreateTask creates a task and returns the canonical record.
	CreateTask(ctx context.Context, body CreateTaskBody) (*Task, error)

	// UpdateTask applies a partial update and returns the canonical record.
	UpdateTask(ctx context.Context, id int, body PatchBody) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int) error
}

// DetailAPI serves attachments and comments of a single task.
type DetailAPI interface {
	ListAttachments(ctx context.Context, taskID int) ([]Attachment, error)
	UploadAttachment(ctx context.Context, taskID int, filename string, content io.Reader) (*Attachment, error)
	DownloadAttachment(ctx context.Context, attachmentID int) (*Download, error)
	ListComments(ctx context.Context, taskID int) ([]Comment, error)
	AddComment(ctx context.Context, taskID int, body NewCommentBody) (*Comment, error)
}

// Download is an attachment body being streamed from the API.
// The caller must close Body.
type Download struct {
	Body     io.ReadCloser
	Filename string
}

// AuthAPI is the identity provider.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Me returns the user the token belongs to.
	Me(ctx context.Context, token string) (*User, error)
}

// TaskCache is the local task collection that use cases keep in step with the server.
type TaskCache interface {
	// Reconcile replaces a cached record with the server's canonical one.
	Reconcile(task *Task)

	// Reset drops all cached state.
	Reset()
}

// SessionStore persists the session between runs.
type SessionStore interface {
	// Load returns the persisted session, or nil if there is none.
	Load() (*Session, error)

	// Save persists the session.
	Save(session *Session) error

	// Clear removes the persisted session.
	Clear() error
}

// TokenProvider supplies the current bearer token ("" when signed out).
type TokenProvider interface {
	Token() string
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// ConfigLoader loads configuration.
type ConfigLoader interface {
	// Load returns the merged configuration.
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetConfigInfo returns information about the config files.
	GetConfigInfo() ConfigInfo

	// InitGlobalConfig creates the global config file with a template.
	InitGlobalConfig() error
}

// ConfigInfo describes where configuration is read from.
type ConfigInfo struct {
	GlobalPath   string
	RepoPath     string
	EnvFile      string
	GlobalExists bool
	RepoExists   bool
	EnvExists    bool
}

// Logger writes operation logs. taskID 0 means a global entry.
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards all entries.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// SessionState is the in-memory session shared by the API client and use cases.
// It is an explicit object, not a global: whoever holds it decides who is signed in.
type SessionState struct {
	session *Session
	mu      sync.RWMutex
}

// NewSessionState creates a SessionState holding s (which may be nil).
func NewSessionState(s *Session) *SessionState {
	return &SessionState{session: s}
}

// Current returns a copy of the session, or nil when signed out.
func (st *SessionState) Current() *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.session == nil {
		return nil
	}
	s := *st.session
	return &s
}

// Set replaces the session. nil signs out.
func (st *SessionState) Set(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session = s
}

// Token returns the bearer token, or "" when signed out.
func (st *SessionState) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.session == nil {
		return ""
	}
	return st.session.Token
}

// Username returns the signed-in username, or "".
func (st *SessionState) Username() string {
	return st.Current().Username()
}
