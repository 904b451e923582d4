package tui

import "github.com/runoshun/taskboard/internal/domain"

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the collection has been fetched.
type MsgTasksLoaded struct{}

func (MsgTasksLoaded) sealed() {}

// MsgStoreChanged is sent when the task store notifies a state change.
type MsgStoreChanged struct{}

func (MsgStoreChanged) sealed() {}

// MsgLoggedIn is sent after a successful sign-in.
type MsgLoggedIn struct {
	Session *domain.Session
}

func (MsgLoggedIn) sealed() {}

// MsgLoggedOut is sent after the session has been cleared.
type MsgLoggedOut struct {
	Username string
}

func (MsgLoggedOut) sealed() {}

// MsgTaskCreated is sent when a new task is created.
type MsgTaskCreated struct {
	Task *domain.Task
}

func (MsgTaskCreated) sealed() {}

// MsgTaskUpdated is sent when an edit has been saved.
type MsgTaskUpdated struct {
	Task *domain.Task
}

func (MsgTaskUpdated) sealed() {}

// MsgTaskDeleted is sent when a task is deleted.
type MsgTaskDeleted struct {
	TaskID int
}

func (MsgTaskDeleted) sealed() {}

// MsgDetailLoaded is sent when a detail page has been fetched.
type MsgDetailLoaded struct {
	Warnings []string
	Detail   domain.TaskDetail
}

func (MsgDetailLoaded) sealed() {}

// MsgDescriptionSaved is sent when the description of the open task is saved.
type MsgDescriptionSaved struct {
	Task *domain.Task
}

func (MsgDescriptionSaved) sealed() {}

// MsgCommentAdded is sent with the refreshed comments after posting one.
type MsgCommentAdded struct {
	Comments []domain.Comment
	TaskID   int
}

func (MsgCommentAdded) sealed() {}

// MsgAttachmentUploaded is sent with the refreshed attachments after an upload.
type MsgAttachmentUploaded struct {
	Attachments []domain.Attachment
	TaskID      int
}

func (MsgAttachmentUploaded) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgClearError is sent to clear the current error message.
type MsgClearError struct{}

func (MsgClearError) sealed() {}
