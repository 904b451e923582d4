package domain

import (
	"errors"
	"strings"
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyTitle       = errors.New("task name cannot be empty")
	ErrEmptyComment     = errors.New("comment cannot be empty")
	ErrEmptyUsername    = errors.New("enter a username")
	ErrNoFile           = errors.New("no file selected")
	ErrInvalidDate      = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidAuthMode  = errors.New("invalid auth mode")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNoTasksInFile    = errors.New("no tasks found in file")
	ErrNotLoggedIn      = errors.New("not logged in (run 'taskboard login' first)")
	ErrSessionExpired   = errors.New("session expired, please log in again")
	ErrNoAccessToken    = errors.New("no access token received")
	ErrLoginFailed      = errors.New("login failed")
	ErrUserInfo         = errors.New("failed to load user info")
	ErrNotEditing       = errors.New("no task is being edited")
	ErrConfigExists     = errors.New("config file already exists")
	ErrUnexpectedRecord = errors.New("server returned an unexpected task record")
)

// DisplayMessage returns the text shown to the user for err.
// The fallback is used when err carries no message of its own.
func DisplayMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallback
	}
	return msg
}
