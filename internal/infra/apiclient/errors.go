package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
)

// Kind classifies remote failures.
type Kind int

const (
	KindTransport Kind = iota + 1 // Request never got a response
	KindStatus                    // Response with a non-2xx status
	KindDecode                    // Response body could not be parsed
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a failed API call.
type Error struct {
	Err     error
	Message string
	Kind    Kind
	Status  int
}

// Error renders the message shown to the user.
// Status failures render as "HTTP <status>" with the server's detail appended when present.
func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("HTTP %d", e.Status)
	case KindDecode:
		return "invalid response: " + e.Message
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as domain.ErrTaskNotFound and 401 as domain.ErrNotLoggedIn.
func (e *Error) Is(target error) bool {
	if e.Kind != KindStatus {
		return false
	}
	switch target {
	case domain.ErrTaskNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrNotLoggedIn:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// IsStatus reports whether err is a status failure with the given code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.Status == status
}

// statusError builds an Error from a non-2xx response body.
// FastAPI-style {"detail": "..."} bodies contribute their detail text.
func statusError(status int, body []byte) *Error {
	return &Error{Kind: KindStatus, Status: status, Message: detailOf(body)}
}

func detailOf(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch d := payload.Detail.(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		// Validation errors: a list of {"loc": [...], "msg": "..."}.
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: err.Error(), Err: err}
}
