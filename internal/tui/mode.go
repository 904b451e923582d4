// Package tui provides the terminal user interface for taskboard.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeLogin       Mode = iota // Sign-in form
	ModeNormal                  // Board navigation
	ModeSearch                  // Search input
	ModeConfirm                 // Delete confirmation
	ModeForm                    // New/edit task form
	ModeDetail                  // Task detail page
	ModeComment                 // Comment input on the detail page
	ModeDescription             // Description editor on the detail page
	ModeUpload                  // Upload path input on the detail page
	ModeHelp                    // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModeConfirm:
		return "confirm"
	case ModeForm:
		return "form"
	case ModeDetail:
		return "detail"
	case ModeComment:
		return "comment"
	case ModeDescription:
		return "description"
	case ModeUpload:
		return "upload"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeLogin, ModeSearch, ModeForm, ModeComment, ModeDescription, ModeUpload:
		return true
	case ModeNormal, ModeConfirm, ModeDetail, ModeHelp:
		return false
	}
	return false
}

// BoardView selects how the board lists tasks.
type BoardView int

const (
	BoardList   BoardView = iota // One row per task
	BoardKanban                  // One column per status
)

// ParseBoardView maps the tui.default_view setting to a BoardView.
func ParseBoardView(s string) BoardView {
	if s == "kanban" {
		return BoardKanban
	}
	return BoardList
}

// String returns the config name of the view.
func (v BoardView) String() string {
	if v == BoardKanban {
		return "kanban"
	}
	return "list"
}

// FormKind distinguishes the new-task form from the edit form.
type FormKind int

const (
	FormNew FormKind = iota
	FormEdit
)

// FormField identifies a field of the task form.
type FormField int

const (
	FieldName FormField = iota
	FieldStatus
	FieldPriority
	FieldAssignee
	FieldStart
	FieldEnd
	formFieldCount
)

// Next returns the following field, wrapping around.
func (f FormField) Next() FormField {
	return (f + 1) % formFieldCount
}

// Prev returns the preceding field, wrapping around.
func (f FormField) Prev() FormField {
	return (f + formFieldCount - 1) % formFieldCount
}

// Label returns the form label of the field.
func (f FormField) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldStatus:
		return "Status"
	case FieldPriority:
		return "Priority"
	case FieldAssignee:
		return "Assignee"
	case FieldStart:
		return "Start date"
	case FieldEnd:
		return "End date"
	default:
		return ""
	}
}

// IsChoice reports whether the field cycles through fixed values instead of taking text.
func (f FormField) IsChoice() bool {
	return f == FieldStatus || f == FieldPriority
}
