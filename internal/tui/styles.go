package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/taskboard/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	DescNormal    lipgloss.Color

	// Status colors
	Considered    lipgloss.Color
	Investigation lipgloss.Color
	Ready         lipgloss.Color
	Development   lipgloss.Color
	Review        lipgloss.Color
	Completed     lipgloss.Color

	// Priority colors
	Low    lipgloss.Color
	Medium lipgloss.Color
	High   lipgloss.Color
	Urgent lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),
	DescNormal:    lipgloss.Color("#636E72"),

	Considered:    lipgloss.Color("#B2BEC3"),
	Investigation: lipgloss.Color("#74B9FF"),
	Ready:         lipgloss.Color("#81ECEC"),
	Development:   lipgloss.Color("#FDCB6E"),
	Review:        lipgloss.Color("#A29BFE"),
	Completed:     lipgloss.Color("#00B894"),

	Low:    lipgloss.Color("#636E72"),
	Medium: lipgloss.Color("#74B9FF"),
	High:   lipgloss.Color("#E17055"),
	Urgent: lipgloss.Color("#D63031"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	Stat       lipgloss.Style
	StatValue  lipgloss.Style

	// Task list
	TaskID            lipgloss.Style
	TaskIDSelected    lipgloss.Style
	TaskTitle         lipgloss.Style
	TaskTitleSelected lipgloss.Style
	TaskMeta          lipgloss.Style
	CursorSelected    lipgloss.Style

	// Kanban
	Column         lipgloss.Style
	ColumnFocused  lipgloss.Style
	ColumnTitle    lipgloss.Style
	Card           lipgloss.Style
	CardSelected   lipgloss.Style
	ColumnEmptyMsg lipgloss.Style

	// Due dates
	DueSoon    lipgloss.Style
	DueOverdue lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style

	// Input
	InputPrompt  lipgloss.Style
	InputFocused lipgloss.Style

	// Messages
	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style

	// Detail view
	DetailTitle   lipgloss.Style
	DetailLabel   lipgloss.Style
	DetailValue   lipgloss.Style
	DetailSection lipgloss.Style
	CommentAuthor lipgloss.Style
	CommentAvatar lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		HeaderText: lipgloss.NewStyle().
			Bold(true),

		Stat: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		StatValue: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal).
			Bold(true),

		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		TaskIDSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		TaskMeta: lipgloss.NewStyle().
			Foreground(Colors.DescNormal),

		CursorSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		Column: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted),

		ColumnFocused: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		ColumnTitle: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		CardSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		ColumnEmptyMsg: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		DueSoon: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		DueOverdue: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		DialogPrompt: lipgloss.NewStyle(),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		InputFocused: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true).
			Width(12),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		WarningMsg: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		DetailValue: lipgloss.NewStyle(),

		DetailSection: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Secondary).
			MarginTop(1),

		CommentAuthor: lipgloss.NewStyle().
			Bold(true),

		CommentAvatar: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.Secondary).
			Padding(0, 1),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch status {
	case domain.StatusConsidered:
		return base.Foreground(Colors.Considered)
	case domain.StatusInvestigation:
		return base.Foreground(Colors.Investigation)
	case domain.StatusReadyToDevelopment:
		return base.Foreground(Colors.Ready)
	case domain.StatusUnderDevelopment:
		return base.Foreground(Colors.Development)
	case domain.StatusCodeReview:
		return base.Foreground(Colors.Review)
	case domain.StatusDevelopmentCompleted:
		return base.Foreground(Colors.Completed)
	default:
		return base.Foreground(Colors.Muted)
	}
}

// PriorityStyle returns the style for a given priority.
// An absent priority is styled as Medium.
func (s Styles) PriorityStyle(p domain.Priority) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch p.Normalize() {
	case domain.PriorityLow:
		return base.Foreground(Colors.Low)
	case domain.PriorityMedium:
		return base.Foreground(Colors.Medium)
	case domain.PriorityHigh:
		return base.Foreground(Colors.High)
	case domain.PriorityUrgent:
		return base.Foreground(Colors.Urgent).Bold(true)
	default:
		return base.Foreground(Colors.Muted)
	}
}

// DueStyle returns the style for a deadline tone.
func (s Styles) DueStyle(tone domain.DueTone) lipgloss.Style {
	switch tone {
	case domain.DueToneSoon:
		return s.DueSoon
	case domain.DueToneOverdue:
		return s.DueOverdue
	default:
		return s.TaskMeta
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusConsidered:
		return "○"
	case domain.StatusInvestigation:
		return "◌"
	case domain.StatusReadyToDevelopment:
		return "◎"
	case domain.StatusUnderDevelopment:
		return "●"
	case domain.StatusCodeReview:
		return "◉"
	case domain.StatusDevelopmentCompleted:
		return "✓"
	default:
		return "?"
	}
}
