package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeLogin, "login"},
		{ModeNormal, "normal"},
		{ModeSearch, "search"},
		{ModeConfirm, "confirm"},
		{ModeForm, "form"},
		{ModeDetail, "detail"},
		{ModeComment, "comment"},
		{ModeDescription, "description"},
		{ModeUpload, "upload"},
		{ModeHelp, "help"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.String())
		})
	}
}

func TestMode_IsInputMode(t *testing.T) {
	inputs := []Mode{ModeLogin, ModeSearch, ModeForm, ModeComment, ModeDescription, ModeUpload}
	for _, m := range inputs {
		assert.True(t, m.IsInputMode(), m.String())
	}

	others := []Mode{ModeNormal, ModeConfirm, ModeDetail, ModeHelp}
	for _, m := range others {
		assert.False(t, m.IsInputMode(), m.String())
	}
}

func TestParseBoardView(t *testing.T) {
	assert.Equal(t, BoardKanban, ParseBoardView("kanban"))
	assert.Equal(t, BoardList, ParseBoardView("list"))
	assert.Equal(t, BoardList, ParseBoardView(""))
	assert.Equal(t, "kanban", BoardKanban.String())
	assert.Equal(t, "list", BoardList.String())
}

func TestFormField_Navigation(t *testing.T) {
	assert.Equal(t, FieldStatus, FieldName.Next())
	assert.Equal(t, FieldName, FieldEnd.Next(), "wraps forward")
	assert.Equal(t, FieldEnd, FieldName.Prev(), "wraps backward")

	assert.True(t, FieldStatus.IsChoice())
	assert.True(t, FieldPriority.IsChoice())
	assert.False(t, FieldName.IsChoice())
	assert.False(t, FieldEnd.IsChoice())

	for f := FieldName; f < formFieldCount; f++ {
		assert.NotEmpty(t, f.Label())
	}
}
