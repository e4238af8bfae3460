package editor

import (
	"github.com/aretw0/introspection"
)

// EditorState exposes the UI state for observability.
type EditorState struct {
	Mode        Mode   `json:"mode"`
	SubmitLabel string `json:"submit_label"`
	Draft       string `json:"draft"`
	EditingID   int64  `json:"editing_id,omitempty"`
	Busy        bool   `json:"busy"`
}

// State implements introspection.Introspectable.
func (e *Editor) State() any {
	e.mu.RLock()
	draft := e.draft
	editing, editID := e.editing, e.editID
	e.mu.RUnlock()

	state := EditorState{
		Mode:        ModeCreate,
		SubmitLabel: "add",
		Draft:       draft,
		Busy:        e.busy.Active(),
	}
	if editing {
		state.Mode = ModeEdit
		state.SubmitLabel = "save"
		state.EditingID = editID
	}
	return state
}

// ComponentType implements introspection.Component.
func (e *Editor) ComponentType() string {
	return "editor"
}

var _ introspection.Introspectable = (*Editor)(nil)
var _ introspection.Component = (*Editor)(nil)
