// Package editor models the interactive note pad: a draft input with
// trailing-edge keystroke debouncing, a create/edit mode toggle, and a
// busy pulse around mutations. It holds no rendering; embedders bind it
// to whatever surface they have.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jotkit/jot/pkg/core"
	"github.com/jotkit/jot/pkg/signal"
)

const (
	// DefaultDebounce is how long keystrokes settle before the draft
	// commits. Typing bursts inside the window collapse to the last value.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultBusyHold is how long the busy marker stays lit after a
	// mutation is kicked off.
	DefaultBusyHold = 250 * time.Millisecond
)

// Mode tells a UI which of the two shapes the input currently has.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Config tunes the editor's timing.
type Config struct {
	Debounce time.Duration
	BusyHold time.Duration
	Logger   *slog.Logger
}

// Editor is the UI-facing state machine over a note service.
type Editor struct {
	svc       *core.Service
	logger    *slog.Logger
	debouncer *signal.Debouncer[string]
	busy      *signal.Pulse

	mu             sync.RWMutex
	draft          string
	editID         int64
	editing        bool
	focusRequested bool
}

// New builds an editor over the given service.
func New(svc *core.Service, config Config) *Editor {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.BusyHold <= 0 {
		config.BusyHold = DefaultBusyHold
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Editor{
		svc:       svc,
		logger:    logger,
		debouncer: signal.NewDebouncer[string](config.Debounce),
		busy:      signal.NewPulse(config.BusyHold),
	}
}

// Type feeds one keystroke's worth of input. The draft only takes the
// value once typing pauses for the debounce window; a burst of calls
// commits exactly once, with the last value.
func (e *Editor) Type(text string) {
	e.debouncer.Call(text, func(settled string) {
		e.mu.Lock()
		e.draft = settled
		e.mu.Unlock()
	})
}

// SetDraft replaces the draft immediately, bypassing the debounce.
func (e *Editor) SetDraft(text string) {
	e.mu.Lock()
	e.draft = text
	e.mu.Unlock()
}

// Draft returns the current settled draft.
func (e *Editor) Draft() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.draft
}

// BeginEdit switches to edit mode for the given note, prefilling the
// draft with its text and requesting input focus.
func (e *Editor) BeginEdit(id int64) error {
	note, ok := e.svc.Note(id)
	if !ok {
		return core.ErrNotFound
	}

	e.mu.Lock()
	e.editing = true
	e.editID = id
	e.draft = note.Text
	e.focusRequested = true
	e.mu.Unlock()
	return nil
}

// Cancel drops edit mode and clears the draft.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.clearLocked()
	e.mu.Unlock()
}

// Submit commits the draft: a new note in create mode, a text change in
// edit mode. Empty and whitespace-only drafts are dropped without any
// signal; nothing is persisted and the mode does not change. Editing a
// note that no longer exists quietly falls back to create mode.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	draft := strings.TrimSpace(e.draft)
	editing, editID := e.editing, e.editID
	e.mu.Unlock()

	if draft == "" {
		return nil
	}

	e.busy.Trigger()

	if editing {
		_, err := e.svc.Edit(ctx, editID, draft)
		if errors.Is(err, core.ErrNotFound) {
			// The note went away while it was being edited. The draft
			// dies with it.
			e.logger.Debug("edited note vanished, leaving edit mode", "id", editID)
			e.Cancel()
			return nil
		}
		if err != nil {
			return err
		}
		e.Cancel()
		return nil
	}

	if _, err := e.svc.Add(ctx, draft); err != nil {
		return err
	}

	e.mu.Lock()
	e.clearLocked()
	e.mu.Unlock()
	return nil
}

// Delete removes a note. Deleting the note currently under edit also
// drops edit mode so the input does not keep pointing at a ghost.
func (e *Editor) Delete(ctx context.Context, id int64) error {
	e.busy.Trigger()

	if err := e.svc.Delete(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	if e.editing && e.editID == id {
		e.clearLocked()
	}
	e.mu.Unlock()
	return nil
}

// Mode reports whether a submit would create or save.
func (e *Editor) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.editing {
		return ModeEdit
	}
	return ModeCreate
}

// SubmitLabel is the text a UI puts on the submit control.
func (e *Editor) SubmitLabel() string {
	if e.Mode() == ModeEdit {
		return "save"
	}
	return "add"
}

// EditingID returns the note id under edit, if any.
func (e *Editor) EditingID() (int64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.editID, e.editing
}

// Busy reports whether the busy marker is currently lit.
func (e *Editor) Busy() bool {
	return e.busy.Active()
}

// ConsumeFocus reports a pending focus request and clears it. BeginEdit
// raises the request so a UI can move the cursor into the input.
func (e *Editor) ConsumeFocus() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	requested := e.focusRequested
	e.focusRequested = false
	return requested
}

// Close stops the keystroke debouncer, waiting briefly for a settling
// draft to land.
func (e *Editor) Close() {
	e.debouncer.StopAndWait(time.Second)
}

func (e *Editor) clearLocked() {
	e.editing = false
	e.editID = 0
	e.draft = ""
	e.focusRequested = false
}
