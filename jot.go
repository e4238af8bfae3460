package jot

import (
	"context"
	"log/slog"
	"time"

	"github.com/jotkit/jot/internal/platform"
	"github.com/jotkit/jot/pkg/core"
	"github.com/jotkit/jot/pkg/editor"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Note is one entry of the pad. Its id is the creation timestamp in unix
// milliseconds.
type Note = core.Note

// Notes is the ordered note list.
type Notes = core.Notes

// Event describes an external change picked up by a watching store.
type Event = core.Event

// Pad is an opened note pad: the service plus the plumbing under it.
type Pad = platform.Pad

// Editor is the interactive state machine over a pad: draft debouncing,
// create/edit modes, and the busy marker.
type Editor = editor.Editor

// EditorConfig tunes the editor's timing.
type EditorConfig = editor.Config

// --- Errors ---

var (
	// ErrEmptyText rejects notes with no visible content.
	ErrEmptyText = core.ErrEmptyText

	// ErrNotFound reports an edit aimed at a note that does not exist.
	ErrNotFound = core.ErrNotFound
)

// --- Configuration ---

// Option defines a functional option for configuring jot.
type Option = platform.Option

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithNotifier allows injecting a custom change notifier.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the id clock, mainly to pin ids down in tests.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithAdapter selects the storage adapter by name ("file" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSlot names the list to operate on. Defaults to "notes".
func WithSlot(name string) Option {
	return platform.WithSlot(name)
}

// WithFormat sets the slot file extension for the file adapter.
func WithFormat(ext string) Option {
	return platform.WithFormat(ext)
}

// WithSyncURL enables fire-and-forget sync of the full list after every
// change.
func WithSyncURL(url string) Option {
	return platform.WithSyncURL(url)
}

// WithDebounce sets the file watcher's coalescing window.
func WithDebounce(window time.Duration) Option {
	return platform.WithDebounce(window)
}

// WithEventBuffer sets the size of the watch relay buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watcher runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSerializer registers a custom serializer for a file extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// --- Factory ---

// Open opens a note pad at the given URI. For the file adapter the URI is
// the state directory; for sqlite it is the database file.
func Open(ctx context.Context, uri string, opts ...Option) (*Pad, error) {
	return platform.New(ctx, uri, opts...)
}

// NewEditor builds an interactive editor over an opened pad.
func NewEditor(pad *Pad, config EditorConfig) *Editor {
	return editor.New(pad.Service, config)
}

// --- Utils ---

// FindPadRoot recursively looks upwards for a pad root indicator.
func FindPadRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
