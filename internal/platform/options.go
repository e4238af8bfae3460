package platform

import (
	"log/slog"
	"time"

	"github.com/jotkit/jot/pkg/core"
)

// options holds the internal configuration for the jot service.
type options struct {
	store        core.Store
	notifier     core.Notifier
	logger       *slog.Logger
	clock        func() time.Time
	adapter      string
	slot         string
	format       string
	syncURL      string
	debounce     time.Duration
	eventBuffer  int
	errorHandler func(error)
	serializers  map[string]any
}

// Option defines a functional option for configuring jot.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "file",
		serializers: make(map[string]any),
	}
}

// WithStore allows injecting a custom storage adapter (e.g. mock, memory).
// If provided, the named adapter is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithNotifier allows injecting a custom change notifier. If provided,
// WithSyncURL is ignored.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the id clock. Note ids are creation timestamps, so
// tests pin this down to get stable ids.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithAdapter selects the storage adapter by name ("file" or "sqlite").
// Defaults to "file".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSlot names the list to operate on. Defaults to "notes".
func WithSlot(name string) Option {
	return func(o *options) {
		o.slot = name
	}
}

// WithFormat sets the slot file extension for the file adapter
// (".json", ".yaml" or ".yml"). Defaults to ".json".
func WithFormat(ext string) Option {
	return func(o *options) {
		o.format = ext
	}
}

// WithSyncURL enables fire-and-forget sync: after every change the full
// list is POSTed to this endpoint. Empty means no sync.
func WithSyncURL(url string) Option {
	return func(o *options) {
		o.syncURL = url
	}
}

// WithDebounce sets the file watcher's coalescing window. Zero means the
// adapter default.
func WithDebounce(window time.Duration) Option {
	return func(o *options) {
		o.debounce = window
	}
}

// WithEventBuffer sets the size of the watch relay buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the Watch loop. These failures are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithSerializer registers a custom serializer for a specific extension.
// The serializer must implement the file adapter's Serializer interface.
// Using 'any' keeps the public API clean; validation happens when the
// store is built.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}
