package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jotkit/jot/pkg/core"
	"github.com/jotkit/jot/pkg/signal"
)

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *signal.Debouncer[core.Event]
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("file-watcher"),
		store:      store,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := os.MkdirAll(w.store.Dir, 0755); err != nil {
		_ = watcher.Close()
		return err
	}
	if err := watcher.Add(w.store.Dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir, err)
	}

	w.watcher = watcher
	w.debouncer = signal.NewDebouncer[core.Event](w.store.config.Debounce)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// processEvent handles filtering, mapping, and debouncing of filesystem
// events. Returns true if the event was accepted.
func (w *watchWorker) processEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	if w.store.config.Logger != nil {
		w.store.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
	}

	if w.store.shouldIgnore(event, w.pattern) {
		return false
	}

	eType := w.store.mapEventType(event)
	if eType == "" {
		return false
	}

	key := w.store.slotKey(event.Name)

	if eType == core.EventDelete {
		w.store.journal.Forget(key)
	} else if w.store.selfWrite(key, event.Name) {
		// Our own save echoing back through the filesystem.
		if w.store.config.Logger != nil {
			w.store.config.Logger.Debug("ignoring own write", "slot", key)
		}
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Key:       key,
		Timestamp: time.Now().Unix(),
	})

	return true
}

// sendEvent enqueues an event via the debouncer, protecting against channel
// closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.Call(event, func(e core.Event) {
		defer func() {
			// Recover from panic if channel was closed (worker stopping)
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// handleWatcherError processes errors from the fsnotify watcher.
func (w *watchWorker) handleWatcherError(err error) (shouldContinue bool) {
	if w.store.config.Logger != nil {
		w.store.config.Logger.Error("fsnotify error", "error", err)
	}
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
	return true // Continue processing
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			logger := w.store.config.Logger
			if logger == nil {
				return
			}

			// Stack traces only when debug logging is on; production logs
			// stay quiet.
			var stack string
			if logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}

			if stack != "" {
				logger.Error("watcher panic", "error", panicErr, "stack", stack)
			} else {
				logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()
	// Note: debouncer cleanup is handled explicitly at the end of this
	// function, not via defer, to ensure proper synchronization with all
	// in-flight timers.

	err = w.mainEventLoop(ctx)

	// Shutdown debouncer: stop accepting new events and wait for in-flight
	// timers before cleanup closes the events channel.
	w.debouncer.StopAndWait(5 * time.Second)

	return err
}

// mainEventLoop is the core select loop processing filesystem and watcher
// error events.
func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}

// shouldIgnore filters out events that are not external slot changes.
func (s *Store) shouldIgnore(event fsnotify.Event, pattern string) bool {
	name := filepath.Base(event.Name)

	if strings.HasPrefix(name, TempFilePrefix) {
		return true
	}
	// Hidden entries cover the system dir and editor droppings.
	if strings.HasPrefix(name, ".") {
		return true
	}
	if filepath.Ext(name) != s.config.Ext {
		return true
	}
	if pattern != "" {
		ok, err := doublestar.Match(pattern, s.slotKey(event.Name))
		if err != nil || !ok {
			return true
		}
	}
	return false
}

// mapEventType maps an fsnotify op onto the domain event types.
func (s *Store) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}
