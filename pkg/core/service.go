package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// DefaultSlot is the store key the note list lives under.
const DefaultSlot = "notes"

// defaultEventBuffer is the size of the relay buffer between a store's
// watcher and a Watch consumer.
const defaultEventBuffer = 100

// ServiceConfig carries the collaborators and knobs for a Service.
// Zero values fall back to sane defaults; a nil Notifier disables mirroring.
type ServiceConfig struct {
	Notifier    Notifier
	Slot        string
	Logger      *slog.Logger
	Clock       func() time.Time
	EventBuffer int
}

// Service holds the authoritative in-memory note list and runs every
// change through the same pipeline: apply the update, persist the slot,
// hand the result to the notifier. The list in memory is the source of
// truth; storage and mirroring are best effort behind it.
type Service struct {
	store       Store
	notifier    Notifier
	slot        string
	logger      *slog.Logger
	now         func() time.Time
	eventBuffer int

	mu       sync.RWMutex
	notes    Notes
	onChange []func(Notes)
}

// NewService builds the state manager over store and loads the initial list
// from the configured slot. A missing or unreadable slot loads as empty.
func NewService(ctx context.Context, store Store, cfg ServiceConfig) *Service {
	if cfg.Slot == "" {
		cfg.Slot = DefaultSlot
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	s := &Service{
		store:       store,
		notifier:    cfg.Notifier,
		slot:        cfg.Slot,
		logger:      cfg.Logger,
		now:         cfg.Clock,
		eventBuffer: cfg.EventBuffer,
	}
	s.notes = store.Load(ctx, s.slot, Notes{})
	return s
}

// Add creates a note from text and appends it to the list.
// Text is trimmed; input that is empty after trimming is rejected with
// ErrEmptyText and nothing is persisted or mirrored.
func (s *Service) Add(ctx context.Context, text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyText
	}

	note := NewNote(s.now(), text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, Transform(func(prev Notes) Notes {
		return prev.Append(note)
	}))
	return note, nil
}

// Edit replaces the text of the note identified by id, keeping its position.
// Editing an id that is not in the list returns ErrNotFound without
// persisting or mirroring anything.
func (s *Service) Edit(ctx context.Context, id int64, text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes.Find(id); !ok {
		return Note{}, ErrNotFound
	}
	s.commit(ctx, Transform(func(prev Notes) Notes {
		next, _ := prev.Replace(id, text)
		return next
	}))
	return Note{ID: id, Text: text}, nil
}

// Delete removes the note identified by id. Deleting an id that is not in
// the list is a safe no-op at the list level, but it still counts as a
// change: the (unchanged) list is persisted and mirrored like any other.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, Transform(func(prev Notes) Notes {
		next, _ := prev.Remove(id)
		return next
	}))
	return nil
}

// Refresh replaces the in-memory list with the slot's current contents.
// It is meant for watcher callbacks after an external edit: change hooks
// fire, but nothing is persisted or mirrored back.
func (s *Service) Refresh(ctx context.Context) Notes {
	loaded := s.store.Load(ctx, s.slot, Notes{})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = Set(loaded).Apply(s.notes)
	snapshot := s.notes.Clone()
	for _, fn := range s.onChange {
		fn(snapshot)
	}
	return snapshot
}

// commit is the single change pipeline. The caller holds s.mu.
func (s *Service) commit(ctx context.Context, u Update) {
	s.notes = u.Apply(s.notes)
	snapshot := s.notes.Clone()

	if err := s.store.Save(ctx, s.slot, snapshot); err != nil {
		// The in-memory list stays authoritative; storage catches up on
		// the next change or never.
		s.logger.Warn("failed to persist slot", "slot", s.slot, "error", err)
	}
	s.notifier.Notify(ctx, snapshot)
	for _, fn := range s.onChange {
		fn(snapshot)
	}
}

// Notes returns a copy of the current list.
func (s *Service) Notes() Notes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.Clone()
}

// Note returns the note identified by id.
func (s *Service) Note(id int64) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.Find(id)
}

// Len returns the number of notes in the list.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Slot returns the store key the list lives under.
func (s *Service) Slot() string {
	return s.slot
}

// OnChange registers fn to run with the post-change list after every
// mutation and refresh. Hooks run synchronously under the state lock: they
// must return promptly and must not call back into the service.
func (s *Service) OnChange(fn func(Notes)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Watch observes external changes to the underlying store if supported.
// Events are relayed through an internal buffer so a slow consumer cannot
// stall the store's watcher.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}

	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, s.eventBuffer)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watch relay failed", "error", err)
	}))
	return out, nil
}

// AutoRefresh watches the service's own slot and reloads the in-memory
// list whenever the store reports an external change. It returns after
// starting the relay, which runs until ctx is done.
func (s *Service) AutoRefresh(ctx context.Context) error {
	events, err := s.Watch(ctx, s.slot)
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				if e.Key != s.slot {
					continue
				}
				s.logger.Debug("external change detected", "event", e.String())
				s.Refresh(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("refresh loop failed", "error", err)
	}))
	return nil
}

// nopNotifier keeps the pipeline total when mirroring is disabled.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notes) {}
