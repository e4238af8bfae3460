package core

import "context"

// Store defines the contract for persisting the note list under a named
// slot. Adhering to this interface keeps the core independent of the
// underlying storage mechanism (filesystem, SQLite, in-memory).
type Store interface {
	// Load retrieves the list stored under key. Reads fail open: a missing
	// slot, an unreadable slot, and a payload that does not parse all yield
	// def. No error is ever reported.
	Load(ctx context.Context, key string, def Notes) Notes

	// Save persists the list under key. Implementations report failures;
	// callers decide whether persistence is load-bearing.
	Save(ctx context.Context, key string, value Notes) error
}

// Notifier mirrors the note list to an external consumer after a change.
// Delivery is best effort: implementations must not block the caller and
// must not surface delivery errors. Under rapid changes, intermediate
// lists may be coalesced.
type Notifier interface {
	Notify(ctx context.Context, notes Notes)
}

// Watchable defines an interface for stores that can observe external
// changes to their slots.
type Watchable interface {
	// Watch emits an event for each external change to a slot matching
	// pattern. The channel closes when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
