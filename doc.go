// Package jot is the Composition Root for the jot application.
//
// It connects the core note pad logic (Domain Layer) with the infrastructure
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// jot is a local-first note pad for toolmakers. The in-memory list is the
// source of truth; storage and sync follow it and are allowed to fail
// without getting in the way of taking notes. While the default
// implementation uses plain files, jot's core is agnostic, allowing other
// adapters (e.g. SQLite).
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Fail-Open Storage**: A missing or corrupt slot serves a default instead of an error.
//   - **Atomic Writes**: Slot files are replaced atomically on every save.
//   - **Fire-and-Forget Sync**: The full list is POSTed to an endpoint after every change.
//   - **Reactive**: A supervised watcher turns external file edits into refreshes.
//   - **Extensible**: Designed to support other backends via `core.Store`.
//
// Usage:
//
//	// Open a pad with functional options
//	pad, err := jot.Open(ctx, "~/.jot",
//		jot.WithSyncURL("https://example.com/hook"),
//		jot.WithLogger(logger),
//	)
//
//	// Add a note
//	note, err := pad.Add(ctx, "pick up milk")
package jot
