package core

import "errors"

// Common errors.
var (
	// ErrEmptyText rejects notes whose text is empty after trimming.
	ErrEmptyText = errors.New("note text is empty")

	// ErrNotFound reports an edit aimed at an id that is not in the list.
	ErrNotFound = errors.New("note not found")
)
