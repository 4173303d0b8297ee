package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNoDocument indicates an edit was attempted before Load.
	ErrNoDocument = errors.New("engine: no document loaded")

	// ErrNoSelection indicates an edit was attempted with no selection set.
	ErrNoSelection = errors.New("engine: no selection")

	// ErrNothingPending indicates RestoreSelections found an empty queue.
	ErrNothingPending = errors.New("engine: no pending selections")
)
