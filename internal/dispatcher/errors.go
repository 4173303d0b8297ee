package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrInvalidAction indicates the action is unknown.
	ErrInvalidAction = errors.New("dispatcher: invalid action")

	// ErrActionCancelled indicates the action was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrPanic indicates a procedure panicked; the transaction was discarded.
	ErrPanic = errors.New("dispatcher: procedure panic")

	// ErrNoTree indicates there is no document to edit.
	ErrNoTree = errors.New("dispatcher: no document")

	// ErrNoParent indicates the caret has no block that can be split.
	ErrNoParent = errors.New("dispatcher: caret has no splittable parent")
)
