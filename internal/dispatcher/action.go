package dispatcher

import (
	"time"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/engine/selection"
)

// Action names a user-facing edit.
type Action string

// Supported actions.
const (
	ActionDelete      Action = "delete"
	ActionInsert      Action = "insert"
	ActionReplace     Action = "replace"
	ActionBackspace   Action = "backspace"
	ActionEnter       Action = "enter"
	ActionInsertNodes Action = "insert-nodes"
)

// Valid reports whether a is a supported action.
func (a Action) Valid() bool {
	switch a {
	case ActionDelete, ActionInsert, ActionReplace, ActionBackspace, ActionEnter, ActionInsertNodes:
		return true
	}
	return false
}

// Request is one action applied to every selection entry.
type Request struct {
	Action     Action
	Selections []selection.Range

	// Text is typed by insert and replace.
	Text string

	// Nodes are pasted by insert-nodes. They are copied before insertion.
	Nodes []*node.Node
}

// Status indicates the outcome of a dispatch.
type Status uint8

const (
	// StatusOK indicates the transaction committed.
	StatusOK Status = iota
	// StatusNoOp indicates nothing was committed.
	StatusNoOp
	// StatusError indicates the transaction was discarded.
	StatusError
	// StatusCancelled indicates a hook cancelled the request.
	StatusCancelled
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result describes a dispatch outcome.
type Result struct {
	Action Action
	Status Status

	// Selections are the post-edit carets as positions, one per applied entry.
	Selections []selection.Range

	// Applied counts entries that ran; Skipped counts unresolved entries.
	Applied int
	Skipped int

	// Warnings collects recoverable problems.
	Warnings []error

	Duration time.Duration
}

// Committed reports whether the live tree was replaced.
func (r Result) Committed() bool {
	return r.Status == StatusOK
}
