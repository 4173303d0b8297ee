package store

import (
	"errors"
	"fmt"
)

// Errors returned by the store.
var (
	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("store: path is a directory")

	// ErrFileTooLarge indicates the file exceeds the maximum size limit.
	ErrFileTooLarge = errors.New("store: file too large")

	// ErrWatcherClosed indicates the watcher was already closed.
	ErrWatcherClosed = errors.New("store: watcher is closed")
)

// PathError represents an error associated with a document path.
type PathError struct {
	Op   string // load, save or watch
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
