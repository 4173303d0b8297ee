package input

import "errors"

// ErrClosed is returned by a Handler after Close.
var ErrClosed = errors.New("input: handler closed")
