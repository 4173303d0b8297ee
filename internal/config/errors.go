package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a decoded value is out of range.
	ErrValidationFailed = errors.New("config: validation failed")

	// ErrDecode indicates the merged layers could not be decoded.
	ErrDecode = errors.New("config: decode failed")
)

// ValidationError lists every invalid field.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidationFailed, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
