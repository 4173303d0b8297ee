package node

import "errors"

// Errors returned by node operations.
var (
	// ErrUnknownType indicates the registry has no constructor for a type name.
	ErrUnknownType = errors.New("node: unknown type")

	// ErrIncompatibleMerge indicates a merge between differently named containers.
	ErrIncompatibleMerge = errors.New("node: incompatible merge")

	// ErrKindMismatch indicates a constructor produced a node of the wrong kind.
	ErrKindMismatch = errors.New("node: kind mismatch")
)
