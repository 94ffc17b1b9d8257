package store

import "errors"

// Sentinel errors returned by Store implementations. Services translate
// these into domain errors; the store layer never decides HTTP semantics.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrEmailExists indicates a user with the same email already exists.
	ErrEmailExists = errors.New("email already exists")
)
