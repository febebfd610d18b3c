package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyKey     = errors.New("empty key")
	ErrInvalidData  = errors.New("invalid data type")
	ErrEntityExists = errors.New("entity already exists")

	// ErrInvalidInput is returned before any sampling work is dispatched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWorkerFailure means a dispatched partition did not complete and the
	// whole estimate was discarded.
	ErrWorkerFailure = errors.New("worker failure")
	// ErrNotConfigured is returned by operations whose backing service was
	// not configured at startup.
	ErrNotConfigured = errors.New("not configured")
)
