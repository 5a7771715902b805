package bus

import "errors"

// Bus errors.
var (
	// ErrUnknownKind is returned when a message's kind has no registered
	// handler. The kind set is closed; this is a caller bug, not a transient
	// condition.
	ErrUnknownKind = errors.New("unknown message kind")

	// ErrTimeout is returned when a worker call exceeds its deadline. The
	// correlation id is discarded; a late response is dropped.
	ErrTimeout = errors.New("worker call timed out")

	// ErrClosed is returned when a request is submitted to a worker pool
	// that has been stopped.
	ErrClosed = errors.New("worker pool is closed")
)
