package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrResourceNotFound, ErrTrackNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert violates a uniqueness index
	// (e.g., a resource with an already-captured URL or content fingerprint).
	ErrDuplicate = errors.New("entity already exists")

	// ErrNotOpen is returned when the store is accessed before it has been
	// opened or after it has been closed.
	ErrNotOpen = errors.New("store is not open")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrResourceNotFound indicates that the requested resource does not exist in the store.
	ErrResourceNotFound = fmt.Errorf("%w: resource", ErrNotFound)

	// ErrHighlightNotFound indicates that the requested highlight does not exist in the store.
	ErrHighlightNotFound = fmt.Errorf("%w: highlight", ErrNotFound)

	// ErrTrackNotFound indicates that the requested study track does not exist in the store.
	ErrTrackNotFound = fmt.Errorf("%w: study track", ErrNotFound)

	// ErrFlashcardNotFound indicates that the requested flashcard does not exist in the store.
	ErrFlashcardNotFound = fmt.Errorf("%w: flashcard", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrURLExists indicates that a resource with the given URL already exists.
	ErrURLExists = fmt.Errorf("%w: url", ErrDuplicate)

	// ErrFingerprintExists indicates that a resource with the given content
	// fingerprint already exists.
	ErrFingerprintExists = fmt.Errorf("%w: content fingerprint", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// This includes the generic ErrDuplicate and all entity-specific duplicate errors.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "resource", "flashcard")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
