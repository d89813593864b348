package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional write loses the optimistic
	// concurrency race: the row's version moved between read and write.
	// The caller may re-read and retry.
	ErrConflict = errors.New("version conflict")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the requested card does not exist in the store.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrStreakNotFound indicates that the user has no streak record yet.
	// This is a defined initial condition, not a failure: the tracker
	// creates the record lazily on first review.
	ErrStreakNotFound = fmt.Errorf("%w: streak", ErrNotFound)

	// ErrQuizResultNotFound indicates that the requested quiz result does not exist.
	ErrQuizResultNotFound = fmt.Errorf("%w: quiz result", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error is an optimistic concurrency conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
