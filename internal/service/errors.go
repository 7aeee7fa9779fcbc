package service

import "errors"

// Stable error discriminants surfaced to callers. Every rejection wraps
// one of these so callers can match with errors.Is; repository.ErrNotFound
// covers absent entities.
var (
	// ErrValidation marks missing or out-of-range input, rejected before
	// any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a mutation colliding with existing state: deleting
	// a non-empty stage, re-locking an already locked month.
	ErrConflict = errors.New("conflict")

	// ErrForbidden marks an authorization failure on timesheet or lock
	// operations.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidMove marks a reorder that would make a task its own
	// ancestor.
	ErrInvalidMove = errors.New("invalid move")

	// ErrLocked marks a ledger mutation inside a locked month.
	ErrLocked = errors.New("timesheet locked")
)
