package storage

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrEditConflict = errors.New("edit conflict")
)

// ConflictError carries the unique constraint that was violated so callers
// can tell which field clashed.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Constraint
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
