package repository

import "errors"

var (
	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint is returned when the store rejects a write on a
	// uniqueness or not-null constraint.
	ErrConstraint = errors.New("constraint violation")
)
