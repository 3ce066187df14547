package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist, or when
	// a conditional update matched no row because the record was no longer in
	// the expected state.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// such as a driver rejecting the same ride twice.
	ErrDuplicate = errors.New("duplicate entity")
)
