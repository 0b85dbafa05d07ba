package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStaleStatus is returned when a conditional status update matches
	// zero rows because the order is no longer in the expected state.
	ErrStaleStatus = errors.New("order status changed concurrently")
)
