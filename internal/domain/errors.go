package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request was rejected before reaching any data source.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable indicates a backing data source could not be reached. Callers may retry.
	ErrUnavailable = errors.New("temporarily unavailable")
	// ErrInvalidTransition indicates an order status change not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
