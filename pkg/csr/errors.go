package csr

import "errors"

var (
	// ErrInvalidCounts is returned when node or edge counts are out of bounds,
	// or when slice lengths disagree with them.
	ErrInvalidCounts = errors.New("invalid node or edge count")

	// ErrTruncatedInput is returned when the input ends before a declared array.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrIOFailure wraps errors from the underlying reader or writer.
	ErrIOFailure = errors.New("i/o failure")

	// ErrInvalidStructure is returned by Validate for bad offsets or adjacency.
	ErrInvalidStructure = errors.New("invalid csr structure")
)
