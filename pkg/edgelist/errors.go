package edgelist

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned for a negative or out-of-range node id.
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmptyGraph is returned when no usable edge remains after filtering.
	ErrEmptyGraph = errors.New("no edges read")

	// ErrInvalidNodeRange is returned when the minimum id is negative after rebasing.
	ErrInvalidNodeRange = errors.New("invalid node range")

	// ErrTooManyEdges is returned when the edge count exceeds MaxEdges.
	ErrTooManyEdges = errors.New("too many edges")

	// ErrInternalInvariant means CSR construction broke its own bookkeeping.
	ErrInternalInvariant = errors.New("internal invariant violation")
)

// LineError reports the input line that aborted compilation.
type LineError struct {
	// Line is the 1-based line number.
	Line int

	// Text is the offending line without its line terminator.
	Text string

	// Wrapped is the underlying error.
	Wrapped error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Wrapped, e.Text)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Wrapped
}
