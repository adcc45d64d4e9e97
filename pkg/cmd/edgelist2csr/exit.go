package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gilchrisn/edgelist-csr/pkg/csr"
	"github.com/gilchrisn/edgelist-csr/pkg/edgelist"
)

// Exit statuses, one per failure category.
const (
	exitOK          = 0
	exitUsage       = 1
	exitIO          = 2
	exitMalformed   = 3
	exitEmptyGraph  = 5
	exitNodeRange   = 6
	exitTooManyEdge = 7
	exitInternal    = 9
	exitBadGraph    = 10
	exitInterrupted = 130
)

var errUsage = errors.New("usage")

func usageError(err error) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}

// exitCode maps an error returned by a command to its exit status. The most
// specific category wins: a malformed line found while reading is exitMalformed,
// not exitIO.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, edgelist.ErrMalformedInput):
		return exitMalformed
	case errors.Is(err, edgelist.ErrEmptyGraph):
		return exitEmptyGraph
	case errors.Is(err, edgelist.ErrInvalidNodeRange):
		return exitNodeRange
	case errors.Is(err, edgelist.ErrTooManyEdges):
		return exitTooManyEdge
	case errors.Is(err, edgelist.ErrInternalInvariant):
		return exitInternal
	case errors.Is(err, csr.ErrInvalidCounts),
		errors.Is(err, csr.ErrTruncatedInput),
		errors.Is(err, csr.ErrInvalidStructure):
		return exitBadGraph
	case errors.Is(err, csr.ErrIOFailure):
		return exitIO
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitUsage
	}
}
