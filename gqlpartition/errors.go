package gqlpartition

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation is the sentinel every *UnsupportedOperationError
// wraps, so callers can test for it with errors.Is regardless of the
// specific reason attached.
var ErrUnsupportedOperation = errors.New("gqlpartition: unsupported operation")

// UnsupportedOperationError reports that an operation could not be
// partitioned or compared because it (or a selection reached while
// partitioning/comparing it) uses a form this package does not implement:
// a mutation, a subscription, or an inline fragment. Inline fragments are
// an explicit non-goal rather than an oversight — see the design notes in
// DESIGN.md.
type UnsupportedOperationError struct {
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedOperation, e.Reason)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

func unsupportedf(format string, args ...interface{}) error {
	return &UnsupportedOperationError{Reason: fmt.Sprintf(format, args...)}
}
