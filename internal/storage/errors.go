// ABOUTME: Error values for the record store and connection provider.
// ABOUTME: Separates caller contract violations from absorbed database failures.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a caller contract violation: a nil record,
	// a non-positive id, or measurements that fail validation. These are
	// always returned, never absorbed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOperationFailed marks a database or transport failure. The store
	// logs these and degrades to the weakest truthful result.
	ErrOperationFailed = errors.New("operation failed")

	// ErrConnection is the caller-safe error for a connection that could
	// not be established. The driver's own message is only logged.
	ErrConnection = errors.New("invalid credentials or server unavailable")
)

// OperationError carries the failing store operation and its cause.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes every OperationError match ErrOperationFailed.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

func invalidArgument(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func invalidRecord(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, cause)
}
