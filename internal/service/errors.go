package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	// ErrValidation is the root of all request-level validation failures.
	// These are local to the request and never retried.
	ErrValidation = errors.New("validation failed")

	// ErrAssignedUserNotFound is returned when a task names an owner that
	// does not resolve to an existing user. Assignment to a nonexistent user
	// is rejected before any state change is committed.
	ErrAssignedUserNotFound = fmt.Errorf("%w: assigned user does not exist", ErrValidation)

	// ErrInvalidTaskID is returned when a pendingTasks entry is not a valid
	// task ID.
	ErrInvalidTaskID = fmt.Errorf("%w: invalid task id", ErrValidation)
)

// IsValidationError checks if the error represents a request-level
// validation failure (400-equivalent).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
