package bridge

import (
	"errors"
	"fmt"
)

// ValidationError indicates a required argument was missing or had the
// wrong shape. The protocol layer's schema should catch these before the
// core ever sees them, but the core still rejects defensively.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid required field: %s", e.Field)
}

// NotFoundError indicates a referenced task does not exist.
type NotFoundError struct {
	TaskID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// UnknownOperationError indicates an operation name outside the fixed
// set of nine bridge operations.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Name)
}

// UnknownResourceError indicates a read of a resource name other than
// messages, tasks or context. Unlike operation errors this is a genuine
// fault: the protocol layer propagates it instead of wrapping it in a
// result envelope.
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource: %s", e.Name)
}

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
