package contract

import "fmt"

// ValidationError rejects bad input: a missing field, an unknown id inside
// a payload, a negative quantity. Nothing mutates.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError identifies a missing entity by kind and id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PreconditionError refuses an operation whose inputs are individually
// valid but whose combination is not: an inverted planning window, a
// multi-step BOM without dependencies, accepting a scenario that belongs
// to a different run. The operation is refused atomically.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a write that collides with existing state: a
// duplicate certification, a duplicate employee id, accepting a run whose
// demand already carries plan tasks from another accepted run.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
