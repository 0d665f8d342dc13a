package task

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the service matches exactly one of
// these with errors.Is, which is what the HTTP and CLI layers switch on.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrDueDate    = errors.New("invalid due date")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")
)

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle    = newTaskError(ErrValidation, "task title cannot be empty")
	ErrTitleTooLong  = newTaskError(ErrValidation, "task title cannot exceed 150 characters")
	ErrInvalidTaskID = newTaskError(ErrValidation, "invalid task ID")

	// Business logic errors
	ErrDuplicateTitle = newTaskError(ErrConflict, "a task with this title already exists")
	ErrDueDateInPast  = newTaskError(ErrDueDate, "due date cannot be before today")
	ErrTaskNotFound   = newTaskError(ErrNotFound, "task not found")
)

// taskError is a user-facing message tied to an error class
type taskError struct {
	class error
	msg   string
}

func newTaskError(class error, msg string) error {
	return &taskError{class: class, msg: msg}
}

func (e *taskError) Error() string { return e.msg }

func (e *taskError) Unwrap() error { return e.class }

// StoreError reports an underlying persistence or connectivity failure.
// It matches ErrStore and the original cause with errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}
