package cli

import (
	"errors"

	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, unknown flags or bad flag values.
	ExitUsage = 2

	// ExitNotFound indicates the requested task does not exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data, such as an unparsable due date.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty or overlong titles, invalid IDs, due dates in the past.
	ExitValidation = 5

	// ExitConflict indicates the change clashes with existing data, such as a duplicate title.
	ExitConflict = 6
)

// ErrUsage marks command-line usage mistakes
var ErrUsage = errors.New("usage error")

// ErrData marks input that could not be parsed
var ErrData = errors.New("invalid data")

// ExitCodeFor picks the process exit code for an error returned by a command
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrData):
		return ExitDataErr
	case errors.Is(err, taskservice.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, taskservice.ErrConflict):
		return ExitConflict
	case errors.Is(err, taskservice.ErrValidation), errors.Is(err, taskservice.ErrDueDate):
		return ExitValidation
	}
	return ExitError
}
