package models

import "time"

// TitleMaxLength is the longest title, in characters, the tareas table accepts.
const TitleMaxLength = 150

// Task represents a single row of the tareas table
type Task struct {
	ID          int
	Title       string
	Description *string // nil when the task has no description
	Status      bool
	CreatedAt   time.Time
	DueDate     *time.Time // calendar date at UTC midnight, nil when unset
}

// GetID returns the task ID.
// Used by the CLI output formatter in quiet mode.
func (t *Task) GetID() int {
	return t.ID
}
