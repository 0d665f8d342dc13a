package database

import (
	"context"

	"github.com/thenoetrevino/tareas/internal/models"
)

// TaskReader defines read operations for tasks.
type TaskReader interface {
	GetTask(ctx context.Context, id int) (*models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
}

// TaskWriter defines write operations for tasks.
// Each call runs in its own transaction.
type TaskWriter interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
}

// TaskStore combines all task operations plus a connectivity probe.
type TaskStore interface {
	TaskReader
	TaskWriter
	Ping(ctx context.Context) error
}
