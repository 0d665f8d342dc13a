package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/tareas/internal/database"
	"github.com/thenoetrevino/tareas/internal/models"
)

// DefaultDueDays is how far after today a new task is due when no date is given
const DefaultDueDays = 7

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, taskID int) (*models.Task, error)
	ListTasks(ctx context.Context, req ListTasksRequest) ([]*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID int) (bool, error)

	// TestConnectivity probes the store. It never fails; the message explains the result.
	TestConnectivity(ctx context.Context) (bool, string)
}

// CreateTaskRequest encapsulates all data needed to create a task
type CreateTaskRequest struct {
	Title       string
	Description *string
	DueDate     *time.Time // Optional: nil means today + default due days
}

// UpdateTaskRequest encapsulates all data needed to update a task.
// Title and Description are always written; DueDate nil keeps the stored date.
type UpdateTaskRequest struct {
	TaskID      int
	Title       string
	Description *string
	DueDate     *time.Time
}

// ListTasksRequest carries the optional equality filters for a listing
type ListTasksRequest struct {
	Title  *string
	Status *bool
}

// service implements Service interface
type service struct {
	repo           database.TaskStore
	now            func() time.Time
	location       *time.Location
	defaultDueDays int
	logger         *slog.Logger
}

// NewService creates a new task service
func NewService(repo database.TaskStore, opts ...Option) Service {
	s := &service{
		repo:           repo,
		now:            time.Now,
		location:       time.Local,
		defaultDueDays: DefaultDueDays,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask handles task creation with validation and business rules
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := models.DateOnly(now.In(s.location))

	var dueDate time.Time
	if req.DueDate != nil {
		dueDate = models.DateOnly(*req.DueDate)
		if dueDate.Before(today) {
			return nil, ErrDueDateInPast
		}
	} else {
		dueDate = today.AddDate(0, 0, s.defaultDueDays)
	}

	task, err := s.repo.CreateTask(ctx, database.CreateTaskParams{
		Title:       title,
		Description: req.Description,
		CreatedAt:   now.UTC().Truncate(time.Microsecond),
		DueDate:     &dueDate,
	})
	if err != nil {
		return nil, s.translate("create", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "title", task.Title, "due_date", models.FormatDate(task.DueDate))
	return task, nil
}

// UpdateTask handles task updates with validation
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error) {
	if req.TaskID <= 0 {
		return nil, ErrInvalidTaskID
	}

	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		d := models.DateOnly(*req.DueDate)
		if d.Before(models.DateOnly(s.now().In(s.location))) {
			return nil, ErrDueDateInPast
		}
		dueDate = &d
	}

	task, err := s.repo.UpdateTask(ctx, database.UpdateTaskParams{
		ID:          req.TaskID,
		Title:       title,
		Description: req.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		return nil, s.translate("update", err)
	}

	s.logger.Info("task updated", "task_id", task.ID)
	return task, nil
}

// DeleteTask removes a task, reporting false when no row had that ID
func (s *service) DeleteTask(ctx context.Context, taskID int) (bool, error) {
	if taskID <= 0 {
		return false, ErrInvalidTaskID
	}

	deleted, err := s.repo.DeleteTask(ctx, taskID)
	if err != nil {
		return false, s.translate("delete", err)
	}

	if deleted {
		s.logger.Info("task deleted", "task_id", taskID)
	}
	return deleted, nil
}

// GetTask returns a single task
func (s *service) GetTask(ctx context.Context, taskID int) (*models.Task, error) {
	if taskID <= 0 {
		return nil, ErrInvalidTaskID
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, s.translate("get", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the optional filters, oldest first
func (s *service) ListTasks(ctx context.Context, req ListTasksRequest) ([]*models.Task, error) {
	filter := database.NewTaskFilter(req.Title, req.Status)

	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, s.translate("list", err)
	}

	s.logger.Debug("tasks listed", "filter", filter.String(), "count", len(tasks))
	return tasks, nil
}

// TestConnectivity reports whether the store is reachable
func (s *service) TestConnectivity(ctx context.Context) (bool, string) {
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("database connectivity check failed", "error", err)
		return false, "database connection failed: " + err.Error()
	}
	return true, "database connection succeeded"
}

// ============================================================================
// HELPERS
// ============================================================================

// validateTitle trims the title and checks it is non-empty and short enough
func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > models.TitleMaxLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// translate maps repository errors onto the service taxonomy.
// Anything unrecognised is a StoreError.
func (s *service) translate(op string, err error) error {
	switch {
	case errors.Is(err, database.ErrDuplicateTitle):
		return ErrDuplicateTitle
	case errors.Is(err, database.ErrNotFound):
		return ErrTaskNotFound
	}
	s.logger.Error("task store operation failed", "op", op, "error", err)
	return &StoreError{Op: op, Err: err}
}
