package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/thenoetrevino/tareas/internal/models"
)

// Errors reported by TaskRepo. The service layer translates them into its own taxonomy.
var (
	ErrNotFound       = errors.New("task not found")
	ErrDuplicateTitle = errors.New("task title already exists")
)

const taskTable = "tareas"

var taskColumns = []string{"id", "title", "description", "status", "created_at", "due_date"}

// CreateTaskParams holds a fully validated new row
type CreateTaskParams struct {
	Title       string
	Description *string
	CreatedAt   time.Time
	DueDate     *time.Time
}

// UpdateTaskParams holds a fully validated update.
// A nil DueDate keeps the stored value.
type UpdateTaskParams struct {
	ID          int
	Title       string
	Description *string
	DueDate     *time.Time
}

// TaskRepo handles data access for the tareas table.
// No validation here beyond what the schema and the uniqueness check enforce.
type TaskRepo struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewTaskRepo creates a task repository over db
func NewTaskRepo(db *sql.DB, dialect Dialect) *TaskRepo {
	return &TaskRepo{db: db, sq: dialect.statementBuilder()}
}

// ============================================================================
// CRUD OPERATIONS
// ============================================================================

// CreateTask checks the title is free and inserts the row in one transaction.
// Status always starts false.
func (r *TaskRepo) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	var task *models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		taken, err := r.titleTaken(ctx, tx, params.Title, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}

		query, args, err := r.sq.Insert(taskTable).
			Columns("title", "description", "status", "created_at", "due_date").
			Values(
				params.Title,
				nullStringFromPtr(params.Description),
				false,
				params.CreatedAt.UTC(),
				nullTimeFromPtr(params.DueDate),
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}

		var id int
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTitle
			}
			return fmt.Errorf("failed to insert task: %w", err)
		}

		// Retrieve the created task to get the stored values
		task, err = r.selectTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task by ID
func (r *TaskRepo) GetTask(ctx context.Context, id int) (*models.Task, error) {
	query, args, err := r.selectTasks(NoFilter{}).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

// ListTasks retrieves the tasks matching filter, oldest first
func (r *TaskRepo) ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	if filter == nil {
		filter = NoFilter{}
	}

	query, args, err := r.selectTasks(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query (%s): %w", filter, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks (%s): %w", filter, err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks (%s): %w", filter, err)
	}
	return tasks, nil
}

// UpdateTask rewrites title and description, and the due date when one is given,
// inside one transaction. The title check excludes the task's own row.
func (r *TaskRepo) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	var task *models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := r.countTasks(ctx, tx, squirrel.Eq{"id": params.ID})
		if err != nil {
			return fmt.Errorf("failed to check task %d: %w", params.ID, err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		taken, err := r.titleTaken(ctx, tx, params.Title, params.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}

		update := r.sq.Update(taskTable).
			Set("title", params.Title).
			Set("description", nullStringFromPtr(params.Description))
		if params.DueDate != nil {
			update = update.Set("due_date", *params.DueDate)
		}
		query, args, err := update.Where(squirrel.Eq{"id": params.ID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTitle
			}
			return fmt.Errorf("failed to update task %d: %w", params.ID, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return ErrNotFound
		}

		task, err = r.selectTask(ctx, tx, params.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and reports whether a row was actually deleted
func (r *TaskRepo) DeleteTask(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := r.sq.Delete(taskTable).Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Ping verifies the database answers a trivial query
func (r *TaskRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return err
	}
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

// ============================================================================
// HELPERS
// ============================================================================

// titleTaken reports whether another task already uses title.
// Pass excludeID=0 when creating.
func (r *TaskRepo) titleTaken(ctx context.Context, tx *sql.Tx, title string, excludeID int) (bool, error) {
	n, err := r.countTasks(ctx, tx, squirrel.And{
		squirrel.Eq{"title": title},
		squirrel.NotEq{"id": excludeID},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	return n > 0, nil
}

// countTasks counts the rows matching pred inside tx
func (r *TaskRepo) countTasks(ctx context.Context, tx *sql.Tx, pred squirrel.Sqlizer) (int, error) {
	query, args, err := r.sq.Select("COUNT(*)").From(taskTable).Where(pred).ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// selectTasks builds the listing query for filter, oldest first
func (r *TaskRepo) selectTasks(filter TaskFilter) squirrel.SelectBuilder {
	sel := r.sq.Select(taskColumns...).From(taskTable)
	if pred := filter.predicate(); pred != nil {
		sel = sel.Where(pred)
	}
	return sel.OrderBy("created_at ASC", "id ASC")
}

// selectTask reads one row inside tx
func (r *TaskRepo) selectTask(ctx context.Context, tx *sql.Tx, id int) (*models.Task, error) {
	query, args, err := r.selectTasks(NoFilter{}).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	task, err := scanTask(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task %d: %w", id, err)
	}
	return task, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task        models.Task
		description sql.NullString
		dueDate     sql.NullTime
	)
	if err := row.Scan(
		&task.ID, &task.Title, &description, &task.Status, &task.CreatedAt, &dueDate,
	); err != nil {
		return nil, err
	}
	task.Description = nullStringToPtr(description)
	task.DueDate = nullDateToPtr(dueDate)
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}
