package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/tareas/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB opens a file-backed SQLite database in a temp dir and runs migrations.
// The database is closed when the test finishes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _ := setupTestDBFile(t)
	return db
}

// setupTestDBFile is setupTestDB that also returns the database path, for restart tests
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tareas-test.db")

	db, err := Open(context.Background(), DialectSQLite, dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, dbPath
}

// closeAndReopenDB simulates an app restart by closing and reopening the database
func closeAndReopenDB(t *testing.T, db *sql.DB, dbPath string) *sql.DB {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	newDB, err := Open(context.Background(), DialectSQLite, dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	t.Cleanup(func() { _ = newDB.Close() })

	return newDB
}

// ============================================================================
// FIXTURES
// ============================================================================

// baseTime is the creation clock used by fixtures; each call to createTestTask
// advances it so ordering by created_at is deterministic.
var baseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// createTestTask inserts a task created offset minutes after baseTime
func createTestTask(t *testing.T, repo *TaskRepo, title string, offset int) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), CreateTaskParams{
		Title:     title,
		CreatedAt: baseTime.Add(time.Duration(offset) * time.Minute),
		DueDate:   datePtr(2024, 1, 8),
	})
	if err != nil {
		t.Fatalf("Failed to create task %q: %v", title, err)
	}
	return task
}

// setTestStatus flips a task's status directly; the repository never exposes it
func setTestStatus(t *testing.T, db *sql.DB, id int, status bool) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(),
		"UPDATE tareas SET status = ? WHERE id = ?", status, id); err != nil {
		t.Fatalf("Failed to set status on task %d: %v", id, err)
	}
}

func taskIDs(tasks []*models.Task) []int {
	ids := make([]int, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
