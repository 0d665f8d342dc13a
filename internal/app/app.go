package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/thenoetrevino/tareas/internal/config"
	"github.com/thenoetrevino/tareas/internal/database"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// ErrLocked is returned when another server already holds the database lock
var ErrLocked = errors.New("another tareas server is already using this database")

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo *database.Repository

	// Service layer (business logic)
	TaskService taskservice.Service

	// Held while a server owns a SQLite file
	lockFile *flock.Flock
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo *database.Repository, opts ...Option) *App {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	svcOpts := append([]taskservice.Option{taskservice.WithLogger(cfg.logger)}, cfg.taskOpts...)
	return &App{
		repo:        repo,
		TaskService: taskservice.NewService(repo, svcOpts...),
	}
}

// Open connects to the configured database, migrates it and builds the App.
// The caller owns the result and must Close it.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	openCfg := &appConfig{}
	for _, opt := range opts {
		opt(openCfg)
	}

	dialect := cfg.Dialect()

	var lock *flock.Flock
	if openCfg.exclusive && dialect == database.DialectSQLite {
		var err error
		if lock, err = acquireLock(cfg.DSN() + ".lock"); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(ctx, dialect, cfg.DSN())
	if err != nil {
		releaseLock(lock)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	base := []Option{
		WithLocation(cfg.Location()),
		WithDefaultDueDays(cfg.Tasks.DefaultDueDays),
	}
	a := New(database.NewRepository(db, dialect), append(base, opts...)...)
	a.lockFile = lock
	return a, nil
}

// acquireLock takes an exclusive file lock so only one server owns a SQLite file
func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return lock, nil
}

// releaseLock releases the file lock
func releaseLock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Close releases the database connection pool and the instance lock
func (a *App) Close() error {
	defer releaseLock(a.lockFile)

	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
