package app

import (
	"log/slog"
	"time"

	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger    *slog.Logger
	taskOpts  []taskservice.Option
	exclusive bool
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithClock sets the clock the task service reads
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.taskOpts = append(cfg.taskOpts, taskservice.WithClock(now))
	}
}

// WithLocation sets the zone used to decide today's date
func WithLocation(loc *time.Location) Option {
	return func(cfg *appConfig) {
		cfg.taskOpts = append(cfg.taskOpts, taskservice.WithLocation(loc))
	}
}

// WithDefaultDueDays sets the due date offset for tasks created without one
func WithDefaultDueDays(days int) Option {
	return func(cfg *appConfig) {
		cfg.taskOpts = append(cfg.taskOpts, taskservice.WithDefaultDueDays(days))
	}
}

// WithInstanceLock makes Open take an exclusive lock next to a SQLite
// database file, failing with ErrLocked if another process holds it
func WithInstanceLock() Option {
	return func(cfg *appConfig) {
		cfg.exclusive = true
	}
}
