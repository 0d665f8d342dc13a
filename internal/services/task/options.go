package task

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the service
type Option func(*service)

// WithClock replaces time.Now, used for created_at and for "today"
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone whose calendar decides what "today" is
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDefaultDueDays sets how many days after today a task is due when created without a date
func WithDefaultDueDays(days int) Option {
	return func(s *service) {
		if days >= 0 {
			s.defaultDueDays = days
		}
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
