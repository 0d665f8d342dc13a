package database

import (
	"database/sql"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*TaskRepo
	db      *sql.DB
	dialect Dialect
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		TaskRepo: NewTaskRepo(db, dialect),
		db:       db,
		dialect:  dialect,
	}
}

// Dialect reports which SQL backend the repository talks to
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// DB exposes the underlying connection pool for lifecycle management.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close releases the connection pool
func (r *Repository) Close() error {
	return r.db.Close()
}

var _ TaskStore = (*Repository)(nil)
