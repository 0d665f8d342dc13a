package database

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// TaskFilter selects which predicate a task listing applies.
// The set of implementations is closed: NoFilter, ByTitle, ByStatus and
// ByTitleAndStatus. Every variant is ordered by created_at, then id.
type TaskFilter interface {
	// predicate returns the WHERE condition, or nil to match everything
	predicate() squirrel.Sqlizer
	fmt.Stringer
}

// NoFilter matches every task.
type NoFilter struct{}

// ByTitle matches tasks whose title is exactly Title.
type ByTitle struct {
	Title string
}

// ByStatus matches tasks whose status is Status.
type ByStatus struct {
	Status bool
}

// ByTitleAndStatus matches tasks satisfying both ByTitle and ByStatus.
type ByTitleAndStatus struct {
	Title  string
	Status bool
}

func (NoFilter) predicate() squirrel.Sqlizer { return nil }

func (f ByTitle) predicate() squirrel.Sqlizer { return squirrel.Eq{"title": f.Title} }

func (f ByStatus) predicate() squirrel.Sqlizer { return squirrel.Eq{"status": f.Status} }

func (f ByTitleAndStatus) predicate() squirrel.Sqlizer {
	return squirrel.And{squirrel.Eq{"title": f.Title}, squirrel.Eq{"status": f.Status}}
}

func (NoFilter) String() string { return "all" }

func (f ByTitle) String() string { return fmt.Sprintf("title=%q", f.Title) }

func (f ByStatus) String() string { return fmt.Sprintf("status=%t", f.Status) }

func (f ByTitleAndStatus) String() string {
	return fmt.Sprintf("title=%q status=%t", f.Title, f.Status)
}

// NewTaskFilter picks the filter variant for the optional title and status.
// The title is trimmed before matching; a title that is empty after trimming
// counts as absent. It performs no I/O.
func NewTaskFilter(title *string, status *bool) TaskFilter {
	var t string
	hasTitle := false
	if title != nil {
		t = strings.TrimSpace(*title)
		hasTitle = t != ""
	}

	switch {
	case hasTitle && status != nil:
		return ByTitleAndStatus{Title: t, Status: *status}
	case hasTitle:
		return ByTitle{Title: t}
	case status != nil:
		return ByStatus{Status: *status}
	default:
		return NoFilter{}
	}
}
