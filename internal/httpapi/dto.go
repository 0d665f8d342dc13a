package httpapi

import (
	"strings"
	"time"

	"github.com/thenoetrevino/tareas/internal/models"
)

// TaskResponse is the JSON shape of a task record
type TaskResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     *string   `json:"due_date"`
}

// TaskRequest is the body accepted by POST /tasks and PUT /tasks/{id}.
// DueDate may be YYYY-MM-DD or RFC3339.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

type connectivityResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ToTaskResponse converts a model into its wire form
func ToTaskResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC(),
	}
	if t.DueDate != nil {
		d := models.FormatDate(t.DueDate)
		resp.DueDate = &d
	}
	return resp
}

// ToTaskResponses converts a slice, never returning nil so empty lists encode as []
func ToTaskResponses(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

// parseDueDate turns an optional wire date into a time. Blank counts as absent.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
