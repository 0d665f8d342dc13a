package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// errBadRequest marks request-shape problems found before the service is called
var errBadRequest = errors.New("bad request")

// writeJSON encodes payload with the given status
func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service errors onto HTTP status codes.
// Store failures are the only case that exposes a diagnostic detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var storeErr *taskservice.StoreError
	switch {
	case errors.As(err, &storeErr):
		slog.Error("request failed", "request_id", RequestIDFrom(r.Context()), "op", storeErr.Op, "error", storeErr.Err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "internal server error",
			Detail: storeErr.Err.Error(),
		})
	case errors.Is(err, taskservice.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, taskservice.ErrValidation),
		errors.Is(err, taskservice.ErrConflict),
		errors.Is(err, taskservice.ErrDueDate),
		errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error("unexpected error", "request_id", RequestIDFrom(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// badRequest wraps a message so writeError answers 400 with it
func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return errBadRequest }
