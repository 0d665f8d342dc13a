// Package httpapi exposes the task service as a JSON REST API
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// Option configures the router
type Option func(*options)

type options struct {
	logger      *slog.Logger
	metrics     *Metrics
	corsOrigins []string
}

// WithLogger sets the access logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics shares a Metrics instance with the caller
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API. "*" allows any.
func WithCORSOrigins(origins []string) Option {
	return func(o *options) {
		o.corsOrigins = origins
	}
}

// NewRouter builds the HTTP handler for the task API
func NewRouter(svc taskservice.Service, opts ...Option) http.Handler {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}

	h := NewHandlers(svc, o.metrics)

	router := mux.NewRouter()
	router.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	router.HandleFunc("/health", h.TestConnection).Methods(http.MethodGet)
	router.HandleFunc("/api/test-connection", h.TestConnection).Methods(http.MethodGet)
	router.HandleFunc("/metrics", h.Metrics).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return withMiddleware(router, o)
}

// withMiddleware wraps h with, outermost first: CORS, request IDs, the
// access log and panic recovery. Recovery sits inside the access log so a
// panic is logged and counted as a 500.
func withMiddleware(h http.Handler, o *options) http.Handler {
	h = recoverer(o.logger)(h)
	h = accessLog(o.logger, o.metrics)(h)
	h = requestID(h)
	return cors(o.corsOrigins)(h)
}

// NewServer wraps handler in an http.Server with conservative timeouts
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
