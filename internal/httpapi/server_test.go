package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tareas/internal/database"
	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
	db      *database.Repository
	metrics *Metrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "api-test.db")

	db, err := database.Open(context.Background(), database.DialectSQLite, dbPath)
	require.NoError(t, err)
	repo := database.NewRepository(db, database.DialectSQLite)
	t.Cleanup(func() { _ = repo.Close() })

	svc := taskservice.NewService(repo,
		taskservice.WithClock(func() time.Time { return fixedNow }),
		taskservice.WithLocation(time.UTC),
	)
	metrics := NewMetrics()
	srv := httptest.NewServer(NewRouter(svc,
		WithMetrics(metrics),
		WithCORSOrigins([]string{"http://localhost:4200"}),
	))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, db: repo, metrics: metrics}
}

// do sends a request with an optional JSON body and returns status and raw body
func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (s *testServer) create(t *testing.T, body string) TaskResponse {
	t.Helper()
	resp, data := s.do(t, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var task TaskResponse
	require.NoError(t, json.Unmarshal(data, &task))
	return task
}

func decodeError(t *testing.T, data []byte) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(data, &e), string(data))
	return e
}

func TestCreateTaskEndpoint(t *testing.T) {
	s := setupTestServer(t)

	resp, data := s.do(t, http.MethodPost, "/tasks", `{"title":"Buy milk","description":"2 liters"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var task TaskResponse
	require.NoError(t, json.Unmarshal(data, &task))
	assert.Equal(t, fmt.Sprintf("/tasks/%d", task.ID), resp.Header.Get("Location"))
	assert.Equal(t, "Buy milk", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "2 liters", *task.Description)
	assert.False(t, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-01-08", *task.DueDate)
	assert.True(t, task.CreatedAt.Equal(fixedNow))

	// Raw shape: nullable fields are present, dates are plain strings
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-01-08", raw["due_date"])
	assert.Equal(t, "2024-01-01T10:00:00Z", raw["created_at"])
}

func TestCreateTaskEndpoint_Errors(t *testing.T) {
	s := setupTestServer(t)
	s.create(t, `{"title":"Taken"}`)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty title", `{"title":"   "}`, "task title cannot be empty"},
		{"long title", fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 151)), "task title cannot exceed 150 characters"},
		{"duplicate", `{"title":"Taken"}`, "a task with this title already exists"},
		{"past due date", `{"title":"Late","due_date":"2023-12-31"}`, "due date cannot be before today"},
		{"unparsable due date", `{"title":"Odd","due_date":"next week"}`, `invalid date "next week": expected YYYY-MM-DD`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := s.do(t, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := decodeError(t, data)
			assert.Equal(t, tt.wantMsg, e.Error)
			assert.Empty(t, e.Detail, "client errors carry no diagnostic detail")
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		resp, data := s.do(t, http.MethodPost, "/tasks", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.True(t, strings.HasPrefix(decodeError(t, data).Error, "invalid request payload"))
	})
}

func TestCreateTaskEndpoint_RFC3339DueDate(t *testing.T) {
	s := setupTestServer(t)

	task := s.create(t, `{"title":"Timestamped","due_date":"2024-02-10T15:04:05Z"}`)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-02-10", *task.DueDate)
}

func TestListTasksEndpoint(t *testing.T) {
	s := setupTestServer(t)

	resp, data := s.do(t, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(data), "empty store lists as an empty array")

	milk := s.create(t, `{"title":"Buy milk"}`)
	dog := s.create(t, `{"title":"Walk dog"}`)
	_, err := s.db.DB().ExecContext(context.Background(), "UPDATE tareas SET status = ? WHERE id = ?", true, dog.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"all", "", []int{milk.ID, dog.ID}},
		{"title", "?title=Buy%20milk", []int{milk.ID}},
		{"status", "?status=true", []int{dog.ID}},
		{"both", "?title=Walk%20dog&status=false", []int{}},
		{"blank title", "?title=", []int{milk.ID, dog.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := s.do(t, http.MethodGet, "/tasks"+tt.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var tasks []TaskResponse
			require.NoError(t, json.Unmarshal(data, &tasks))
			ids := []int{}
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("bad status", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/tasks?status=maybe", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetTaskEndpoint(t *testing.T) {
	s := setupTestServer(t)
	task := s.create(t, `{"title":"Find me"}`)

	resp, data := s.do(t, http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got TaskResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, task.ID, got.ID)

	resp, _ = s.do(t, http.MethodGet, "/tasks/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = s.do(t, http.MethodGet, "/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid task ID", decodeError(t, data).Error)
}

func TestUpdateTaskEndpoint(t *testing.T) {
	s := setupTestServer(t)
	task := s.create(t, `{"title":"Draft","description":"v1"}`)
	path := fmt.Sprintf("/tasks/%d", task.ID)

	resp, data := s.do(t, http.MethodPut, path, `{"title":"Final"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var updated TaskResponse
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "Final", updated.Title)
	assert.Nil(t, updated.Description, "description is replaced, including with null")
	assert.Equal(t, *task.DueDate, *updated.DueDate, "omitted due date is kept")

	resp, data = s.do(t, http.MethodPut, path, `{"title":"Final","due_date":"2024-03-01"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "2024-03-01", *updated.DueDate)

	resp, _ = s.do(t, http.MethodPut, "/tasks/4242", `{"title":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, path, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteTaskEndpoint(t *testing.T) {
	s := setupTestServer(t)
	task := s.create(t, `{"title":"Short lived"}`)
	path := fmt.Sprintf("/tasks/%d", task.ID)

	resp, data := s.do(t, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"deleted":true}`, string(data))

	resp, _ = s.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/tasks/0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConnectivityEndpoints(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/health", "/api/test-connection"} {
		resp, data := s.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"connected":true,"message":"database connection succeeded"}`, string(data))
	}

	require.NoError(t, s.db.Close())

	resp, data := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "probe never fails")
	var body connectivityResponse
	require.NoError(t, json.Unmarshal(data, &body))
	assert.False(t, body.Connected)
	assert.True(t, strings.HasPrefix(body.Message, "database connection failed: "))
}

func TestStoreFailureReturns500WithDetail(t *testing.T) {
	s := setupTestServer(t)
	require.NoError(t, s.db.Close())

	resp, data := s.do(t, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	e := decodeError(t, data)
	assert.Equal(t, "internal server error", e.Error)
	assert.NotEmpty(t, e.Detail)
	assert.EqualValues(t, 1, s.metrics.ServerErrors.Load())
}

func TestMiddleware(t *testing.T) {
	s := setupTestServer(t)

	t.Run("request id generated and echoed", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodGet, "/health", "")
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

		req, err := http.NewRequest(http.MethodGet, s.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err = s.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	})

	t.Run("cors preflight for allowed origin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, s.URL+"/tasks", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		resp, err := s.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
	})

	t.Run("cors exposes location on actual requests", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, s.URL+"/tasks", strings.NewReader(`{"title":"From browser"}`))
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "Location")
	})

	t.Run("cors ignores other origins", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, s.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")
		resp, err := s.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route is json 404", func(t *testing.T) {
		resp, data := s.do(t, http.MethodGet, "/nope", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "route not found", decodeError(t, data).Error)
	})
}

func TestPanicRecovery(t *testing.T) {
	var logs bytes.Buffer
	o := &options{
		logger:  slog.New(slog.NewTextHandler(&logs, nil)),
		metrics: NewMetrics(),
	}
	h := withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), o)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.EqualValues(t, 1, o.metrics.ServerErrors.Load())
	assert.EqualValues(t, 0, o.metrics.InFlight.Load())
	assert.Contains(t, logs.String(), "panic serving request")
	assert.Contains(t, logs.String(), "boom")
}

func TestNoCORSOriginsDisablesCORS(t *testing.T) {
	h := withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), &options{logger: slog.Default(), metrics: NewMetrics()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	task := s.create(t, `{"title":"Counted"}`)
	s.do(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), "")

	resp, data := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap MetricsSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.EqualValues(t, 1, snap.TasksCreated)
	assert.EqualValues(t, 1, snap.TasksDeleted)
	assert.GreaterOrEqual(t, snap.RequestsTotal, int64(2))
}
