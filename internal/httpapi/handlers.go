package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	taskservice "github.com/thenoetrevino/tareas/internal/services/task"
)

// maxBodyBytes bounds request bodies; a task is a title and a short description
const maxBodyBytes = 1 << 20

// Handlers holds the task service, allowing methods to share it.
type Handlers struct {
	svc     taskservice.Service
	metrics *Metrics
}

// NewHandlers is a constructor for the Handlers struct.
func NewHandlers(svc taskservice.Service, metrics *Metrics) *Handlers {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handlers{svc: svc, metrics: metrics}
}

// ListTasks handles GET /tasks with optional title and status filters
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req taskservice.ListTasksRequest
	if q.Has("title") {
		title := q.Get("title")
		req.Title = &title
	}
	if raw := q.Get("status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, badRequest(fmt.Sprintf("invalid status filter %q: expected true or false", raw)))
			return
		}
		req.Status = &status
	}

	tasks, err := h.svc.ListTasks(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToTaskResponses(tasks))
}

// GetTask handles GET /tasks/{id}
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToTaskResponse(task))
}

// CreateTask handles POST /tasks
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	body, err := decodeTaskRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		writeError(w, r, badRequest(err.Error()))
		return
	}

	task, err := h.svc.CreateTask(r.Context(), taskservice.CreateTaskRequest{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.TasksCreated.Add(1)
	w.Header().Set("Location", fmt.Sprintf("/tasks/%d", task.ID))
	writeJSON(w, http.StatusCreated, ToTaskResponse(task))
}

// UpdateTask handles PUT /tasks/{id}
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := decodeTaskRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dueDate, err := parseDueDate(body.DueDate)
	if err != nil {
		writeError(w, r, badRequest(err.Error()))
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), taskservice.UpdateTaskRequest{
		TaskID:      id,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metrics.TasksUpdated.Add(1)
	writeJSON(w, http.StatusOK, ToTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}. A missing task is a 404.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deleted, err := h.svc.DeleteTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, taskservice.ErrTaskNotFound)
		return
	}

	h.metrics.TasksDeleted.Add(1)
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: true})
}

// TestConnection handles GET /health and GET /api/test-connection. It always answers 200.
func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	ok, msg := h.svc.TestConnectivity(r.Context())
	writeJSON(w, http.StatusOK, connectivityResponse{Connected: ok, Message: msg})
}

// Metrics handles GET /metrics
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// taskID reads the {id} route variable
func taskID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, taskservice.ErrInvalidTaskID
	}
	return id, nil
}

func decodeTaskRequest(w http.ResponseWriter, r *http.Request) (*TaskRequest, error) {
	defer func() { _ = r.Body.Close() }()

	var body TaskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return nil, badRequest("invalid request payload: " + err.Error())
	}
	return &body, nil
}
