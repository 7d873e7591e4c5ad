package api

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

// defaultTaskLimit caps task list reads when no limit parameter is given.
const defaultTaskLimit = 100

// TaskRequest is the request body for creating or replacing a task.
//
// assignedUserName is deliberately absent: it is a server-owned denormalized
// cache, always recomputed from the resolved owner.
type TaskRequest struct {
	Name         string   `json:"name"        validate:"required"`
	Description  string   `json:"description"`
	Deadline     FlexTime `json:"deadline"`
	Completed    FlexBool `json:"completed"`
	AssignedUser string   `json:"assignedUser"`
}

// TaskHandler handles task-related HTTP requests.
// Reads go straight through the query layer to the store; mutations go
// through the TaskService so reconciliation runs.
type TaskHandler struct {
	taskService *service.TaskService
	tasks       store.TaskStore
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
// If logger is nil, the default logger is used.
func NewTaskHandler(taskService *service.TaskService, tasks store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		tasks:       tasks,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests.
// Supports where/sort/select/skip/limit/count query parameters; malformed
// parameters fall back to their defaults.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := store.ParseListQuery(r.URL.Query(), defaultTaskLimit)

	if q.Count {
		n, err := h.tasks.Count(r.Context(), q.Where)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, map[string]int64{"count": n})
		return
	}

	docs, err := h.tasks.Find(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, docs)
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	sel := store.ParseProjection(r.URL.Query().Get("select"))
	if sel == nil {
		sel = store.ParseProjection(r.URL.Query().Get("filter"))
	}

	doc, err := h.tasks.FindOne(r.Context(), id, sel)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, doc)
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), service.TaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Deadline:     req.Deadline.Time,
		Completed:    bool(req.Completed),
		AssignedUser: req.AssignedUser,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, shared.MessageCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id} requests with full replacement
// semantics.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, service.TaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Deadline:     req.Deadline.Time,
		Completed:    bool(req.Completed),
		AssignedUser: req.AssignedUser,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}
