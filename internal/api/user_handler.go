package api

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

// Users have no default list cap; 0 means uncapped.
const defaultUserLimit = 0

// UserRequest is the request body for creating or replacing a user.
// pendingTasks may be a JSON array of task IDs or a comma-separated string.
type UserRequest struct {
	Name         string      `json:"name"  validate:"required"`
	Email        string      `json:"email" validate:"required"`
	PendingTasks PendingList `json:"pendingTasks"`
}

// UserHandler handles user-related HTTP requests.
// Reads go straight through the query layer to the store; mutations go
// through the UserService so reconciliation runs.
type UserHandler struct {
	userService *service.UserService
	users       store.UserStore
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
// If logger is nil, the default logger is used.
func NewUserHandler(userService *service.UserService, users store.UserStore, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		users:       users,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /api/users requests.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := store.ParseListQuery(r.URL.Query(), defaultUserLimit)

	if q.Count {
		n, err := h.users.Count(r.Context(), q.Where)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, map[string]int64{"count": n})
		return
	}

	docs, err := h.users.Find(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, docs)
}

// GetUser handles GET /api/users/{id} requests.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	sel := store.ParseProjection(r.URL.Query().Get("select"))
	if sel == nil {
		sel = store.ParseProjection(r.URL.Query().Get("filter"))
	}

	doc, err := h.users.FindOne(r.Context(), id, sel)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, doc)
}

// CreateUser handles POST /api/users requests. Seeding pendingTasks claims
// those tasks for the new user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}

	user, err := h.userService.Create(r.Context(), service.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, shared.MessageCreated, user)
}

// UpdateUser handles PUT /api/users/{id} requests with full replacement
// semantics.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	var req UserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, service.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, shared.MessageOK, user)
}

// DeleteUser handles DELETE /api/users/{id} requests. Every task the user
// held is released back to the unassigned state.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, nil)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}
