package api

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/go-chi/chi/v5"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

// urlID extracts and parses the {id} URL segment.
// A malformed ID cannot name any document, so callers treat ok=false the
// same as a missing one (404).
func urlID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps the error taxonomy to the response envelope:
// not-found → 404, validation and duplicate-key failures → 400, anything
// else is a store failure → 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsNotFoundError(err):
		shared.RespondWithError(w, r, http.StatusNotFound, shared.MessageNotFound, err)
	case service.IsValidationError(err),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrInvalidEntity):
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.MessageBadRequest, err)
	default:
		shared.RespondWithError(w, r, http.StatusInternalServerError, shared.MessageServerError, err)
	}
}
