package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendbook/backend/internal/auth"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/session"
	"github.com/spendbook/backend/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses: validation 400,
// missing auth 401, unknown documents 404, missing composite index and other
// persistence failures 500 with distinct codes.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var indexErr *store.IndexRequiredError
	var persistErr *store.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Error(), Code: "validation"})
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, session.ErrSignedOut):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error(), Code: "unauthenticated"})
	case errors.Is(err, session.ErrNoActiveProfile):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "no_active_profile"})
	case errors.Is(err, session.ErrUnknownProfile), errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "not_found"})
	case errors.As(err, &indexErr):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Code: "index_required"})
	case errors.As(err, &persistErr):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Code: "persistence"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// decodeJSON decodes a request body, rejecting unknown fields so malformed
// or stale clients fail loudly at the boundary.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &model.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
