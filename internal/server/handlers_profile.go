package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spendbook/backend/internal/model"
)

type profileListResponse struct {
	Profiles        []*model.Profile `json:"profiles"`
	ActiveProfileID string           `json:"activeProfileId,omitempty"`
	State           string           `json:"state"`
	Error           string           `json:"error,omitempty"`
}

// listProfiles returns the session's profile cache. A failed load is
// reported inline alongside whatever stale data the cache retains, so the
// client stays usable.
func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	resp := profileListResponse{
		Profiles: sess.Profiles.Profiles(),
		State:    sess.Profiles.State().String(),
	}
	if active := sess.Profiles.Active(); active != nil {
		resp.ActiveProfileID = active.ID
	}
	if err := sess.Profiles.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var in model.CreateProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := sess.Profiles.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	// The first profile becomes active, so the expense cache may need a new
	// binding.
	if err := sess.SyncExpenses(r.Context()); err != nil {
		s.logger.Warn("expense sync failed after profile create", "error", err)
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) refreshProfiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	if err := sess.Profiles.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.SyncExpenses(r.Context()); err != nil {
		s.logger.Warn("expense sync failed after refresh", "error", err)
	}
	s.listProfiles(w, r)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var patch model.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	if err := sess.Profiles.Update(r.Context(), chi.URLParam(r, "profileID"), patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	if err := sess.Profiles.Delete(r.Context(), chi.URLParam(r, "profileID")); err != nil {
		writeError(w, err)
		return
	}
	// Deleting the active profile promotes the next one; re-bind expenses.
	if err := sess.SyncExpenses(r.Context()); err != nil {
		s.logger.Warn("expense sync failed after profile delete", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	if err := sess.Profiles.SetActive(chi.URLParam(r, "profileID")); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.SyncExpenses(r.Context()); err != nil {
		s.logger.Warn("expense sync failed after activation", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
