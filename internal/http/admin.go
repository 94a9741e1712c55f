package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evycast/inclusiva-sub001/internal/model"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context(), listLimit(r, 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, summarize(user))
	}
	writeJSON(w, http.StatusOK, summaries)
}

type updateUserAccessRequest struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// handleUpdateUserAccess lets an admin change a user's role or account
// status. Already-issued session tokens keep their old role until
// expiry unless the denylist is in play.
func (s *Server) handleUpdateUserAccess(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req updateUserAccessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Role == nil && req.Status == nil {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	// Validate the whole request before touching the store, so a 400
	// never leaves a half-applied change behind.
	var role model.Role
	var status model.Status
	if req.Role != nil {
		parsed, ok := model.ParseRole(*req.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_role")
			return
		}
		role = parsed
	}
	if req.Status != nil {
		parsed, ok := model.ParseStatus(*req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		status = parsed
	}

	if req.Role != nil {
		updated, err := s.store.UpdateUserRole(r.Context(), userID, role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if !updated {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
	}

	if req.Status != nil {
		updated, err := s.store.UpdateUserStatus(r.Context(), userID, status)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if !updated {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, summarize(user))
}
