package http

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evycast/inclusiva-sub001/internal/auth"
	"github.com/evycast/inclusiva-sub001/internal/crypto"
	"github.com/evycast/inclusiva-sub001/internal/model"
	"github.com/evycast/inclusiva-sub001/internal/session"
)

// invalidCredentials is deliberately identical for unknown users and
// wrong passwords.
const invalidCredentials = "Credenciales inválidas"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userSummary struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a compare anyway so the miss costs the same.
			_ = crypto.CheckPassword(crypto.DummyHash, req.Password)
			loginAttempts.WithLabelValues("denied").Inc()
			writeError(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		s.log.Error("login lookup failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		loginAttempts.WithLabelValues("denied").Inc()
		writeError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	token, err := auth.NewSessionToken(s.cfg.JWT.Secret, s.cfg.JWT.Issuer, s.cfg.Session.TokenTTL, user.ID, user.Role)
	if err != nil {
		s.log.Error("token mint failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	session.Set(w, token, s.cfg.Session.TokenTTL, s.cfg.Production())
	loginAttempts.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: summarize(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Best effort: when a denylist is configured and the client still
	// presents a valid token, kill it server-side too. The response is
	// the same either way; logout never fails.
	if s.deny != nil {
		if res := s.gate.Resolve(r.Context(), session.TokenFromRequest(r)); res.OK {
			if err := s.deny.Revoke(r.Context(), res.TokenID, time.Until(res.ExpiresAt)); err != nil {
				s.log.Warn("token revoke failed", "error", err.Error())
			}
		}
	}

	session.Clear(w, s.cfg.Production())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type statusResponse struct {
	OK     bool         `json:"ok"`
	Role   string       `json:"role,omitempty"`
	UserID string       `json:"userId,omitempty"`
	User   *userSummary `json:"user,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res := s.gate.Resolve(r.Context(), session.TokenFromRequest(r))
	if !res.OK {
		writeJSON(w, http.StatusUnauthorized, statusResponse{OK: false})
		return
	}

	user, err := s.store.GetUserByID(r.Context(), res.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, statusResponse{OK: false})
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	summary := summarize(user)
	writeJSON(w, http.StatusOK, statusResponse{
		OK:     true,
		Role:   string(res.Role),
		UserID: res.UserID,
		User:   &summary,
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         model.RoleUser,
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusBadRequest, "user_create_failed")
		return
	}

	verification, err := crypto.NewVerificationToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}
	if err := s.store.CreateVerificationToken(r.Context(), model.VerificationToken{
		TokenHash:  crypto.HashToken(verification),
		Identifier: user.Email,
		Expires:    now.Add(s.cfg.Session.VerificationTTL),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	// Delivery is someone else's job; the operator can fish the token
	// out of the debug log in development.
	s.log.Debug("verification token issued", "email", user.Email, "token", verification)

	writeJSON(w, http.StatusCreated, summarize(user))
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		redirectVerified(w, r, "error", "token_required")
		return
	}

	record, err := s.store.GetVerificationToken(r.Context(), crypto.HashToken(token))
	if err != nil {
		redirectVerified(w, r, "error", "invalid_token")
		return
	}
	if time.Now().UTC().After(record.Expires) {
		redirectVerified(w, r, "error", "expired_token")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), record.Identifier)
	if err != nil {
		redirectVerified(w, r, "error", "user_not_found")
		return
	}

	// Consume first; a concurrent verify with the same token loses.
	consumed, err := s.store.DeleteVerificationToken(r.Context(), record.TokenHash)
	if err != nil || !consumed {
		redirectVerified(w, r, "error", "invalid_token")
		return
	}

	if err := s.store.MarkEmailVerified(r.Context(), user.ID, time.Now().UTC()); err != nil {
		s.log.Error("email verification update failed", "error", err.Error())
		redirectVerified(w, r, "error", "invalid_token")
		return
	}

	redirectVerified(w, r, "ok", "1")
}

func redirectVerified(w http.ResponseWriter, r *http.Request, key, value string) {
	http.Redirect(w, r, "/verified?"+url.Values{key: {value}}.Encode(), http.StatusFound)
}

func summarize(user model.User) userSummary {
	return userSummary{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
		Status: string(user.Status),
	}
}
