package http

import (
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/evycast/inclusiva-sub001/internal/model"
	"github.com/evycast/inclusiva-sub001/internal/session"
)

const maxImageBytes = 10 << 20

type postSummary struct {
	ID        string  `json:"id"`
	AuthorID  string  `json:"authorId"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Category  string  `json:"category"`
	ImageKey  *string `json:"imageKey,omitempty"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
}

func mapPost(post model.Post) postSummary {
	return postSummary{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Body:      post.Body,
		Category:  post.Category,
		ImageKey:  post.ImageKey,
		Status:    string(post.Status),
		CreatedAt: post.CreatedAt.Unix(),
	}
}

// handleListPosts is public but role-aware: moderators and admins also
// see pending posts. The anonymous gate variant never denies here.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	viewer := s.gate.Resolve(r.Context(), session.TokenFromRequest(r))
	includePending := viewer.OK && (viewer.Role == model.RoleModerator || viewer.Role == model.RoleAdmin)

	posts, err := s.store.ListPosts(r.Context(), includePending, listLimit(r, 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, mapPost(post))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createPostRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	category := strings.TrimSpace(strings.ToLower(req.Category))
	if category == "" {
		category = "general"
	}

	// Regular users go through moderation; staff posts are live at once.
	status := model.StatusPending
	if caller.Role == model.RoleModerator || caller.Role == model.RoleAdmin {
		status = model.StatusApproved
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		AuthorID:  caller.UserID,
		Title:     req.Title,
		Body:      req.Body,
		Category:  category,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreatePost(r.Context(), post); err != nil {
		writeError(w, http.StatusBadRequest, "post_create_failed")
		return
	}

	writeJSON(w, http.StatusCreated, mapPost(post))
}

func (s *Server) handleUploadPostImage(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		writeError(w, http.StatusServiceUnavailable, "media_not_configured")
		return
	}
	caller := authFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !canManagePost(caller.UserID, caller.Role, post) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_image")
		return
	}
	defer file.Close()

	key := "posts/" + post.ID + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if err := s.media.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		s.log.Error("image upload failed", "post", post.ID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "upload_failed")
		return
	}

	if _, err := s.store.SetPostImage(r.Context(), post.ID, key); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageKey": key})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !canManagePost(caller.UserID, caller.Role, post) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	deleted, err := s.store.DeletePost(r.Context(), post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "post_not_found")
		return
	}
	if post.ImageKey != nil && s.media != nil {
		if err := s.media.Delete(r.Context(), *post.ImageKey); err != nil {
			s.log.Warn("orphaned post image", "key", *post.ImageKey, "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// canManagePost: authors manage their own posts, staff manage all.
func canManagePost(userID string, role model.Role, post model.Post) bool {
	if role == model.RoleModerator || role == model.RoleAdmin {
		return true
	}
	return post.AuthorID == userID
}

type createCommentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	if _, err := s.store.GetPost(r.Context(), postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  caller.UserID,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateComment(r.Context(), comment); err != nil {
		writeError(w, http.StatusBadRequest, "comment_create_failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": comment.ID})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")

	deleted, err := s.store.DeleteComment(r.Context(), commentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "comment_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createReportRequest struct {
	PostID string `json:"postId"`
	Reason string `json:"reason"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())

	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.PostID == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	if _, err := s.store.GetPost(r.Context(), req.PostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "post_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	report := model.Report{
		ID:         uuid.NewString(),
		PostID:     req.PostID,
		ReporterID: caller.UserID,
		Reason:     req.Reason,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateReport(r.Context(), report); err != nil {
		writeError(w, http.StatusBadRequest, "report_create_failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": report.ID})
}

type reportSummary struct {
	ID         string `json:"id"`
	PostID     string `json:"postId"`
	ReporterID string `json:"reporterId"`
	Reason     string `json:"reason"`
	CreatedAt  int64  `json:"createdAt"`
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListOpenReports(r.Context(), listLimit(r, 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]reportSummary, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, reportSummary{
			ID:         report.ID,
			PostID:     report.PostID,
			ReporterID: report.ReporterID,
			Reason:     report.Reason,
			CreatedAt:  report.CreatedAt.Unix(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())
	reportID := chi.URLParam(r, "reportID")

	resolved, err := s.store.ResolveReport(r.Context(), reportID, caller.UserID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !resolved {
		writeError(w, http.StatusNotFound, "report_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}
