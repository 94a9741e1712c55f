package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evycast/inclusiva-sub001/internal/auth"
	"github.com/evycast/inclusiva-sub001/internal/config"
	"github.com/evycast/inclusiva-sub001/internal/denylist"
	"github.com/evycast/inclusiva-sub001/internal/logger"
	"github.com/evycast/inclusiva-sub001/internal/mediastore"
	"github.com/evycast/inclusiva-sub001/internal/model"
	"github.com/evycast/inclusiva-sub001/internal/repository"
	"github.com/evycast/inclusiva-sub001/internal/session"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inclusiva_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"result"})
	gateDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inclusiva_gate_denials_total",
		Help: "Access gate denials by kind.",
	}, []string{"kind"})
)

type Server struct {
	cfg   config.Config
	store *repository.Store
	gate  *auth.Gate
	deny  *denylist.Denylist
	media *mediastore.Store
	log   *logger.Logger
}

// NewServer wires the gate over the store. deny and media are
// optional; a nil deny keeps tokens valid until expiry after logout,
// a nil media disables image uploads.
func NewServer(cfg config.Config, store *repository.Store, deny *denylist.Denylist, media *mediastore.Store, log *logger.Logger) *Server {
	var gateDeny auth.Denylist
	if deny != nil {
		gateDeny = deny
	}
	return &Server{
		cfg:   cfg,
		store: store,
		gate:  auth.NewGate(cfg.JWT.Secret, cfg.JWT.Issuer, gateDeny),
		deny:  deny,
		media: media,
		log:   log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/auth/status", s.handleStatus)
	r.Post("/api/auth/register", s.handleRegister)
	r.Get("/api/auth/verify", s.handleVerifyEmail)

	anyRole := s.requireRole(model.RoleUser, model.RoleModerator, model.RoleAdmin)
	moderation := s.requireRole(model.RoleModerator, model.RoleAdmin)
	adminOnly := s.requireRole(model.RoleAdmin)

	r.Get("/api/posts", s.handleListPosts)
	r.With(anyRole).Post("/api/posts", s.handleCreatePost)
	r.With(anyRole).Post("/api/posts/{postID}/image", s.handleUploadPostImage)
	r.With(anyRole).Delete("/api/posts/{postID}", s.handleDeletePost)
	r.With(anyRole).Post("/api/posts/{postID}/comments", s.handleCreateComment)
	r.With(moderation).Delete("/api/comments/{commentID}", s.handleDeleteComment)

	r.With(anyRole).Post("/api/reports", s.handleCreateReport)
	r.With(moderation).Get("/api/reports", s.handleListReports)
	r.With(moderation).Post("/api/reports/{reportID}/resolve", s.handleResolveReport)

	r.With(adminOnly).Get("/api/admin/users", s.handleListUsers)
	r.With(adminOnly).Patch("/api/admin/users/{userID}", s.handleUpdateUserAccess)

	r.Get("/admin/login", s.handleLoginPage)
	r.Get("/verified", s.handleVerifiedPage)
	r.With(s.pageGuard(model.RoleAdmin)).Get("/admin", s.handleAdminPage)
	r.With(s.pageGuard(model.RoleAdmin, model.RoleModerator)).Get("/admin/reports", s.handleReportsPage)

	return r
}

// requireRole is the API adapter over the gate: a structured JSON
// denial the route handler never sees.
func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, denial := s.gate.Require(r.Context(), session.TokenFromRequest(r), roles...)
			switch denial {
			case auth.DenialUnauthenticated:
				gateDenials.WithLabelValues("unauthenticated").Inc()
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			case auth.DenialForbidden:
				gateDenials.WithLabelValues("forbidden").Inc()
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			ctx := context.WithValue(r.Context(), authKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// pageGuard is the render-time adapter: same decision, but viewers get
// a redirect to the login page instead of an error body.
func (s *Server) pageGuard(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, denial := s.gate.Require(r.Context(), session.TokenFromRequest(r), roles...)
			if denial != auth.DenialNone {
				gateDenials.WithLabelValues("page").Inc()
				http.Redirect(w, r, "/admin/login", http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), authKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type authKey struct{}

func authFromContext(ctx context.Context) auth.Result {
	res, _ := ctx.Value(authKey{}).(auth.Result)
	return res
}

// maxListLimit caps the limit query parameter so a single request
// cannot drag an unbounded result set out of the store.
const maxListLimit = 200

func listLimit(r *http.Request, fallback int) int {
	limit := fallback
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
