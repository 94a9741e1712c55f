package http

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evycast/inclusiva-sub001/internal/auth"
	"github.com/evycast/inclusiva-sub001/internal/config"
	"github.com/evycast/inclusiva-sub001/internal/crypto"
	"github.com/evycast/inclusiva-sub001/internal/logger"
	"github.com/evycast/inclusiva-sub001/internal/model"
	"github.com/evycast/inclusiva-sub001/internal/repository"
	"github.com/evycast/inclusiva-sub001/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:    ":0",
		Environment: "development",
		JWT:         config.JWT{Secret: "test-secret", Issuer: "test-issuer"},
		Session:     config.Session{TokenTTL: 2 * time.Hour, VerificationTTL: 24 * time.Hour},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	server := NewServer(testConfig(), repository.NewStore(db), nil, nil, logger.New(0))
	app := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		app.Close()
		db.Close()
	})
	return app, mock
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func mustToken(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token, err := auth.NewSessionToken("test-secret", "test-issuer", 10*time.Minute, userID, role)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func userRows(id, email, passwordHash string, role model.Role) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "status", "email_verified", "created_at", "updated_at"}).
		AddRow(id, email, passwordHash, "Vecina", string(role), "approved", now, now, now)
}

func TestLoginUnknownUserIsIndistinguishable(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("a@b.com").
		WillReturnError(sql.ErrNoRows)

	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	payload := decodeBody(t, resp)
	assert.Equal(t, "Credenciales inválidas", payload["error"])
}

func TestLoginWrongPasswordSameMessage(t *testing.T) {
	app, mock := newTestServer(t)

	hash, err := crypto.HashPassword("right-password")
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ana@example.org").
		WillReturnRows(userRows("u-1", "ana@example.org", hash, model.RoleUser))

	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/auth/login", "",
		map[string]string{"email": "ana@example.org", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	payload := decodeBody(t, resp)
	assert.Equal(t, "Credenciales inválidas", payload["error"])
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	app, mock := newTestServer(t)

	hash, err := crypto.HashPassword("dev-password")
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ana@example.org").
		WillReturnRows(userRows("u-1", "ana@example.org", hash, model.RoleAdmin))

	// Email is lowercased before lookup.
	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/auth/login", "",
		map[string]string{"email": "Ana@Example.org", "password": "dev-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie not set")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.False(t, cookie.Secure)

	payload := decodeBody(t, resp)
	require.NotEmpty(t, payload["token"])
	user := payload["user"].(map[string]interface{})
	assert.Equal(t, "u-1", user["id"])
	assert.Equal(t, "ana@example.org", user["email"])
	assert.Equal(t, "admin", user["role"])

	claims, err := auth.ParseToken("test-secret", "test-issuer", payload["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogoutThenStatusIsLoggedOut(t *testing.T) {
	app, mock := newTestServer(t)

	hash, err := crypto.HashPassword("dev-password")
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ana@example.org").
		WillReturnRows(userRows("u-1", "ana@example.org", hash, model.RoleAdmin))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := doJSON(t, client, http.MethodPost, app.URL+"/api/auth/login", "",
		map[string]string{"email": "ana@example.org", "password": "dev-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, app.URL+"/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["ok"])

	// The jar must have dropped the cleared cookie; the status check
	// sees an unauthenticated client.
	resp = doJSON(t, client, http.MethodGet, app.URL+"/api/auth/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	payload = decodeBody(t, resp)
	assert.Equal(t, false, payload["ok"])
}

func TestLogoutIsIdempotent(t *testing.T) {
	app, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/auth/logout", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		payload := decodeBody(t, resp)
		assert.Equal(t, true, payload["ok"])
	}
}

func TestLogoutClearsLegacyCookies(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	cleared := map[string]bool{}
	for _, c := range resp.Cookies() {
		if c.Value == "" && c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	for _, name := range []string{
		session.CookieName,
		"next-auth.session-token",
		"__Secure-next-auth.session-token",
		"next-auth.csrf-token",
		"__Secure-next-auth.csrf-token",
	} {
		assert.True(t, cleared[name], "expected %s to be cleared", name)
	}
}

func TestStatusWithValidToken(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("u-1").
		WillReturnRows(userRows("u-1", "ana@example.org", "hash", model.RoleModerator))

	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/auth/status",
		mustToken(t, "u-1", model.RoleModerator), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, "moderator", payload["role"])
	assert.Equal(t, "u-1", payload["userId"])
	user := payload["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.org", user["email"])
}

func TestStatusExpiredTokenIsUnauthenticated(t *testing.T) {
	app, _ := newTestServer(t)

	expired, err := auth.NewSessionToken("test-secret", "test-issuer", -time.Minute, "u-1", model.RoleAdmin)
	require.NoError(t, err)

	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/auth/status", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, false, payload["ok"])
}

func TestAdminGateRoleSet(t *testing.T) {
	app, mock := newTestServer(t)

	// No credential at all.
	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Moderator is not admin; no hierarchy.
	resp = doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/admin/users",
		mustToken(t, "u-2", model.RoleModerator), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(100).
		WillReturnRows(userRows("u-1", "ana@example.org", "hash", model.RoleAdmin))

	resp = doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/admin/users",
		mustToken(t, "u-1", model.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestModerationGateAllowsBothRoles(t *testing.T) {
	app, mock := newTestServer(t)
	columns := []string{"id", "post_id", "reporter_id", "reason", "created_at", "resolved_at", "resolved_by"}

	for _, role := range []model.Role{model.RoleModerator, model.RoleAdmin} {
		mock.ExpectQuery(regexp.QuoteMeta("FROM reports")).
			WithArgs(100).
			WillReturnRows(sqlmock.NewRows(columns))

		resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/reports",
			mustToken(t, "u-1", role), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(role))
		resp.Body.Close()
	}

	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/reports",
		mustToken(t, "u-3", model.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestPageGuardRedirectsToLogin(t *testing.T) {
	app, _ := newTestServer(t)
	client := noRedirectClient()

	resp := doJSON(t, client, http.MethodGet, app.URL+"/admin", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	resp.Body.Close()

	// Wrong role gets the same redirect, not a 403 page.
	resp = doJSON(t, client, http.MethodGet, app.URL+"/admin",
		mustToken(t, "u-2", model.RoleUser), nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, app.URL+"/admin",
		mustToken(t, "u-1", model.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestReportsPageAllowsModerator(t *testing.T) {
	app, _ := newTestServer(t)
	client := noRedirectClient()

	resp := doJSON(t, client, http.MethodGet, app.URL+"/admin/reports",
		mustToken(t, "u-2", model.RoleModerator), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestPublicPostsAreRoleAware(t *testing.T) {
	app, mock := newTestServer(t)
	columns := []string{"id", "author_id", "title", "body", "category", "image_key", "status", "created_at", "updated_at"}

	// Anonymous viewers only get approved posts.
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs(false, 50).
		WillReturnRows(sqlmock.NewRows(columns))
	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/posts", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Moderators see pending ones too; same route, no denial either way.
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs(true, 50).
		WillReturnRows(sqlmock.NewRows(columns))
	resp = doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/posts",
		mustToken(t, "u-2", model.RoleModerator), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmailRedirects(t *testing.T) {
	app, mock := newTestServer(t)
	client := noRedirectClient()

	// Missing token.
	resp := doJSON(t, client, http.MethodGet, app.URL+"/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verified?error=token_required", resp.Header.Get("Location"))
	resp.Body.Close()

	// Unknown token.
	mock.ExpectQuery(regexp.QuoteMeta("FROM verification_tokens")).
		WillReturnError(sql.ErrNoRows)
	resp = doJSON(t, client, http.MethodGet, app.URL+"/api/auth/verify?token=nope", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verified?error=invalid_token", resp.Header.Get("Location"))
	resp.Body.Close()

	// Expired token.
	tokenColumns := []string{"token_hash", "identifier", "expires"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM verification_tokens")).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("h", "ana@example.org", time.Now().UTC().Add(-time.Hour)))
	resp = doJSON(t, client, http.MethodGet, app.URL+"/api/auth/verify?token=stale", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verified?error=expired_token", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestVerifyEmailSuccess(t *testing.T) {
	app, mock := newTestServer(t)
	client := noRedirectClient()

	tokenColumns := []string{"token_hash", "identifier", "expires"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM verification_tokens")).
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("h", "ana@example.org", time.Now().UTC().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("ana@example.org").
		WillReturnRows(userRows("u-1", "ana@example.org", "hash", model.RoleUser))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_tokens")).
		WithArgs("h").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email_verified")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := doJSON(t, client, http.MethodGet, app.URL+"/api/auth/verify?token=good", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verified?ok=1", resp.Header.Get("Location"))
	resp.Body.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostOwnershipRules(t *testing.T) {
	app, mock := newTestServer(t)
	columns := []string{"id", "author_id", "title", "body", "category", "image_key", "status", "created_at", "updated_at"}
	now := time.Now().UTC()

	// A user cannot delete someone else's post.
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("p-1", "owner-1", "Titulo", "Cuerpo", "general", nil, "approved", now, now))

	resp := doJSON(t, app.Client(), http.MethodDelete, app.URL+"/api/posts/p-1",
		mustToken(t, "intruder", model.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// A moderator can.
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("p-1", "owner-1", "Titulo", "Cuerpo", "general", nil, "approved", now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp = doJSON(t, app.Client(), http.MethodDelete, app.URL+"/api/posts/p-1",
		mustToken(t, "u-2", model.RoleModerator), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCreatePostModerationStatus(t *testing.T) {
	app, mock := newTestServer(t)

	// Regular users land in the moderation queue.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/posts",
		mustToken(t, "u-3", model.RoleUser),
		map[string]string{"title": "Bicicleta", "body": "Se vende"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "pending", payload["status"])

	// Staff posts go live immediately.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	resp = doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/posts",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{"title": "Aviso", "body": "Corte de agua"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payload = decodeBody(t, resp)
	assert.Equal(t, "approved", payload["status"])
}

func TestUpdateUserAccessRoleChange(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role")).
		WithArgs("moderator", sqlmock.AnyArg(), "u-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("u-2").
		WillReturnRows(userRows("u-2", "vecina@example.org", "hash", model.RoleModerator))

	resp := doJSON(t, app.Client(), http.MethodPatch, app.URL+"/api/admin/users/u-2",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{"role": "moderator"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "moderator", payload["role"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserAccessRejectsWithoutPartialWrite(t *testing.T) {
	app, mock := newTestServer(t)

	// A valid role next to a bogus status must fail whole: no
	// expectations are registered, so any store write would bubble up
	// as a 500 instead of the clean 400.
	resp := doJSON(t, app.Client(), http.MethodPatch, app.URL+"/api/admin/users/u-2",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{"role": "moderator", "status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "invalid_status", payload["error"])

	resp = doJSON(t, app.Client(), http.MethodPatch, app.URL+"/api/admin/users/u-2",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload = decodeBody(t, resp)
	assert.Equal(t, "invalid_role", payload["error"])

	resp = doJSON(t, app.Client(), http.MethodPatch, app.URL+"/api/admin/users/u-2",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserAccessUnknownUser(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role")).
		WithArgs("moderator", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	resp := doJSON(t, app.Client(), http.MethodPatch, app.URL+"/api/admin/users/ghost",
		mustToken(t, "u-1", model.RoleAdmin),
		map[string]string{"role": "moderator"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "user_not_found", payload["error"])
}

func TestListLimitIsClamped(t *testing.T) {
	app, mock := newTestServer(t)
	columns := []string{"id", "author_id", "title", "body", "category", "image_key", "status", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts")).
		WithArgs(false, 200).
		WillReturnRows(sqlmock.NewRows(columns))

	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/api/posts?limit=100000", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginPageSubmitsJSON(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doJSON(t, app.Client(), http.MethodGet, app.URL+"/admin/login", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// The login endpoint only decodes JSON, so the form must not post
	// itself urlencoded.
	assert.NotContains(t, string(body), `action="/api/auth/login"`)
	assert.Contains(t, string(body), "fetch('/api/auth/login'")
	assert.Contains(t, string(body), "'Content-Type': 'application/json'")
}

func TestUploadImageWithoutMediaStore(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doJSON(t, app.Client(), http.MethodPost, app.URL+"/api/posts/p-1/image",
		mustToken(t, "u-1", model.RoleAdmin), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}
