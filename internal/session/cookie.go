// Package session owns the lifecycle of the browser session cookie.
// The token itself is stateless; "the session" is nothing more than
// this cookie, so setting and clearing it with the right attributes is
// the whole job.
package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName carries the session token for both page and API requests.
const CookieName = "adminToken"

// legacyCookieNames are cleared on every logout to purge sessions left
// behind by the retired NextAuth integration, whichever login path
// created them.
var legacyCookieNames = []string{
	"next-auth.session-token",
	"__Secure-next-auth.session-token",
	"next-auth.csrf-token",
	"__Secure-next-auth.csrf-token",
}

// Set writes the session cookie. secure must be true in production so
// the cookie never travels over plain HTTP there.
func Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie and every legacy cookie name.
// Calling it again on an already-logged-out response is harmless.
func Clear(w http.ResponseWriter, secure bool) {
	names := append([]string{CookieName}, legacyCookieNames...)
	for _, name := range names {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure || strings.HasPrefix(name, "__Secure-"),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// TokenFromRequest extracts the presented credential: the session
// cookie first, then a bearer Authorization header for API clients.
// Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
