package token

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// Scope separates the public board session from the admin dashboard session.
// The two sites share a browser; tokens must never leak across scope, so
// each scope owns its cookie name.
type Scope string

const (
	ScopePublic    Scope = "public"
	ScopeDashboard Scope = "dashboard"
)

// CookieName returns the scope's session cookie name.
func (s Scope) CookieName() string {
	if s == ScopeDashboard {
		return "sessioncookie_dashboard"
	}
	return "sessioncookie"
}

// cookiePayload is the JSON body stored (URL-encoded) in the cookie value.
type cookiePayload struct {
	RefreshToken string `json:"refreshToken"`
}

// SessionCookie builds the scope's refresh-token cookie: httpOnly, Path=/,
// 1-year MaxAge, Secure outside local development.
func SessionCookie(scope Scope, refreshToken string, secure bool) *http.Cookie {
	body, _ := json.Marshal(cookiePayload{RefreshToken: refreshToken})
	return &http.Cookie{
		Name:     scope.CookieName(),
		Value:    url.QueryEscape(string(body)),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(RefreshValidity / time.Second),
	}
}

// ClearSessionCookie expires the scope's cookie. Idempotent; clearing an
// absent cookie is a no-op for the browser.
func ClearSessionCookie(scope Scope, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     scope.CookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	}
}

// ParseSessionCookie extracts the refresh token from a cookie value. A
// malformed or empty cookie is an unauthenticated request, not a server
// error.
func ParseSessionCookie(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("missing session cookie: %w", domain.ErrUnauthenticated)
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return "", fmt.Errorf("malformed session cookie: %w", domain.ErrUnauthenticated)
	}
	var payload cookiePayload
	if err := json.Unmarshal([]byte(decoded), &payload); err != nil {
		return "", fmt.Errorf("malformed session cookie: %w", domain.ErrUnauthenticated)
	}
	if payload.RefreshToken == "" {
		return "", fmt.Errorf("empty refresh token in cookie: %w", domain.ErrUnauthenticated)
	}
	return payload.RefreshToken, nil
}
