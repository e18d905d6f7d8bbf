package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupSetsScopeCookie(t *testing.T) {
	env := newTestEnv(t)

	access, cookie := env.signupEmployer(t, "dev@acme.test", "Acme")
	require.NotEmpty(t, access)
	require.Equal(t, "sessioncookie", cookie.Name)
	require.True(t, cookie.HttpOnly)

	// The refresh token lives in the cookie only, not in the body.
	rec := env.do(t, http.MethodPost, "/auth/api/v1/signup",
		`{"email":"two@acme.test","password":"correct-horse","company":"Globex"}`)
	require.NotContains(t, rec.Body.String(), "refreshToken")
}

func TestSignupDashboardScopeUsesOwnCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/api/v1/signup?scope=dashboard",
		`{"email":"dev@acme.test","password":"correct-horse","company":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	names := []string{}
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	require.Contains(t, names, "sessioncookie_dashboard")
	require.NotContains(t, names, "sessioncookie")
}

func TestLoginAndRefreshFlow(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.signupEmployer(t, "dev@acme.test", "Acme")

	rec := env.do(t, http.MethodPost, "/auth/api/v1/login",
		`{"email":"dev@acme.test","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessioncookie" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	rec = env.do(t, http.MethodPost, "/auth/api/v1/refresh", "", func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	code, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	access, _ := result["accessToken"].(string)
	require.NotEmpty(t, access)

	_, err := env.tokens.VerifyAccess(access)
	require.NoError(t, err)
}

func TestRefreshWithoutCookieClearsAndRejects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/api/v1/refresh", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	code, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultTokenExpired, code)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessioncookie" && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.signupEmployer(t, "dev@acme.test", "Acme")

	rec := env.do(t, http.MethodPost, "/auth/api/v1/login",
		`{"email":"dev@acme.test","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultTokenExpired, code)
}

func TestResetTokensRotatesCookie(t *testing.T) {
	env := newTestEnv(t)
	access, cookie := env.signupEmployer(t, "dev@acme.test", "Acme")

	rec := env.do(t, http.MethodPost, "/auth/api/v1/reset-tokens",
		`{"company":"Acme Robotics","website":"https://acme.example"}`,
		withBearer(access),
		func(r *http.Request) { r.AddCookie(cookie) },
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	code, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)

	newAccess, _ := result["accessToken"].(string)
	payload, err := env.tokens.VerifyAccess(newAccess)
	require.NoError(t, err)
	require.Equal(t, "Acme Robotics", payload.Company)

	var rotated *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessioncookie" {
			rotated = c
		}
	}
	require.NotNil(t, rotated)
	require.NotEqual(t, cookie.Value, rotated.Value)
}

func TestLogoutClearsOnlyScopeCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/api/v1/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sessioncookie", cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)

	// Idempotent: logging out again behaves identically.
	rec = env.do(t, http.MethodPost, "/auth/api/v1/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
