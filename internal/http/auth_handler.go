package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/token"
)

// AuthHandler serves the session lifecycle. Each endpoint acts on one cookie
// scope: the public board session or the dashboard session, selected by the
// `scope` query parameter.
type AuthHandler struct {
	accountService service.AccountService
	tokens         *token.Service
	secureCookies  bool
	logger         *zap.Logger
}

func NewAuthHandler(accountService service.AccountService, tokens *token.Service, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		tokens:         tokens,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

func scopeFromRequest(r *http.Request) token.Scope {
	if r.URL.Query().Get("scope") == string(token.ScopeDashboard) {
		return token.ScopeDashboard
	}
	return token.ScopePublic
}

// refreshTokenFromCookie reads the scope cookie and extracts the refresh JWT.
func refreshTokenFromCookie(r *http.Request, scope token.Scope) (string, error) {
	cookie, err := r.Cookie(scope.CookieName())
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	return token.ParseSessionCookie(cookie.Value)
}

type userView struct {
	ID             string `json:"id"`
	TenantID       string `json:"jobboardId"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Logo           string `json:"logo,omitempty"`
	BillingAddress string `json:"billingAddress,omitempty"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:             u.UserID,
		TenantID:       u.TenantID,
		Email:          u.Email,
		Role:           u.Role,
		Company:        u.Company,
		Website:        u.Website,
		Logo:           u.Logo,
		BillingAddress: u.BillingAddress,
	}
}

// openSession sets the scope cookie and writes the session body. The refresh
// token travels only in the cookie, never in the JSON body.
func (h *AuthHandler) openSession(w http.ResponseWriter, scope token.Scope, user *domain.User, pair token.Pair) {
	http.SetCookie(w, token.SessionCookie(scope, pair.RefreshToken, h.secureCookies))
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"accessToken": pair.AccessToken,
		"user":        toUserView(user),
	}))
}

// Signup handles POST /auth/api/v1/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}

	var req service.SignupRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	user, pair, err := h.accountService.Signup(r.Context(), tenant.TenantID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	h.openSession(w, scopeFromRequest(r), user, pair)
}

// Login handles POST /auth/api/v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	user, pair, err := h.accountService.Login(r.Context(), tenant.TenantID, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.openSession(w, scopeFromRequest(r), user, pair)
}

// Refresh handles POST /auth/api/v1/refresh. A valid refresh cookie yields a
// new access token; the refresh token itself is not rotated. Any failure
// clears the scope cookie so the client falls back to login.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)

	refreshToken, err := refreshTokenFromCookie(r, scope)
	if err != nil {
		http.SetCookie(w, token.ClearSessionCookie(scope, h.secureCookies))
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("no usable session"))
		return
	}

	access, err := h.tokens.Refresh(r.Context(), refreshToken)
	if err != nil {
		http.SetCookie(w, token.ClearSessionCookie(scope, h.secureCookies))
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("session expired"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"accessToken": access}))
}

// ResetTokens handles POST /auth/api/v1/reset-tokens: profile update plus the
// only refresh-token rotation path.
func (h *AuthHandler) ResetTokens(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("missing access token"))
		return
	}
	scope := scopeFromRequest(r)

	refreshToken, err := refreshTokenFromCookie(r, scope)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("no usable session"))
		return
	}

	var input service.ProfileInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	user, pair, err := h.accountService.UpdateProfile(r.Context(), session.UserID, input, refreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	h.openSession(w, scope, user, pair)
}

// Logout handles POST /auth/api/v1/logout. Clears only the scope cookie; the
// sibling site's session survives. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromRequest(r)
	http.SetCookie(w, token.ClearSessionCookie(scope, h.secureCookies))
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"loggedOut": true}))
}
