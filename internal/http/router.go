// Package httpapi is the HTTP surface of the service: routing, the response
// envelope, tenant resolution and token verification middleware, and the
// request handlers.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// Router wraps the standard http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterRoutes wires every endpoint. All tenant-scoped routes run behind
// host resolution; mutations additionally run behind token verification.
func (r *Router) RegisterRoutes(
	mw *Middleware,
	jobs *JobHandler,
	auth *AuthHandler,
	backfill *BackfillHandler,
	admin *AdminHandler,
) {
	// Public feed.
	r.Handle("/api/v1/jobs/count", requireMethod(http.MethodGet, mw.WithTenant(jobs.Count)))
	r.Handle("/api/v1/jobs", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			mw.WithTenant(jobs.List)(w, req)
		case http.MethodPost:
			mw.WithTenant(mw.WithAuth(jobs.Create))(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/v1/jobs/", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			mw.WithTenant(jobs.ServeItem)(w, req)
		case http.MethodPut, http.MethodDelete:
			mw.WithTenant(mw.WithAuth(jobs.ServeItem))(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// Sessions.
	r.Handle("/auth/api/v1/signup", requireMethod(http.MethodPost, mw.WithTenant(auth.Signup)))
	r.Handle("/auth/api/v1/login", requireMethod(http.MethodPost, mw.WithTenant(auth.Login)))
	r.Handle("/auth/api/v1/refresh", requireMethod(http.MethodPost, auth.Refresh))
	r.Handle("/auth/api/v1/reset-tokens", requireMethod(http.MethodPost, mw.WithAuth(auth.ResetTokens)))
	r.Handle("/auth/api/v1/logout", requireMethod(http.MethodPost, auth.Logout))

	// System-to-system ingestion; authenticated by shared secret, not a session.
	r.Handle("/jobs/backfill", requireMethod(http.MethodPost, mw.WithTenant(backfill.Ingest)))

	// Dashboard.
	r.Handle("/admin/api/v1/tenants", mw.WithRole(admin.ServeTenants, domain.RoleSuperadmin))
	r.Handle("/admin/api/v1/tenants/", mw.WithRole(admin.ServeTenantItem, domain.RoleSuperadmin))
	r.Handle("/admin/api/v1/jobs/backfill",
		requireMethod(http.MethodDelete, mw.WithRole(admin.PurgeBackfill, domain.RoleSuperadmin)))
	r.Handle("/admin/api/v1/jobs/export",
		requireMethod(http.MethodGet, mw.WithTenant(mw.WithRole(admin.ExportJobs, domain.RoleAdmin, domain.RoleSuperadmin))))
}
