package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

// AdminHandler serves the dashboard surface: tenant management, the
// superadmin purge and the listings export.
type AdminHandler struct {
	tenantService service.TenantService
	feedService   service.FeedService
	logger        *zap.Logger
}

func NewAdminHandler(tenantService service.TenantService, feedService service.FeedService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		tenantService: tenantService,
		feedService:   feedService,
		logger:        logger,
	}
}

type tenantView struct {
	ID              string    `json:"id"`
	TenantName      string    `json:"tenantName"`
	Company         string    `json:"company,omitempty"`
	Email           string    `json:"email,omitempty"`
	Domain          string    `json:"domain"`
	PriceRegular    int       `json:"priceRegular"`
	PriceFeatured   int       `json:"priceFeatured"`
	Skills          []string  `json:"skills,omitempty"`
	SearchQuery     string    `json:"searchQuery,omitempty"`
	TwitterHashtags []string  `json:"twitterHashtags,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toTenantView(t *domain.Tenant) tenantView {
	return tenantView{
		ID:              t.TenantID,
		TenantName:      t.TenantName,
		Company:         t.Company,
		Email:           t.Email,
		Domain:          t.Domain,
		PriceRegular:    t.PriceRegular,
		PriceFeatured:   t.PriceFeatured,
		Skills:          t.Skills,
		SearchQuery:     t.SearchQuery,
		TwitterHashtags: t.TwitterHashtags,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
	}
}

// ServeTenants dispatches /admin/api/v1/tenants by method.
func (h *AdminHandler) ServeTenants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTenants(w, r)
	case http.MethodPost:
		h.createTenant(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServeTenantItem dispatches /admin/api/v1/tenants/{id} by method.
func (h *AdminHandler) ServeTenantItem(w http.ResponseWriter, r *http.Request) {
	tenantID := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/tenants/")
	if tenantID == "" || strings.Contains(tenantID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getTenant(w, r, tenantID)
	case http.MethodPut:
		h.updateTenant(w, r, tenantID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenantService.ListTenants(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]tenantView, 0, len(tenants))
	for _, t := range tenants {
		views = append(views, toTenantView(t))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tenants": views}))
}

func (h *AdminHandler) createTenant(w http.ResponseWriter, r *http.Request) {
	var input service.TenantInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}
	tenant, err := h.tenantService.CreateTenant(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(toTenantView(tenant)))
}

func (h *AdminHandler) getTenant(w http.ResponseWriter, r *http.Request, tenantID string) {
	tenant, err := h.tenantService.GetTenant(r.Context(), tenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toTenantView(tenant)))
}

func (h *AdminHandler) updateTenant(w http.ResponseWriter, r *http.Request, tenantID string) {
	var input service.TenantInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}
	tenant, err := h.tenantService.UpdateTenant(r.Context(), tenantID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toTenantView(tenant)))
}

// PurgeBackfill handles DELETE /admin/api/v1/jobs/backfill. The scope query
// parameter is mandatory; there is no implicit "everything".
func (h *AdminHandler) PurgeBackfill(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("missing access token"))
		return
	}
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		writeJSON(w, http.StatusBadRequest, Fail("scope query parameter is required"))
		return
	}
	result, err := h.feedService.PurgeBackfilled(r.Context(), session.Role, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// ExportJobs handles GET /admin/api/v1/jobs/export: the resolved board's
// current listings as an XLSX download.
func (h *AdminHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}

	f := repository.JobFilters{TenantID: tenant.TenantID}
	var all []*domain.Job
	for pageIndex := 0; ; pageIndex++ {
		page, err := h.feedService.ListJobs(r.Context(), f, pageIndex)
		if err != nil {
			writeError(w, err)
			return
		}
		all = append(all, page...)
		if len(page) < repository.FeedPageSize {
			break
		}
	}

	body, err := GenerateJobsExport(all)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(tenant.TenantName)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
