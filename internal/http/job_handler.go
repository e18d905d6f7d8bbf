package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

// JobHandler serves the public feed and the authenticated posting lifecycle.
type JobHandler struct {
	feedService service.FeedService
	jobService  service.JobService
	usersRepo   repository.UsersRepository
	logger      *zap.Logger
}

func NewJobHandler(feedService service.FeedService, jobService service.JobService, usersRepo repository.UsersRepository, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		feedService: feedService,
		jobService:  jobService,
		usersRepo:   usersRepo,
		logger:      logger,
	}
}

// filtersFromQuery builds the feed filters from the query string. The tenant
// always comes from the resolved board, never from the client.
func filtersFromQuery(r *http.Request, tenantID string) repository.JobFilters {
	q := r.URL.Query()
	return repository.JobFilters{
		TenantID:   tenantID,
		EmployerID: q.Get("employerId"),
		JobType:    q.Get("type"),
		Company:    q.Get("company"),
		Location:   q.Get("location"),
		SalaryMin:  parseInt(q.Get("salaryMin"), 0),
		Search:     q.Get("search"),
	}
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}
	f := filtersFromQuery(r, tenant.TenantID)
	pageIndex := parseInt(r.URL.Query().Get("pageIndex"), 0)

	jobs, err := h.feedService.ListJobs(r.Context(), f, pageIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"jobs":      toJobViews(jobs),
		"pageIndex": pageIndex,
		"pageSize":  repository.FeedPageSize,
	}))
}

// Count handles GET /api/v1/jobs/count with the same filters as List.
func (h *JobHandler) Count(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}
	count, err := h.feedService.CountJobs(r.Context(), filtersFromQuery(r, tenant.TenantID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"count": count}))
}

// Get handles GET /api/v1/jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.feedService.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toJobView(job)))
}

type createJobRequest struct {
	service.JobInput
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h *JobHandler) actor(r *http.Request) (*domain.User, error) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return h.usersRepo.GetUser(r.Context(), session.UserID)
}

// Create handles POST /api/v1/jobs (employer, paid).
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createJobRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	job, err := h.jobService.Create(r.Context(), actor, req.PaymentIntentID, req.JobInput)
	if err != nil {
		h.logger.Warn("Posting creation rejected", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(toJobView(job)))
}

// Update handles PUT /api/v1/jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request, jobID string) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var input service.JobInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	job, err := h.jobService.Update(r.Context(), actor, jobID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(toJobView(job)))
}

// Delete handles DELETE /api/v1/jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request, jobID string) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.jobService.Delete(r.Context(), actor, jobID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": jobID}))
}

// ServeItem dispatches /api/v1/jobs/{id} by method.
func (h *JobHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r, jobID)
	case http.MethodPut:
		h.Update(w, r, jobID)
	case http.MethodDelete:
		h.Delete(w, r, jobID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
