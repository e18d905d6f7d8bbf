package httpapi

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

// BackfillHandler is the system-to-system ingestion endpoint. Callers
// authenticate with the shared backfill secret, not a user session.
type BackfillHandler struct {
	reconcile    service.ReconcileService
	sharedSecret string
	logger       *zap.Logger
}

func NewBackfillHandler(reconcile service.ReconcileService, sharedSecret string, logger *zap.Logger) *BackfillHandler {
	return &BackfillHandler{
		reconcile:    reconcile,
		sharedSecret: sharedSecret,
		logger:       logger,
	}
}

type backfillRequest struct {
	Job         domain.CandidateJob `json:"jobData"`
	ImageBase64 string              `json:"image"`
}

// backfillResponse is the wire contract of the ingestion endpoint: the typed
// outcome plus the admitted job, if any. Existing callers parse these field
// names; do not rename them.
type backfillResponse struct {
	Outcome string   `json:"outcome"`
	Job     *jobView `json:"job,omitempty"`
}

// Ingest handles POST /jobs/backfill.
func (h *BackfillHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if subtle.ConstantTimeCompare([]byte(bearerToken(r)), []byte(h.sharedSecret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, failTokenExpired("invalid backfill credential"))
		return
	}

	tenant, ok := TenantFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrNotFound)
		return
	}

	var req backfillRequest
	if err := readBodyJSON(r, 4<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}

	admission, err := h.reconcile.Admit(r.Context(), tenant.TenantID, req.Job, req.ImageBase64)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := backfillResponse{Outcome: admission.Outcome}
	if admission.Job != nil {
		view := toJobView(admission.Job)
		resp.Job = &view
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
