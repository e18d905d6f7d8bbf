// Package backfill runs the scheduled scrape-and-reconcile batch that keeps
// sparse boards populated between real employer postings.
package backfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

// broadcastQuiet is how long a board must go without an authentic posting
// before a backfill run may announce scraped content.
const broadcastQuiet = 24 * time.Hour

// RunStats tallies one batch run across all tenants.
type RunStats struct {
	TenantsProcessed int
	CandidatesSeen   int
	Admitted         int
	Duplicates       int
	Conflicts        int
	Rejected         int
	Broadcasts       int
}

// Worker executes one backfill batch: fetch candidates per tenant, submit
// them to the reconciliation pipeline one at a time, then decide whether to
// announce.
type Worker struct {
	tenantsRepo repository.TenantsRepository
	jobsRepo    repository.JobsRepository
	reconcile   service.ReconcileService
	feed        clients.ScraperFeed
	broadcaster clients.Broadcaster
	logger      *zap.Logger
}

func NewWorker(
	tenantsRepo repository.TenantsRepository,
	jobsRepo repository.JobsRepository,
	reconcile service.ReconcileService,
	feed clients.ScraperFeed,
	broadcaster clients.Broadcaster,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		tenantsRepo: tenantsRepo,
		jobsRepo:    jobsRepo,
		reconcile:   reconcile,
		feed:        feed,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Run processes every active tenant. A failing tenant logs and does not stop
// the batch.
func (w *Worker) Run(ctx context.Context) (*RunStats, error) {
	tenants, err := w.tenantsRepo.ListTenants(ctx, "active")
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	stats := &RunStats{}
	for _, tenant := range tenants {
		if tenant.SearchQuery == "" {
			continue
		}
		if err := w.runTenant(ctx, tenant, stats); err != nil {
			w.logger.Error("Backfill failed for tenant",
				zap.String("tenant_id", tenant.TenantID),
				zap.String("tenant_name", tenant.TenantName),
				zap.Error(err),
			)
			continue
		}
		stats.TenantsProcessed++
	}

	w.logger.Info("Backfill batch finished",
		zap.Int("tenants_processed", stats.TenantsProcessed),
		zap.Int("candidates_seen", stats.CandidatesSeen),
		zap.Int("admitted", stats.Admitted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("rejected", stats.Rejected),
		zap.Int("broadcasts", stats.Broadcasts),
	)
	return stats, nil
}

func (w *Worker) runTenant(ctx context.Context, tenant *domain.Tenant, stats *RunStats) error {
	postings, err := w.feed.Fetch(ctx, tenant.SearchQuery)
	if err != nil {
		return fmt.Errorf("scraper fetch failed: %w", err)
	}
	stats.CandidatesSeen += len(postings)

	// Sequential submission: admissions for one tenant never race each
	// other, only concurrent batches do, and the store handles those.
	var lastAdmitted *domain.Job
	admitted := 0
	for _, posting := range postings {
		adm, err := w.reconcile.Admit(ctx, tenant.TenantID, posting.Job, posting.ImageBase64)
		if err != nil {
			stats.Rejected++
			w.logger.Warn("Candidate rejected",
				zap.String("tenant_id", tenant.TenantID),
				zap.String("company", posting.Job.Company),
				zap.Error(err),
			)
			continue
		}
		switch adm.Outcome {
		case service.OutcomeAdmitted:
			admitted++
			stats.Admitted++
			lastAdmitted = adm.Job
		case service.OutcomeAlreadyExists:
			stats.Duplicates++
		case service.OutcomeCompanyConflict:
			stats.Conflicts++
		}
	}

	if admitted == 0 || lastAdmitted == nil {
		return nil
	}

	// Throttle: scraped content is only announced when the board has been
	// quiet. An authentic posting in the window owns the audience.
	hasRecent, err := w.jobsRepo.HasAuthenticJobSince(ctx, tenant.TenantID, time.Now().Add(-broadcastQuiet))
	if err != nil {
		w.logger.Warn("Broadcast throttle check failed",
			zap.String("tenant_id", tenant.TenantID),
			zap.Error(err),
		)
		return nil
	}
	if hasRecent {
		return nil
	}

	w.broadcaster.Post(ctx, broadcastText(tenant, lastAdmitted))
	stats.Broadcasts++
	return nil
}

func broadcastText(tenant *domain.Tenant, job *domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", job.Title, job.Company)
	if job.Location != "" {
		fmt.Fprintf(&b, " (%s)", job.Location)
	}
	fmt.Fprintf(&b, " %s", job.ApplicationLink)
	for _, tag := range tenant.TwitterHashtags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		b.WriteString(" " + tag)
	}
	return b.String()
}
