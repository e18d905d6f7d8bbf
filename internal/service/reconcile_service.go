package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
)

// Admission outcomes. A candidate either enters the store or is rejected for
// exactly one typed reason; callers branch on the outcome, not on error text.
const (
	OutcomeAdmitted        = "admitted"
	OutcomeAlreadyExists   = "alreadyExists"
	OutcomeCompanyConflict = "companyConflict"
)

// Admission is the result of one candidate evaluation.
type Admission struct {
	Outcome string      `json:"outcome"`
	Job     *domain.Job `json:"job,omitempty"`
}

// ReconcileService decides whether a scraped candidate posting enters a
// tenant's job store.
type ReconcileService interface {
	// Admit runs the admission pipeline for one candidate. Validation
	// failures (including an untrusted application link) return
	// domain.ErrInvalidRequest; store failures return the wrapped error.
	Admit(ctx context.Context, tenantID string, candidate domain.CandidateJob, imageBase64 string) (*Admission, error)
}

type reconcileService struct {
	jobsRepo      repository.JobsRepository
	employersRepo repository.EmployersRepository
	assets        clients.AssetStore
	trustedPrefix string
	logger        *zap.Logger
}

// NewReconcileService wires the admission pipeline. trustedPrefix is the only
// application-link origin candidates may point at.
func NewReconcileService(
	jobsRepo repository.JobsRepository,
	employersRepo repository.EmployersRepository,
	assets clients.AssetStore,
	trustedPrefix string,
	logger *zap.Logger,
) ReconcileService {
	return &reconcileService{
		jobsRepo:      jobsRepo,
		employersRepo: employersRepo,
		assets:        assets,
		trustedPrefix: trustedPrefix,
		logger:        logger,
	}
}

func (s *reconcileService) Admit(ctx context.Context, tenantID string, candidate domain.CandidateJob, imageBase64 string) (*Admission, error) {
	// 1. Shape validation.
	candidate.Title = strings.TrimSpace(candidate.Title)
	candidate.Company = domain.NormalizeCompany(candidate.Company)
	candidate.ApplicationLink = strings.TrimSpace(candidate.ApplicationLink)
	if tenantID == "" || candidate.Title == "" || candidate.Company == "" || candidate.ApplicationLink == "" {
		return nil, fmt.Errorf("candidate is missing required fields: %w", domain.ErrInvalidRequest)
	}
	if candidate.JobType != "" && !domain.ValidJobType(candidate.JobType) {
		return nil, fmt.Errorf("unknown job type %q: %w", candidate.JobType, domain.ErrInvalidRequest)
	}
	if !domain.ValidSalaryRange(candidate.SalaryMin, candidate.SalaryMax) {
		return nil, fmt.Errorf("invalid salary range: %w", domain.ErrInvalidRequest)
	}

	// 2. Trusted-source check. Candidates may only point at the scraper's
	// own origin; anything else is rejected outright.
	if !strings.HasPrefix(candidate.ApplicationLink, s.trustedPrefix) {
		s.logger.Warn("Candidate rejected: untrusted application link",
			zap.String("tenant_id", tenantID),
			zap.String("company", candidate.Company),
			zap.String("application_link", candidate.ApplicationLink),
		)
		return nil, fmt.Errorf("untrusted application link: %w", domain.ErrInvalidRequest)
	}

	// 3. Duplicate-link fast path. The partial unique index on
	// application_link is the authoritative guard at insert time; this read
	// just avoids the asset upload for the common duplicate case.
	exists, err := s.jobsRepo.HasBackfilledJobByLink(ctx, candidate.ApplicationLink)
	if err != nil {
		return nil, fmt.Errorf("duplicate-link check failed: %w", err)
	}
	if exists {
		return &Admission{Outcome: OutcomeAlreadyExists}, nil
	}

	// 4. Company collision: a company with an authentic posting anywhere is
	// never shadowed by scraped content.
	collides, err := s.jobsRepo.HasAuthenticJobByCompany(ctx, candidate.Company)
	if err != nil {
		return nil, fmt.Errorf("company-collision check failed: %w", err)
	}
	if collides {
		s.logger.Info("Candidate skipped: company has authentic postings",
			zap.String("tenant_id", tenantID),
			zap.String("company", candidate.Company),
		)
		return &Admission{Outcome: OutcomeCompanyConflict}, nil
	}

	// 5. Logo upload, non-fatal. A missing logo is a cosmetic defect, not a
	// reason to drop the posting.
	logoURL := ""
	if imageBase64 != "" {
		logoURL, err = s.assets.Upload(ctx, imageBase64)
		if err != nil {
			s.logger.Warn("Logo upload failed, admitting without logo",
				zap.String("tenant_id", tenantID),
				zap.String("company", candidate.Company),
				zap.Error(err),
			)
			logoURL = ""
		}
	}

	// 6. Admission. ON CONFLICT DO NOTHING collapses a concurrent admission
	// of the same link into created=false.
	datePosted := candidate.DatePosted
	if datePosted.IsZero() {
		datePosted = time.Now()
	}
	job := &domain.Job{
		TenantID:        tenantID,
		Title:           candidate.Title,
		Company:         candidate.Company,
		CompanyURL:      candidate.CompanyURL,
		CompanyLogo:     logoURL,
		JobType:         candidate.JobType,
		Location:        candidate.Location,
		Remote:          candidate.Remote,
		Skills:          candidate.Skills,
		ApplicationLink: candidate.ApplicationLink,
		Description:     candidate.Description,
		SalaryMin:       candidate.SalaryMin,
		SalaryMax:       candidate.SalaryMax,
		DatePosted:      datePosted,
		Backfilled:      true,
	}
	created, jobID, err := s.jobsRepo.CreateBackfilledJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to store backfilled job: %w", err)
	}
	if !created {
		return &Admission{Outcome: OutcomeAlreadyExists}, nil
	}
	job.JobID = jobID

	// 7. Directory maintenance. The unique company column makes this a
	// create-on-first-sighting; a failure here never undoes the admission.
	entryCreated, err := s.employersRepo.EnsureEmployer(ctx, &domain.BackfilledEmployer{
		Company: candidate.Company,
		Website: candidate.CompanyURL,
		Logo:    logoURL,
	})
	if err != nil {
		s.logger.Warn("Failed to maintain backfilled-employer directory",
			zap.String("company", candidate.Company),
			zap.Error(err),
		)
	}

	s.logger.Info("Candidate admitted",
		zap.String("tenant_id", tenantID),
		zap.String("job_id", jobID),
		zap.String("company", candidate.Company),
		zap.Bool("directory_entry_created", entryCreated),
	)
	return &Admission{Outcome: OutcomeAdmitted, Job: job}, nil
}
