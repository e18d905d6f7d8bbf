package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
)

// Purge scopes accepted by PurgeBackfilled. "all" clears every tenant and the
// employer directory; "tenant:<id>" clears one board and leaves the directory
// alone.
const (
	PurgeScopeAll          = "all"
	purgeScopeTenantPrefix = "tenant:"
)

// PurgeResult tallies what a purge removed.
type PurgeResult struct {
	JobsDeleted      int64 `json:"jobsDeleted"`
	EmployersDeleted int64 `json:"employersDeleted"`
}

// FeedService serves the public listing surface. List and Count share one
// filter construction so a page and its total can never disagree.
type FeedService interface {
	// ListJobs returns one page of the tenant's feed. pageIndex is zero-based.
	ListJobs(ctx context.Context, f repository.JobFilters, pageIndex int) ([]*domain.Job, error)

	// CountJobs returns the total matching the same filters ListJobs applies.
	CountJobs(ctx context.Context, f repository.JobFilters) (int, error)

	GetJob(ctx context.Context, jobID string) (*domain.Job, error)

	// PurgeBackfilled removes scraped content. Superadmin only; the scope is
	// an explicit caller decision, never a default.
	PurgeBackfilled(ctx context.Context, actorRole, scope string) (*PurgeResult, error)
}

type feedService struct {
	jobsRepo      repository.JobsRepository
	employersRepo repository.EmployersRepository
	logger        *zap.Logger
}

func NewFeedService(jobsRepo repository.JobsRepository, employersRepo repository.EmployersRepository, logger *zap.Logger) FeedService {
	return &feedService{
		jobsRepo:      jobsRepo,
		employersRepo: employersRepo,
		logger:        logger,
	}
}

func (s *feedService) ListJobs(ctx context.Context, f repository.JobFilters, pageIndex int) ([]*domain.Job, error) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	return s.jobsRepo.ListJobs(ctx, f, pageIndex)
}

func (s *feedService) CountJobs(ctx context.Context, f repository.JobFilters) (int, error) {
	return s.jobsRepo.CountJobs(ctx, f)
}

func (s *feedService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required: %w", domain.ErrInvalidRequest)
	}
	return s.jobsRepo.GetJob(ctx, jobID)
}

func (s *feedService) PurgeBackfilled(ctx context.Context, actorRole, scope string) (*PurgeResult, error) {
	if actorRole != domain.RoleSuperadmin {
		return nil, fmt.Errorf("purge requires superadmin: %w", domain.ErrUnauthorized)
	}

	var tenantID string
	switch {
	case scope == PurgeScopeAll:
		tenantID = ""
	case strings.HasPrefix(scope, purgeScopeTenantPrefix):
		tenantID = strings.TrimPrefix(scope, purgeScopeTenantPrefix)
		if tenantID == "" {
			return nil, fmt.Errorf("purge scope %q names no tenant: %w", scope, domain.ErrInvalidRequest)
		}
	default:
		return nil, fmt.Errorf("unknown purge scope %q: %w", scope, domain.ErrInvalidRequest)
	}

	jobsDeleted, err := s.jobsRepo.PurgeBackfilled(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to purge backfilled jobs: %w", err)
	}

	var employersDeleted int64
	if tenantID == "" {
		employersDeleted, err = s.employersRepo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to purge employer directory: %w", err)
		}
	}

	s.logger.Info("Backfilled content purged",
		zap.String("scope", scope),
		zap.Int64("jobs_deleted", jobsDeleted),
		zap.Int64("employers_deleted", employersDeleted),
	)
	return &PurgeResult{JobsDeleted: jobsDeleted, EmployersDeleted: employersDeleted}, nil
}
