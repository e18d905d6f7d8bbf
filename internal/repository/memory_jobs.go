package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// MemoryJobsRepository mirrors the Postgres job store semantics (filters,
// ordering, uniqueness) for tests and DB-less development. The mutex stands
// in for the store-level constraints closing the check-then-act races.
type MemoryJobsRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewMemoryJobsRepository() *MemoryJobsRepository {
	return &MemoryJobsRepository{jobs: map[string]*domain.Job{}}
}

var _ JobsRepository = (*MemoryJobsRepository)(nil)

func matchesFilters(j *domain.Job, f JobFilters, now time.Time) bool {
	if j.TenantID != f.TenantID {
		return false
	}
	if now.Sub(j.DatePosted) > domain.FreshnessWindow {
		return false
	}
	if f.EmployerID != "" && j.EmployerID != f.EmployerID {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.Company != "" && j.Company != f.Company {
		return false
	}
	if f.Location != "" {
		if strings.EqualFold(f.Location, "remote") {
			if !j.Remote {
				return false
			}
		} else if j.Location != f.Location {
			return false
		}
	}
	if f.SalaryMin > 0 && j.SalaryMax < f.SalaryMin {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), s) &&
			!strings.Contains(strings.ToLower(j.Company), s) {
			return false
		}
	}
	return true
}

// sortFeed applies the feed ordering contract:
// backfilled ASC, date_posted DESC, created_at DESC.
func sortFeed(jobs []*domain.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		a, b := jobs[i], jobs[k]
		if a.Backfilled != b.Backfilled {
			return !a.Backfilled
		}
		if !a.DatePosted.Equal(b.DatePosted) {
			return a.DatePosted.After(b.DatePosted)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *MemoryJobsRepository) filtered(f JobFilters) ([]*domain.Job, error) {
	if f.TenantID == "" {
		return nil, domain.ErrInvalidRequest
	}
	now := time.Now()
	out := []*domain.Job{}
	for _, j := range r.jobs {
		if matchesFilters(j, f, now) {
			copied := *j
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MemoryJobsRepository) ListJobs(_ context.Context, f JobFilters, pageIndex int) ([]*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out, err := r.filtered(f)
	if err != nil {
		return nil, err
	}
	sortFeed(out)

	if pageIndex < 0 {
		pageIndex = 0
	}
	start := pageIndex * FeedPageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + FeedPageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *MemoryJobsRepository) CountJobs(_ context.Context, f JobFilters) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out, err := r.filtered(f)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (r *MemoryJobsRepository) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *j
	return &copied, nil
}

func (r *MemoryJobsRepository) CreateJob(_ context.Context, job *domain.Job) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.OrderID != "" {
		for _, j := range r.jobs {
			if j.OrderID == job.OrderID {
				return "", domain.ErrDuplicateOrder
			}
		}
	}

	copied := *job
	copied.JobID = uuid.NewString()
	copied.Backfilled = false
	copied.CreatedAt = time.Now()
	r.jobs[copied.JobID] = &copied
	return copied.JobID, nil
}

func (r *MemoryJobsRepository) CreateBackfilledJob(_ context.Context, job *domain.Job) (bool, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.jobs {
		if j.Backfilled && j.ApplicationLink == job.ApplicationLink {
			return false, "", nil
		}
	}

	copied := *job
	copied.JobID = uuid.NewString()
	copied.Backfilled = true
	copied.CreatedAt = time.Now()
	r.jobs[copied.JobID] = &copied
	return true, copied.JobID, nil
}

func (r *MemoryJobsRepository) UpdateJob(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.jobs[job.JobID]
	if !ok {
		return domain.ErrNotFound
	}
	copied := *job
	copied.TenantID = existing.TenantID
	copied.Backfilled = existing.Backfilled
	copied.EmployerID = existing.EmployerID
	copied.OrderID = existing.OrderID
	copied.DatePosted = existing.DatePosted
	copied.CreatedAt = existing.CreatedAt
	r.jobs[job.JobID] = &copied
	return nil
}

func (r *MemoryJobsRepository) DeleteJob(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[jobID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

func (r *MemoryJobsRepository) HasBackfilledJobByLink(_ context.Context, applicationLink string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, j := range r.jobs {
		if j.Backfilled && j.ApplicationLink == applicationLink {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryJobsRepository) HasAuthenticJobByCompany(_ context.Context, company string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, j := range r.jobs {
		if !j.Backfilled && j.Company == company {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryJobsRepository) HasAuthenticJobSince(_ context.Context, tenantID string, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, j := range r.jobs {
		if !j.Backfilled && j.TenantID == tenantID && !j.DatePosted.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryJobsRepository) PurgeBackfilled(_ context.Context, tenantID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, j := range r.jobs {
		if !j.Backfilled {
			continue
		}
		if tenantID != "" && j.TenantID != tenantID {
			continue
		}
		delete(r.jobs, id)
		n++
	}
	return n, nil
}
