package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

func seedJob(t *testing.T, repo *MemoryJobsRepository, job *domain.Job) string {
	t.Helper()
	if job.TenantID == "" {
		job.TenantID = "t-1"
	}
	if job.Title == "" {
		job.Title = "Engineer"
	}
	if job.Company == "" {
		job.Company = "Acme"
	}
	if job.DatePosted.IsZero() {
		job.DatePosted = time.Now()
	}

	var id string
	var err error
	if job.Backfilled {
		var created bool
		created, id, err = repo.CreateBackfilledJob(context.Background(), job)
		require.NoError(t, err)
		require.True(t, created)
	} else {
		id, err = repo.CreateJob(context.Background(), job)
		require.NoError(t, err)
	}
	return id
}

func TestFeedOrderingAuthenticFirstThenRecency(t *testing.T) {
	repo := NewMemoryJobsRepository()
	now := time.Now()

	oldAuthentic := seedJob(t, repo, &domain.Job{
		Company: "A", DatePosted: now.Add(-20 * 24 * time.Hour),
	})
	freshBackfilled := seedJob(t, repo, &domain.Job{
		Company: "B", Backfilled: true, ApplicationLink: "https://scraped.test/1", DatePosted: now,
	})
	freshAuthentic := seedJob(t, repo, &domain.Job{
		Company: "C", DatePosted: now.Add(-time.Hour),
	})

	jobs, err := repo.ListJobs(context.Background(), JobFilters{TenantID: "t-1"}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	// Backfilled content sinks below every authentic posting regardless of
	// recency; within a tier newest wins.
	require.Equal(t, freshAuthentic, jobs[0].JobID)
	require.Equal(t, oldAuthentic, jobs[1].JobID)
	require.Equal(t, freshBackfilled, jobs[2].JobID)
}

func TestFeedPaginationIsStable(t *testing.T) {
	repo := NewMemoryJobsRepository()
	now := time.Now()
	for i := 0; i < 25; i++ {
		seedJob(t, repo, &domain.Job{
			Company:    fmt.Sprintf("Company %d", i),
			DatePosted: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	seen := map[string]bool{}
	total := 0
	for page := 0; ; page++ {
		jobs, err := repo.ListJobs(context.Background(), JobFilters{TenantID: "t-1"}, page)
		require.NoError(t, err)
		for _, j := range jobs {
			require.False(t, seen[j.JobID], "job repeated across pages")
			seen[j.JobID] = true
		}
		total += len(jobs)
		if len(jobs) < FeedPageSize {
			break
		}
	}
	require.Equal(t, 25, total)

	count, err := repo.CountJobs(context.Background(), JobFilters{TenantID: "t-1"})
	require.NoError(t, err)
	require.Equal(t, 25, count)
}

func TestFeedFreshnessWindow(t *testing.T) {
	repo := NewMemoryJobsRepository()
	now := time.Now()

	inside := seedJob(t, repo, &domain.Job{Company: "Fresh", DatePosted: now.Add(-30 * 24 * time.Hour)})
	seedJob(t, repo, &domain.Job{Company: "Stale", DatePosted: now.Add(-32 * 24 * time.Hour)})

	jobs, err := repo.ListJobs(context.Background(), JobFilters{TenantID: "t-1"}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, inside, jobs[0].JobID)

	count, err := repo.CountJobs(context.Background(), JobFilters{TenantID: "t-1"})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestFeedSalaryFilterUsesCeiling(t *testing.T) {
	repo := NewMemoryJobsRepository()

	wide := seedJob(t, repo, &domain.Job{Company: "Wide", SalaryMin: 50000, SalaryMax: 120000})
	seedJob(t, repo, &domain.Job{Company: "Low", SalaryMin: 40000, SalaryMax: 80000})

	jobs, err := repo.ListJobs(context.Background(), JobFilters{TenantID: "t-1", SalaryMin: 100000}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, wide, jobs[0].JobID)
}

func TestFeedNeverCrossesTenants(t *testing.T) {
	repo := NewMemoryJobsRepository()
	seedJob(t, repo, &domain.Job{TenantID: "t-1", Company: "A"})
	seedJob(t, repo, &domain.Job{TenantID: "t-2", Company: "B"})

	jobs, err := repo.ListJobs(context.Background(), JobFilters{TenantID: "t-1"}, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	_, err = repo.ListJobs(context.Background(), JobFilters{}, 0)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestCreateBackfilledJobCollapsesDuplicateLinks(t *testing.T) {
	repo := NewMemoryJobsRepository()
	job := &domain.Job{
		TenantID: "t-1", Title: "Engineer", Company: "Acme",
		ApplicationLink: "https://scraped.test/jobs/1",
		Backfilled:      true, DatePosted: time.Now(),
	}

	created, id, err := repo.CreateBackfilledJob(context.Background(), job)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, id)

	created, id2, err := repo.CreateBackfilledJob(context.Background(), job)
	require.NoError(t, err)
	require.False(t, created)
	require.Empty(t, id2)

	count, err := repo.CountJobs(context.Background(), JobFilters{TenantID: "t-1"})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCreateJobRejectsDuplicateOrder(t *testing.T) {
	repo := NewMemoryJobsRepository()

	_, err := repo.CreateJob(context.Background(), &domain.Job{
		TenantID: "t-1", Title: "A", Company: "Acme", OrderID: "order-1", DatePosted: time.Now(),
	})
	require.NoError(t, err)

	_, err = repo.CreateJob(context.Background(), &domain.Job{
		TenantID: "t-1", Title: "B", Company: "Acme", OrderID: "order-1", DatePosted: time.Now(),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateOrder)
}

func TestPurgeBackfilledScopes(t *testing.T) {
	repo := NewMemoryJobsRepository()
	seedJob(t, repo, &domain.Job{TenantID: "t-1", Backfilled: true, ApplicationLink: "https://s.test/1"})
	seedJob(t, repo, &domain.Job{TenantID: "t-2", Backfilled: true, ApplicationLink: "https://s.test/2"})
	authentic := seedJob(t, repo, &domain.Job{TenantID: "t-1", Company: "Real"})

	n, err := repo.PurgeBackfilled(context.Background(), "t-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// Authentic postings and other tenants' backfill survive a scoped purge.
	_, err = repo.GetJob(context.Background(), authentic)
	require.NoError(t, err)

	n, err = repo.PurgeBackfilled(context.Background(), "")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestHasAuthenticJobSince(t *testing.T) {
	repo := NewMemoryJobsRepository()
	now := time.Now()
	seedJob(t, repo, &domain.Job{TenantID: "t-1", Company: "Old", DatePosted: now.Add(-48 * time.Hour)})
	seedJob(t, repo, &domain.Job{TenantID: "t-1", Backfilled: true, ApplicationLink: "https://s.test/1", DatePosted: now})

	has, err := repo.HasAuthenticJobSince(context.Background(), "t-1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.False(t, has)

	seedJob(t, repo, &domain.Job{TenantID: "t-1", Company: "New", DatePosted: now.Add(-time.Hour)})
	has, err = repo.HasAuthenticJobSince(context.Background(), "t-1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.True(t, has)
}
