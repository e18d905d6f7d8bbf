package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
)

func newFeedFixture(t *testing.T) (FeedService, *repository.MemoryJobsRepository, *repository.MemoryEmployersRepository) {
	t.Helper()
	jobs := repository.NewMemoryJobsRepository()
	employers := repository.NewMemoryEmployersRepository()
	return NewFeedService(jobs, employers, zap.NewNop()), jobs, employers
}

func TestPurgeRequiresSuperadmin(t *testing.T) {
	svc, _, _ := newFeedFixture(t)

	for _, role := range []string{domain.RoleEmployer, domain.RoleAdmin, ""} {
		_, err := svc.PurgeBackfilled(context.Background(), role, PurgeScopeAll)
		require.ErrorIs(t, err, domain.ErrUnauthorized, "role %q", role)
	}
}

func TestPurgeScopeValidation(t *testing.T) {
	svc, _, _ := newFeedFixture(t)

	for _, scope := range []string{"", "everything", "tenant:"} {
		_, err := svc.PurgeBackfilled(context.Background(), domain.RoleSuperadmin, scope)
		require.ErrorIs(t, err, domain.ErrInvalidRequest, "scope %q", scope)
	}
}

func TestPurgeTenantScopeKeepsDirectory(t *testing.T) {
	svc, jobs, employers := newFeedFixture(t)

	_, _, err := jobs.CreateBackfilledJob(context.Background(), &domain.Job{
		TenantID: "t-1", Title: "A", Company: "acme",
		ApplicationLink: "https://s.test/1", DatePosted: time.Now(),
	})
	require.NoError(t, err)
	_, err = employers.EnsureEmployer(context.Background(), &domain.BackfilledEmployer{Company: "acme"})
	require.NoError(t, err)

	result, err := svc.PurgeBackfilled(context.Background(), domain.RoleSuperadmin, "tenant:t-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, result.JobsDeleted)
	require.Zero(t, result.EmployersDeleted)

	// The directory is global; a single-tenant purge leaves it intact.
	_, err = employers.GetEmployerByCompany(context.Background(), "acme")
	require.NoError(t, err)
}

func TestPurgeAllClearsDirectory(t *testing.T) {
	svc, jobs, employers := newFeedFixture(t)

	for i, tenant := range []string{"t-1", "t-2"} {
		_, _, err := jobs.CreateBackfilledJob(context.Background(), &domain.Job{
			TenantID: tenant, Title: "A", Company: "acme",
			ApplicationLink: "https://s.test/" + tenant, DatePosted: time.Now(),
		})
		require.NoError(t, err, "tenant %d", i)
	}
	_, err := employers.EnsureEmployer(context.Background(), &domain.BackfilledEmployer{Company: "acme"})
	require.NoError(t, err)

	result, err := svc.PurgeBackfilled(context.Background(), domain.RoleSuperadmin, PurgeScopeAll)
	require.NoError(t, err)
	require.EqualValues(t, 2, result.JobsDeleted)
	require.EqualValues(t, 1, result.EmployersDeleted)
}

func TestListJobsClampsNegativePage(t *testing.T) {
	svc, jobs, _ := newFeedFixture(t)

	_, err := jobs.CreateJob(context.Background(), &domain.Job{
		TenantID: "t-1", Title: "A", Company: "acme", DatePosted: time.Now(),
	})
	require.NoError(t, err)

	page, err := svc.ListJobs(context.Background(), repository.JobFilters{TenantID: "t-1"}, -3)
	require.NoError(t, err)
	require.Len(t, page, 1)
}
