package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/service"
)

const scraperOrigin = "https://boards.scraped.test"

type fakeFeed struct {
	byQuery map[string][]clients.ScrapedPosting
	errFor  map[string]error
	fetches []string
}

func (f *fakeFeed) Fetch(_ context.Context, searchQuery string) ([]clients.ScrapedPosting, error) {
	f.fetches = append(f.fetches, searchQuery)
	if err := f.errFor[searchQuery]; err != nil {
		return nil, err
	}
	return f.byQuery[searchQuery], nil
}

type fakeBroadcaster struct {
	posts []string
}

func (f *fakeBroadcaster) Post(_ context.Context, text string) {
	f.posts = append(f.posts, text)
}

type passthroughAssets struct{}

func (passthroughAssets) Upload(_ context.Context, _ string) (string, error) {
	return "https://cdn.test/logo.png", nil
}

type workerFixture struct {
	worker      *Worker
	tenants     *repository.MemoryTenantsRepository
	jobs        *repository.MemoryJobsRepository
	feed        *fakeFeed
	broadcaster *fakeBroadcaster
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	tenants := repository.NewMemoryTenantsRepository()
	jobs := repository.NewMemoryJobsRepository()
	employers := repository.NewMemoryEmployersRepository()
	reconcile := service.NewReconcileService(jobs, employers, passthroughAssets{}, scraperOrigin, zap.NewNop())
	feed := &fakeFeed{
		byQuery: map[string][]clients.ScrapedPosting{},
		errFor:  map[string]error{},
	}
	broadcaster := &fakeBroadcaster{}
	return &workerFixture{
		worker:      NewWorker(tenants, jobs, reconcile, feed, broadcaster, zap.NewNop()),
		tenants:     tenants,
		jobs:        jobs,
		feed:        feed,
		broadcaster: broadcaster,
	}
}

func (f *workerFixture) addTenant(t *testing.T, query string, hashtags ...string) string {
	t.Helper()
	id, err := f.tenants.CreateTenant(context.Background(), &domain.Tenant{
		TenantName:      query + " board",
		Domain:          query + ".test",
		SearchQuery:     query,
		TwitterHashtags: hashtags,
		Status:          "active",
	})
	require.NoError(t, err)
	return id
}

func posting(company, link string) clients.ScrapedPosting {
	return clients.ScrapedPosting{
		Job: domain.CandidateJob{
			Title:           "Backend Engineer",
			Company:         company,
			JobType:         domain.JobTypeFullTime,
			Location:        "Berlin",
			ApplicationLink: scraperOrigin + link,
			SalaryMin:       60000,
			SalaryMax:       90000,
		},
	}
}

func TestRunAdmitsAndBroadcastsOnQuietBoard(t *testing.T) {
	f := newWorkerFixture(t)
	f.addTenant(t, "golang", "golang", "#jobs")
	f.feed.byQuery["golang"] = []clients.ScrapedPosting{
		posting("acme", "/jobs/1"),
		posting("globex", "/jobs/2"),
	}

	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.TenantsProcessed)
	require.Equal(t, 2, stats.CandidatesSeen)
	require.Equal(t, 2, stats.Admitted)
	require.Equal(t, 1, stats.Broadcasts)

	require.Len(t, f.broadcaster.posts, 1)
	text := f.broadcaster.posts[0]
	require.Contains(t, text, "Backend Engineer at globex")
	require.Contains(t, text, "(Berlin)")
	require.Contains(t, text, scraperOrigin+"/jobs/2")
	require.Contains(t, text, "#golang")
	require.Contains(t, text, "#jobs")
}

func TestRunSkipsBroadcastAfterAuthenticPosting(t *testing.T) {
	f := newWorkerFixture(t)
	tenantID := f.addTenant(t, "golang")
	f.feed.byQuery["golang"] = []clients.ScrapedPosting{posting("acme", "/jobs/1")}

	_, err := f.jobs.CreateJob(context.Background(), &domain.Job{
		TenantID:   tenantID,
		Title:      "Official Opening",
		Company:    "initech",
		DatePosted: time.Now().Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Admitted)
	require.Equal(t, 0, stats.Broadcasts)
	require.Empty(t, f.broadcaster.posts)
}

func TestRunSkipsBroadcastWhenNothingAdmitted(t *testing.T) {
	f := newWorkerFixture(t)
	f.addTenant(t, "golang")
	f.feed.byQuery["golang"] = []clients.ScrapedPosting{posting("acme", "/jobs/1")}

	_, err := f.worker.Run(context.Background())
	require.NoError(t, err)

	// Second run sees only the duplicate and stays silent.
	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.Admitted)
	require.Equal(t, 1, stats.Duplicates)
	require.Len(t, f.broadcaster.posts, 1)
}

func TestRunTalliesOutcomes(t *testing.T) {
	f := newWorkerFixture(t)
	tenantID := f.addTenant(t, "golang")

	_, err := f.jobs.CreateJob(context.Background(), &domain.Job{
		TenantID:   tenantID,
		Title:      "Official Opening",
		Company:    "initech",
		DatePosted: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	untrusted := posting("evilco", "/jobs/4")
	untrusted.Job.ApplicationLink = "https://evil.test/jobs/4"
	f.feed.byQuery["golang"] = []clients.ScrapedPosting{
		posting("acme", "/jobs/1"),
		posting("acme", "/jobs/1"),     // duplicate link
		posting("initech", "/jobs/3"),  // collides with the real employer
		untrusted,
	}

	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, stats.CandidatesSeen)
	require.Equal(t, 1, stats.Admitted)
	require.Equal(t, 1, stats.Duplicates)
	require.Equal(t, 1, stats.Conflicts)
	require.Equal(t, 1, stats.Rejected)
}

func TestRunSkipsTenantsWithoutSearchQuery(t *testing.T) {
	f := newWorkerFixture(t)
	_, err := f.tenants.CreateTenant(context.Background(), &domain.Tenant{
		TenantName: "Unconfigured", Domain: "blank.test", Status: "active",
	})
	require.NoError(t, err)

	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.TenantsProcessed)
	require.Empty(t, f.feed.fetches)
}

func TestRunContinuesPastFailingTenant(t *testing.T) {
	f := newWorkerFixture(t)
	f.addTenant(t, "golang")
	f.addTenant(t, "python")
	f.feed.errFor["golang"] = errors.New("scraper down")
	f.feed.byQuery["python"] = []clients.ScrapedPosting{posting("acme", "/jobs/1")}

	stats, err := f.worker.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, f.feed.fetches, 2)
	require.Equal(t, 1, stats.TenantsProcessed)
	require.Equal(t, 1, stats.Admitted)
}
