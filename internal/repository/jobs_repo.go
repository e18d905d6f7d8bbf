package repository

import (
	"context"
	"time"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// FeedPageSize is the fixed page size of the public listing.
const FeedPageSize = 10

// JobFilters is the declarative filter set of the feed. TenantID is the only
// mandatory field; the freshness window is applied unconditionally by every
// implementation and is not part of the struct.
type JobFilters struct {
	TenantID   string
	EmployerID string
	JobType    string
	Company    string
	// Location "remote" is rewritten to a Remote=true match instead of a
	// location-string comparison.
	Location string
	// SalaryMin is the seeker's floor, matched against the job's ceiling:
	// a job is admitted when job.salary_max >= SalaryMin.
	SalaryMin int
	// Search is a case-insensitive substring matched against title OR company.
	Search string
}

// JobsRepository is the job store. Both Postgres and the in-memory
// implementation honor the same ordering contract:
// backfilled ASC, date_posted DESC, created_at DESC.
type JobsRepository interface {
	// ListJobs returns one feed page. pageIndex is zero-based.
	ListJobs(ctx context.Context, f JobFilters, pageIndex int) ([]*domain.Job, error)

	// CountJobs mirrors ListJobs' filter construction without pagination.
	CountJobs(ctx context.Context, f JobFilters) (int, error)

	GetJob(ctx context.Context, jobID string) (*domain.Job, error)

	// CreateJob inserts an authentic posting. An order_id collision surfaces
	// as domain.ErrDuplicateOrder.
	CreateJob(ctx context.Context, job *domain.Job) (string, error)

	// CreateBackfilledJob inserts a scraped posting, relying on the partial
	// unique index over application_link: a conflict is reported as
	// created=false with no error, so concurrent admissions of the same
	// link collapse to one row.
	CreateBackfilledJob(ctx context.Context, job *domain.Job) (created bool, id string, err error)

	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, jobID string) error

	// HasBackfilledJobByLink is the fast-path duplicate check before an
	// admission attempt.
	HasBackfilledJobByLink(ctx context.Context, applicationLink string) (bool, error)

	// HasAuthenticJobByCompany reports whether a non-backfilled posting for
	// the company exists (company-collision check, any tenant).
	HasAuthenticJobByCompany(ctx context.Context, company string) (bool, error)

	// HasAuthenticJobSince drives the broadcast throttle: whether the tenant
	// had a real employer posting after the given time.
	HasAuthenticJobSince(ctx context.Context, tenantID string, since time.Time) (bool, error)

	// PurgeBackfilled removes scraped jobs. tenantID "" means every tenant
	// (the blast radius is an explicit caller decision).
	PurgeBackfilled(ctx context.Context, tenantID string) (int64, error)
}

// EmployersRepository is the backfilled-company directory.
type EmployersRepository interface {
	// EnsureEmployer creates the directory entry on first sighting of a
	// company; a conflict on the unique company column is reported as
	// created=false with no error.
	EnsureEmployer(ctx context.Context, emp *domain.BackfilledEmployer) (created bool, err error)

	GetEmployerByCompany(ctx context.Context, company string) (*domain.BackfilledEmployer, error)

	// DeleteAll resets the directory (used by the backfill purge).
	DeleteAll(ctx context.Context) (int64, error)
}
