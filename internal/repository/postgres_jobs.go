package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// PostgresJobsRepository is the production job store.
type PostgresJobsRepository struct {
	db *sql.DB
}

func NewPostgresJobsRepository(db *sql.DB) *PostgresJobsRepository {
	return &PostgresJobsRepository{db: db}
}

var _ JobsRepository = (*PostgresJobsRepository)(nil)

const jobColumns = `
	job_id::text,
	tenant_id::text,
	title,
	company,
	company_url,
	company_logo,
	job_type,
	location,
	remote,
	COALESCE(skills, '[]'::jsonb),
	COALESCE(perks, '[]'::jsonb),
	featured,
	application_link,
	description,
	salary_min,
	salary_max,
	date_posted,
	backfilled,
	COALESCE(employer_id::text, ''),
	COALESCE(order_id, ''),
	created_at`

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	var job domain.Job
	var skillsRaw, perksRaw []byte
	err := row.Scan(
		&job.JobID,
		&job.TenantID,
		&job.Title,
		&job.Company,
		&job.CompanyURL,
		&job.CompanyLogo,
		&job.JobType,
		&job.Location,
		&job.Remote,
		&skillsRaw,
		&perksRaw,
		&job.Featured,
		&job.ApplicationLink,
		&job.Description,
		&job.SalaryMin,
		&job.SalaryMax,
		&job.DatePosted,
		&job.Backfilled,
		&job.EmployerID,
		&job.OrderID,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skillsRaw, &job.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(perksRaw, &job.Perks); err != nil {
		return nil, fmt.Errorf("failed to decode perks: %w", err)
	}
	return &job, nil
}

func jsonStrings(v []string) []byte {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return b
}

// ListJobs returns one feed page under the shared filter builder.
func (r *PostgresJobsRepository) ListJobs(ctx context.Context, f JobFilters, pageIndex int) ([]*domain.Job, error) {
	where, args, err := buildJobFilterClauses(f, time.Now())
	if err != nil {
		return nil, err
	}
	if pageIndex < 0 {
		pageIndex = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, feedOrderBy, len(args)+1, len(args)+2)
	args = append(args, FeedPageSize, pageIndex*FeedPageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CountJobs mirrors ListJobs through the same filter builder.
func (r *PostgresJobsRepository) CountJobs(ctx context.Context, f JobFilters) (int, error) {
	where, args, err := buildJobFilterClauses(f, time.Now())
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (r *PostgresJobsRepository) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE job_id = $1::uuid`, jobColumns)
	job, err := scanJob(r.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *PostgresJobsRepository) CreateJob(ctx context.Context, job *domain.Job) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO jobs (
			tenant_id, title, company, company_url, company_logo, job_type,
			location, remote, skills, perks, featured, application_link,
			description, salary_min, salary_max, date_posted, backfilled,
			employer_id, order_id
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11,
			$12, $13, $14, $15, $16, false, $17::uuid, NULLIF($18, '')
		)
		RETURNING job_id::text`,
		job.TenantID, job.Title, job.Company, job.CompanyURL, job.CompanyLogo,
		job.JobType, job.Location, job.Remote, jsonStrings(job.Skills),
		jsonStrings(job.Perks), job.Featured, job.ApplicationLink,
		job.Description, job.SalaryMin, job.SalaryMax, job.DatePosted,
		job.EmployerID, job.OrderID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "idx_jobs_order_id") {
			return "", fmt.Errorf("order %s already consumed: %w", job.OrderID, domain.ErrDuplicateOrder)
		}
		return "", fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// CreateBackfilledJob leans on the partial unique index over
// application_link: the conflict outcome is the idempotent no-op, not an
// error, so two racing admissions of the same link collapse to one row.
func (r *PostgresJobsRepository) CreateBackfilledJob(ctx context.Context, job *domain.Job) (bool, string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO jobs (
			tenant_id, title, company, company_url, company_logo, job_type,
			location, remote, skills, perks, featured, application_link,
			description, salary_min, salary_max, date_posted, backfilled
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11,
			$12, $13, $14, $15, $16, true
		)
		ON CONFLICT (application_link) WHERE backfilled DO NOTHING
		RETURNING job_id::text`,
		job.TenantID, job.Title, job.Company, job.CompanyURL, job.CompanyLogo,
		job.JobType, job.Location, job.Remote, jsonStrings(job.Skills),
		jsonStrings(job.Perks), job.Featured, job.ApplicationLink,
		job.Description, job.SalaryMin, job.SalaryMax, job.DatePosted,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, "", nil
		}
		return false, "", fmt.Errorf("failed to create backfilled job: %w", err)
	}
	return true, id, nil
}

func (r *PostgresJobsRepository) UpdateJob(ctx context.Context, job *domain.Job) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, company = $3, company_url = $4, company_logo = $5,
			job_type = $6, location = $7, remote = $8, skills = $9::jsonb,
			perks = $10::jsonb, featured = $11, application_link = $12,
			description = $13, salary_min = $14, salary_max = $15
		WHERE job_id = $1::uuid`,
		job.JobID, job.Title, job.Company, job.CompanyURL, job.CompanyLogo,
		job.JobType, job.Location, job.Remote, jsonStrings(job.Skills),
		jsonStrings(job.Perks), job.Featured, job.ApplicationLink,
		job.Description, job.SalaryMin, job.SalaryMax,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", job.JobID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresJobsRepository) DeleteJob(ctx context.Context, jobID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = $1::uuid`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresJobsRepository) HasBackfilledJobByLink(ctx context.Context, applicationLink string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE backfilled AND application_link = $1)`,
		applicationLink,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check backfilled link: %w", err)
	}
	return exists, nil
}

func (r *PostgresJobsRepository) HasAuthenticJobByCompany(ctx context.Context, company string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE NOT backfilled AND company = $1)`,
		company,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check authentic company: %w", err)
	}
	return exists, nil
}

func (r *PostgresJobsRepository) HasAuthenticJobSince(ctx context.Context, tenantID string, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM jobs
			WHERE tenant_id = $1::uuid AND NOT backfilled AND date_posted >= $2
		)`,
		tenantID, since,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent authentic jobs: %w", err)
	}
	return exists, nil
}

func (r *PostgresJobsRepository) PurgeBackfilled(ctx context.Context, tenantID string) (int64, error) {
	var res sql.Result
	var err error
	if tenantID == "" {
		res, err = r.db.ExecContext(ctx, `DELETE FROM jobs WHERE backfilled`)
	} else {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM jobs WHERE backfilled AND tenant_id = $1::uuid`, tenantID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to purge backfilled jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// isUniqueViolation reports whether err is a Postgres unique violation on
// the named constraint ("" matches any).
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
