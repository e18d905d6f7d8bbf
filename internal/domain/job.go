package domain

import (
	"strings"
	"time"
)

// Job types offered to employers.
const (
	JobTypeFullTime = "fulltime"
	JobTypePartTime = "parttime"
	JobTypeContract = "contract"
)

// FreshnessWindow is the rolling period defining "currently listed" jobs.
// Older postings stay in the store but drop out of the default feed.
const FreshnessWindow = 31 * 24 * time.Hour

// Job is a single posting (corresponds to the jobs table). A job belongs to
// exactly one tenant and is either an authentic paid posting (employer_id +
// order_id set) or a scraped one (backfilled=true).
type Job struct {
	JobID           string    `db:"job_id"` // UUID, PRIMARY KEY
	TenantID        string    `db:"tenant_id"`
	Title           string    `db:"title"`
	Company         string    `db:"company"`
	CompanyURL      string    `db:"company_url"`
	CompanyLogo     string    `db:"company_logo"`
	JobType         string    `db:"job_type"` // fulltime/parttime/contract
	Location        string    `db:"location"`
	Remote          bool      `db:"remote"`
	Skills          []string  `db:"skills"` // JSONB
	Perks           []string  `db:"perks"`  // JSONB
	Featured        bool      `db:"featured"`
	ApplicationLink string    `db:"application_link"`
	Description     string    `db:"description"`
	SalaryMin       int       `db:"salary_min"`
	SalaryMax       int       `db:"salary_max"`
	DatePosted      time.Time `db:"date_posted"`
	Backfilled      bool      `db:"backfilled"`
	EmployerID      string    `db:"employer_id"` // empty for backfilled jobs
	OrderID         string    `db:"order_id"`    // paid-creation idempotency key
	CreatedAt       time.Time `db:"created_at"`
}

// ValidJobType reports whether t is one of the accepted job types.
func ValidJobType(t string) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract:
		return true
	}
	return false
}

// ValidSalaryRange enforces salary_max >= salary_min. A zero max means
// "unspecified" and is always accepted.
func ValidSalaryRange(min, max int) bool {
	if min < 0 || max < 0 {
		return false
	}
	return max == 0 || max >= min
}

// NormalizeCompany is the single place that defines company-identity
// comparison for dedup and conflict detection. Matching stays byte-exact
// after trimming surrounding whitespace; "Acme" and "ACME" do not collide.
func NormalizeCompany(company string) string {
	return strings.TrimSpace(company)
}

// Expired reports whether the job has aged out of the default feed window.
func (j *Job) Expired(now time.Time) bool {
	return now.Sub(j.DatePosted) > FreshnessWindow
}
