package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// buildJobFilterClauses turns a JobFilters into a WHERE clause and its
// arguments. It is the single filter builder shared by ListJobs and
// CountJobs so the two can never drift apart.
//
// The freshness predicate (date_posted within the rolling window) is applied
// unconditionally; a missing tenant id is a caller error, never a
// cross-tenant feed.
func buildJobFilterClauses(f JobFilters, now time.Time) (string, []any, error) {
	if f.TenantID == "" {
		return "", nil, fmt.Errorf("tenant id is required: %w", domain.ErrInvalidRequest)
	}

	clauses := []string{"tenant_id = $1::uuid", "date_posted >= $2"}
	args := []any{f.TenantID, now.Add(-domain.FreshnessWindow)}

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.EmployerID != "" {
		clauses = append(clauses, "employer_id = "+next()+"::uuid")
		args = append(args, f.EmployerID)
	}
	if f.JobType != "" {
		clauses = append(clauses, "job_type = "+next())
		args = append(args, f.JobType)
	}
	if f.Company != "" {
		clauses = append(clauses, "company = "+next())
		args = append(args, f.Company)
	}
	if f.Location != "" {
		// A seeker asking for "remote" wants remote-friendly jobs anywhere,
		// not jobs whose location string happens to be "remote".
		if strings.EqualFold(f.Location, "remote") {
			clauses = append(clauses, "remote = true")
		} else {
			clauses = append(clauses, "location = "+next())
			args = append(args, f.Location)
		}
	}
	if f.SalaryMin > 0 {
		// The filter expresses the seeker's floor, matched against the
		// job's ceiling so a wide-range posting still surfaces.
		clauses = append(clauses, "salary_max >= "+next())
		args = append(args, f.SalaryMin)
	}
	if f.Search != "" {
		p := next()
		clauses = append(clauses, "(title ILIKE "+p+" OR company ILIKE "+p+")")
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	return strings.Join(clauses, " AND "), args, nil
}

// feedOrderBy is the product ordering: authentic postings outrank backfilled
// ones at equal recency, newest first within a tier, creation time as the
// tie-break. Pagination depends on this being total and stable.
const feedOrderBy = "ORDER BY backfilled ASC, date_posted DESC, created_at DESC"

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
