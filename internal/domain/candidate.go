package domain

import "time"

// CandidateJob is a raw posting produced by the scraper, before admission.
// The reconciliation engine decides whether it enters the job store.
type CandidateJob struct {
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	CompanyURL      string    `json:"companyUrl"`
	JobType         string    `json:"type"`
	Location        string    `json:"location"`
	Remote          bool      `json:"remote"`
	Skills          []string  `json:"skills"`
	ApplicationLink string    `json:"applicationLink"`
	Description     string    `json:"description"`
	SalaryMin       int       `json:"salaryMin"`
	SalaryMax       int       `json:"salaryMax"`
	DatePosted      time.Time `json:"datePosted"` // zero means "now" at admission
}
