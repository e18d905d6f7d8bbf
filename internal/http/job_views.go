package httpapi

import (
	"time"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// jobView is the wire shape of a posting.
type jobView struct {
	ID              string    `json:"id"`
	JobBoardID      string    `json:"jobboardId"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	CompanyURL      string    `json:"companyUrl,omitempty"`
	CompanyLogo     string    `json:"companyLogo,omitempty"`
	Type            string    `json:"type"`
	Location        string    `json:"location,omitempty"`
	Remote          bool      `json:"remote"`
	Skills          []string  `json:"skills,omitempty"`
	Perks           []string  `json:"perks,omitempty"`
	Featured        bool      `json:"featured"`
	ApplicationLink string    `json:"applicationLink"`
	Description     string    `json:"description,omitempty"`
	SalaryMin       int       `json:"salaryMin"`
	SalaryMax       int       `json:"salaryMax"`
	DatePosted      time.Time `json:"datePosted"`
	Backfilled      bool      `json:"backfilled"`
	EmployerID      string    `json:"employerId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toJobView(j *domain.Job) jobView {
	return jobView{
		ID:              j.JobID,
		JobBoardID:      j.TenantID,
		Title:           j.Title,
		Company:         j.Company,
		CompanyURL:      j.CompanyURL,
		CompanyLogo:     j.CompanyLogo,
		Type:            j.JobType,
		Location:        j.Location,
		Remote:          j.Remote,
		Skills:          j.Skills,
		Perks:           j.Perks,
		Featured:        j.Featured,
		ApplicationLink: j.ApplicationLink,
		Description:     j.Description,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		DatePosted:      j.DatePosted,
		Backfilled:      j.Backfilled,
		EmployerID:      j.EmployerID,
		CreatedAt:       j.CreatedAt,
	}
}

func toJobViews(jobs []*domain.Job) []jobView {
	views := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, toJobView(j))
	}
	return views
}
