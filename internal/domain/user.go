package domain

import "time"

// User roles. Employers own postings; admins manage one board; the
// superadmin manages tenants and may purge backfilled content.
const (
	RoleEmployer   = "employer"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User is an employer or admin account (corresponds to the users table).
type User struct {
	UserID       string `db:"user_id"` // UUID, PRIMARY KEY
	TenantID     string `db:"tenant_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`

	// Employer profile, embedded. Company/contact fields are copied onto
	// every posting the employer updates.
	Company        string `db:"company"`
	Website        string `db:"website"`
	Logo           string `db:"logo"`
	BillingAddress string `db:"billing_address"`

	// TokenVersion is embedded in refresh tokens; bumping it invalidates
	// every outstanding refresh token for this user.
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
}

// BackfilledEmployer is a placeholder directory entry for a company known
// only through scraping (corresponds to the backfilled_employers table).
type BackfilledEmployer struct {
	ID        string    `db:"id"` // UUID, PRIMARY KEY
	Company   string    `db:"company"` // UNIQUE
	Website   string    `db:"website"`
	Logo      string    `db:"logo"`
	CreatedAt time.Time `db:"created_at"`
}
