package domain

import "time"

// Tenant is one branded job board (corresponds to the tenants table).
// Resolved from the request Host header on every call.
type Tenant struct {
	TenantID        string    `db:"tenant_id"` // UUID, PRIMARY KEY
	TenantName      string    `db:"tenant_name"`
	Company         string    `db:"company"`
	Email           string    `db:"email"`
	Domain          string    `db:"domain"` // UNIQUE, used for host-based resolution
	PriceRegular    int       `db:"price_regular"`
	PriceFeatured   int       `db:"price_featured"`
	Skills          []string  `db:"skills"`           // taxonomy offered to employers, JSONB
	SearchQuery     string    `db:"search_query"`     // scraper keyword
	TwitterHashtags []string  `db:"twitter_hashtags"` // ordered, JSONB
	Status          string    `db:"status"`           // active/suspended/deleted
	CreatedAt       time.Time `db:"created_at"`
}
