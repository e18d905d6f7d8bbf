package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// PostgresTenantsRepository is the production tenant registry.
type PostgresTenantsRepository struct {
	db *sql.DB
}

func NewPostgresTenantsRepository(db *sql.DB) *PostgresTenantsRepository {
	return &PostgresTenantsRepository{db: db}
}

var _ TenantsRepository = (*PostgresTenantsRepository)(nil)

const tenantColumns = `
	tenant_id::text,
	tenant_name,
	company,
	email,
	domain,
	price_regular,
	price_featured,
	COALESCE(skills, '[]'::jsonb),
	search_query,
	COALESCE(twitter_hashtags, '[]'::jsonb),
	status,
	created_at`

func scanTenant(row interface{ Scan(...any) error }) (*domain.Tenant, error) {
	var tenant domain.Tenant
	var skillsRaw, hashtagsRaw []byte
	err := row.Scan(
		&tenant.TenantID,
		&tenant.TenantName,
		&tenant.Company,
		&tenant.Email,
		&tenant.Domain,
		&tenant.PriceRegular,
		&tenant.PriceFeatured,
		&skillsRaw,
		&tenant.SearchQuery,
		&hashtagsRaw,
		&tenant.Status,
		&tenant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skillsRaw, &tenant.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(hashtagsRaw, &tenant.TwitterHashtags); err != nil {
		return nil, fmt.Errorf("failed to decode twitter_hashtags: %w", err)
	}
	return &tenant, nil
}

func (r *PostgresTenantsRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required: %w", domain.ErrInvalidRequest)
	}
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE tenant_id = $1::uuid`, tenantColumns)
	tenant, err := scanTenant(r.db.QueryRowContext(ctx, query, tenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

func (r *PostgresTenantsRepository) GetTenantByDomain(ctx context.Context, domainName string) (*domain.Tenant, error) {
	if domainName == "" {
		return nil, fmt.Errorf("domain is required: %w", domain.ErrInvalidRequest)
	}
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE domain = $1`, tenantColumns)
	tenant, err := scanTenant(r.db.QueryRowContext(ctx, query, domainName))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant for %s: %w", domainName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve tenant by domain: %w", err)
	}
	return tenant, nil
}

func (r *PostgresTenantsRepository) ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants`, tenantColumns)
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*domain.Tenant{}
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *PostgresTenantsRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tenants (
			tenant_name, company, email, domain, price_regular, price_featured,
			skills, search_query, twitter_hashtags, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9::jsonb, 'active')
		RETURNING tenant_id::text`,
		tenant.TenantName, tenant.Company, tenant.Email, tenant.Domain,
		tenant.PriceRegular, tenant.PriceFeatured, jsonStrings(tenant.Skills),
		tenant.SearchQuery, jsonStrings(tenant.TwitterHashtags),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "idx_tenants_domain") {
			return "", fmt.Errorf("domain %s already registered: %w", tenant.Domain, domain.ErrAlreadyExists)
		}
		return "", fmt.Errorf("failed to create tenant: %w", err)
	}
	return id, nil
}

func (r *PostgresTenantsRepository) UpdateTenant(ctx context.Context, tenantID string, tenant *domain.Tenant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET
			tenant_name = $2, company = $3, email = $4, domain = $5,
			price_regular = $6, price_featured = $7, skills = $8::jsonb,
			search_query = $9, twitter_hashtags = $10::jsonb
		WHERE tenant_id = $1::uuid`,
		tenantID, tenant.TenantName, tenant.Company, tenant.Email,
		tenant.Domain, tenant.PriceRegular, tenant.PriceFeatured,
		jsonStrings(tenant.Skills), tenant.SearchQuery,
		jsonStrings(tenant.TwitterHashtags),
	)
	if err != nil {
		if isUniqueViolation(err, "idx_tenants_domain") {
			return fmt.Errorf("domain %s already registered: %w", tenant.Domain, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tenant %s: %w", tenantID, domain.ErrNotFound)
	}
	return nil
}
