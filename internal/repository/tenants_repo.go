package repository

import (
	"context"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// TenantsRepository is the tenant registry. Domain uniqueness is guaranteed
// by the database; CreateTenant/UpdateTenant surface a violation as
// domain.ErrAlreadyExists.
type TenantsRepository interface {
	// GetTenant fetches a tenant by id.
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// GetTenantByDomain resolves a request host to its board. The domain
	// column has a unique index, so this is the hot path for every request.
	GetTenantByDomain(ctx context.Context, domainName string) (*domain.Tenant, error)

	// ListTenants returns tenants filtered by status ("" = any).
	ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error)

	CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error)

	// UpdateTenant overwrites the mutable fields. Callers enforce the
	// domain-immutability policy before reaching the store.
	UpdateTenant(ctx context.Context, tenantID string, tenant *domain.Tenant) error
}
