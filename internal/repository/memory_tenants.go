package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// MemoryTenantsRepository supports tests and DB-less development.
type MemoryTenantsRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewMemoryTenantsRepository() *MemoryTenantsRepository {
	return &MemoryTenantsRepository{tenants: map[string]*domain.Tenant{}}
}

var _ TenantsRepository = (*MemoryTenantsRepository)(nil)

func (r *MemoryTenantsRepository) GetTenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *MemoryTenantsRepository) GetTenantByDomain(_ context.Context, domainName string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tenants {
		if t.Domain == domainName {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryTenantsRepository) ListTenants(_ context.Context, status string) ([]*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Tenant{}
	for _, t := range r.tenants {
		if status != "" && t.Status != status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryTenantsRepository) CreateTenant(_ context.Context, tenant *domain.Tenant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tenants {
		if t.Domain == tenant.Domain {
			return "", domain.ErrAlreadyExists
		}
	}

	copied := *tenant
	copied.TenantID = uuid.NewString()
	if copied.Status == "" {
		copied.Status = "active"
	}
	copied.CreatedAt = time.Now()
	r.tenants[copied.TenantID] = &copied
	return copied.TenantID, nil
}

func (r *MemoryTenantsRepository) UpdateTenant(_ context.Context, tenantID string, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, t := range r.tenants {
		if id != tenantID && t.Domain == tenant.Domain {
			return domain.ErrAlreadyExists
		}
	}

	copied := *tenant
	copied.TenantID = tenantID
	if copied.Status == "" {
		copied.Status = existing.Status
	}
	copied.CreatedAt = existing.CreatedAt
	r.tenants[tenantID] = &copied
	return nil
}
