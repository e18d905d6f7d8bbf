package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
)

// TenantInput carries the admin-editable tenant fields.
type TenantInput struct {
	TenantName      string   `json:"tenantName"`
	Company         string   `json:"company"`
	Email           string   `json:"email"`
	Domain          string   `json:"domain"`
	PriceRegular    int      `json:"priceRegular"`
	PriceFeatured   int      `json:"priceFeatured"`
	Skills          []string `json:"skills"`
	SearchQuery     string   `json:"searchQuery"`
	TwitterHashtags []string `json:"twitterHashtags"`
	Status          string   `json:"status"`
}

// TenantService manages the board registry.
type TenantService interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error)

	// CreateTenant registers a new board. The domain must be unique across
	// the fleet; a collision fails with domain.ErrAlreadyExists.
	CreateTenant(ctx context.Context, input TenantInput) (*domain.Tenant, error)

	// UpdateTenant overwrites the mutable fields. The domain of an active
	// board is immutable; changing it would strand live session cookies.
	UpdateTenant(ctx context.Context, tenantID string, input TenantInput) (*domain.Tenant, error)
}

type tenantService struct {
	tenantsRepo repository.TenantsRepository
	logger      *zap.Logger
}

func NewTenantService(tenantsRepo repository.TenantsRepository, logger *zap.Logger) TenantService {
	return &tenantService{tenantsRepo: tenantsRepo, logger: logger}
}

func normalizeTenantInput(input *TenantInput) error {
	input.TenantName = strings.TrimSpace(input.TenantName)
	input.Domain = strings.ToLower(strings.TrimSpace(input.Domain))
	if input.TenantName == "" || input.Domain == "" {
		return fmt.Errorf("tenant name and domain are required: %w", domain.ErrInvalidRequest)
	}
	if input.Status == "" {
		input.Status = "active"
	}
	switch input.Status {
	case "active", "suspended", "deleted":
	default:
		return fmt.Errorf("unknown tenant status %q: %w", input.Status, domain.ErrInvalidRequest)
	}
	return nil
}

func tenantFromInput(input TenantInput) *domain.Tenant {
	return &domain.Tenant{
		TenantName:      input.TenantName,
		Company:         input.Company,
		Email:           input.Email,
		Domain:          input.Domain,
		PriceRegular:    input.PriceRegular,
		PriceFeatured:   input.PriceFeatured,
		Skills:          input.Skills,
		SearchQuery:     input.SearchQuery,
		TwitterHashtags: input.TwitterHashtags,
		Status:          input.Status,
	}
}

func (s *tenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantsRepo.GetTenant(ctx, tenantID)
}

func (s *tenantService) ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error) {
	return s.tenantsRepo.ListTenants(ctx, status)
}

func (s *tenantService) CreateTenant(ctx context.Context, input TenantInput) (*domain.Tenant, error) {
	if err := normalizeTenantInput(&input); err != nil {
		return nil, err
	}
	tenant := tenantFromInput(input)
	tenantID, err := s.tenantsRepo.CreateTenant(ctx, tenant)
	if err != nil {
		return nil, err
	}
	tenant.TenantID = tenantID
	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenantID),
		zap.String("domain", tenant.Domain),
	)
	return tenant, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, tenantID string, input TenantInput) (*domain.Tenant, error) {
	if err := normalizeTenantInput(&input); err != nil {
		return nil, err
	}
	current, err := s.tenantsRepo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if current.Status == "active" && input.Domain != current.Domain {
		return nil, fmt.Errorf("domain of an active tenant is immutable: %w", domain.ErrInvalidRequest)
	}

	tenant := tenantFromInput(input)
	tenant.TenantID = tenantID
	if err := s.tenantsRepo.UpdateTenant(ctx, tenantID, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("Tenant updated", zap.String("tenant_id", tenantID))
	return tenant, nil
}
