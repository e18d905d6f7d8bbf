package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// MemoryUsersRepository mirrors the users table uniqueness rules for tests.
type MemoryUsersRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{users: map[string]*domain.User{}}
}

var _ UsersRepository = (*MemoryUsersRepository)(nil)

func (r *MemoryUsersRepository) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryUsersRepository) GetUserByEmail(_ context.Context, tenantID, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryUsersRepository) CreateUser(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.TenantID != user.TenantID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return "", domain.ErrDuplicateAccount
		}
		if user.Role == domain.RoleEmployer && u.Role == domain.RoleEmployer &&
			user.Company != "" && u.Company == user.Company {
			return "", domain.ErrDuplicateAccount
		}
	}

	copied := *user
	copied.UserID = uuid.NewString()
	copied.TokenVersion = 0
	copied.CreatedAt = time.Now()
	r.users[copied.UserID] = &copied
	return copied.UserID, nil
}

func (r *MemoryUsersRepository) UpdateProfile(_ context.Context, userID string, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, u := range r.users {
		if id != userID && u.TenantID == existing.TenantID &&
			u.Role == domain.RoleEmployer && user.Company != "" && u.Company == user.Company {
			return domain.ErrDuplicateAccount
		}
	}

	existing.Company = user.Company
	existing.Website = user.Website
	existing.Logo = user.Logo
	existing.BillingAddress = user.BillingAddress
	return nil
}

func (r *MemoryUsersRepository) TokenVersion(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return u.TokenVersion, nil
}

func (r *MemoryUsersRepository) BumpTokenVersion(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.TokenVersion++
	return nil
}
