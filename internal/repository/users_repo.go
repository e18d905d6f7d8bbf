package repository

import (
	"context"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// UsersRepository stores employer/admin accounts. The (tenant, email) and
// (tenant, company) uniqueness rules live in the database; a violation
// surfaces as domain.ErrDuplicateAccount.
type UsersRepository interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail looks an account up within one tenant. Email matching
	// is case-insensitive.
	GetUserByEmail(ctx context.Context, tenantID, email string) (*domain.User, error)

	CreateUser(ctx context.Context, user *domain.User) (string, error)

	// UpdateProfile overwrites the employer profile fields (company,
	// website, logo, billing address).
	UpdateProfile(ctx context.Context, userID string, user *domain.User) error

	// TokenVersion returns the current refresh-token version for the user.
	TokenVersion(ctx context.Context, userID string) (int, error)

	// BumpTokenVersion invalidates every outstanding refresh token for the
	// user by incrementing the stored version.
	BumpTokenVersion(ctx context.Context, userID string) error
}
