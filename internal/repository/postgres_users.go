package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// PostgresUsersRepository stores accounts in the users table.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	tenant_id::text,
	email,
	password_hash,
	role,
	company,
	website,
	logo,
	billing_address,
	token_version,
	created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.TenantID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Company,
		&user.Website,
		&user.Logo,
		&user.BillingAddress,
		&user.TokenVersion,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1::uuid`, userColumns)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE tenant_id = $1::uuid AND lower(email) = lower($2)`,
		userColumns)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, tenantID, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (
			tenant_id, email, password_hash, role, company, website, logo,
			billing_address
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING user_id::text`,
		user.TenantID, user.Email, user.PasswordHash, user.Role, user.Company,
		user.Website, user.Logo, user.BillingAddress,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return "", fmt.Errorf("account for %s: %w", user.Email, domain.ErrDuplicateAccount)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func (r *PostgresUsersRepository) UpdateProfile(ctx context.Context, userID string, user *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			company = $2, website = $3, logo = $4, billing_address = $5
		WHERE user_id = $1::uuid`,
		userID, user.Company, user.Website, user.Logo, user.BillingAddress,
	)
	if err != nil {
		if isUniqueViolation(err, "idx_users_tenant_company") {
			return fmt.Errorf("company %s already registered: %w", user.Company, domain.ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresUsersRepository) TokenVersion(ctx context.Context, userID string) (int, error) {
	var version int
	err := r.db.QueryRowContext(ctx,
		`SELECT token_version FROM users WHERE user_id = $1::uuid`, userID,
	).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to get token version: %w", err)
	}
	return version, nil
}

func (r *PostgresUsersRepository) BumpTokenVersion(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET token_version = token_version + 1 WHERE user_id = $1::uuid`, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to bump token version: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
