package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// PostgresEmployersRepository is the backfilled-company directory.
type PostgresEmployersRepository struct {
	db *sql.DB
}

func NewPostgresEmployersRepository(db *sql.DB) *PostgresEmployersRepository {
	return &PostgresEmployersRepository{db: db}
}

var _ EmployersRepository = (*PostgresEmployersRepository)(nil)

// EnsureEmployer runs on first sighting of a company. The unique index on
// company makes concurrent first sightings collapse to one row.
func (r *PostgresEmployersRepository) EnsureEmployer(ctx context.Context, emp *domain.BackfilledEmployer) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO backfilled_employers (company, website, logo)
		VALUES ($1, $2, $3)
		ON CONFLICT (company) DO NOTHING
		RETURNING id::text`,
		emp.Company, emp.Website, emp.Logo,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to ensure backfilled employer: %w", err)
	}
	emp.ID = id
	return true, nil
}

func (r *PostgresEmployersRepository) GetEmployerByCompany(ctx context.Context, company string) (*domain.BackfilledEmployer, error) {
	var emp domain.BackfilledEmployer
	err := r.db.QueryRowContext(ctx, `
		SELECT id::text, company, website, logo, created_at
		FROM backfilled_employers
		WHERE company = $1`,
		company,
	).Scan(&emp.ID, &emp.Company, &emp.Website, &emp.Logo, &emp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("backfilled employer %s: %w", company, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get backfilled employer: %w", err)
	}
	return &emp, nil
}

func (r *PostgresEmployersRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backfilled_employers`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset backfilled employers: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
