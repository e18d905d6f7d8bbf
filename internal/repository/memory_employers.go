package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// MemoryEmployersRepository mirrors the directory's company uniqueness.
type MemoryEmployersRepository struct {
	mu        sync.RWMutex
	employers map[string]*domain.BackfilledEmployer // company -> entry
}

func NewMemoryEmployersRepository() *MemoryEmployersRepository {
	return &MemoryEmployersRepository{employers: map[string]*domain.BackfilledEmployer{}}
}

var _ EmployersRepository = (*MemoryEmployersRepository)(nil)

func (r *MemoryEmployersRepository) EnsureEmployer(_ context.Context, emp *domain.BackfilledEmployer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employers[emp.Company]; ok {
		return false, nil
	}
	copied := *emp
	copied.ID = uuid.NewString()
	copied.CreatedAt = time.Now()
	r.employers[emp.Company] = &copied
	emp.ID = copied.ID
	return true, nil
}

func (r *MemoryEmployersRepository) GetEmployerByCompany(_ context.Context, company string) (*domain.BackfilledEmployer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employers[company]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *emp
	return &copied, nil
}

func (r *MemoryEmployersRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.employers))
	r.employers = map[string]*domain.BackfilledEmployer{}
	return n, nil
}
