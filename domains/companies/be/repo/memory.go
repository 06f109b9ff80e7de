package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/companies/be/service"
)

// MemoryRepository is a simple in-memory implementation suitable for tests and early development.
type MemoryRepository struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]service.Company
	members   map[uuid.UUID]service.Member
	contracts map[uuid.UUID]service.Contract
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		companies: make(map[uuid.UUID]service.Company),
		members:   make(map[uuid.UUID]service.Member),
		contracts: make(map[uuid.UUID]service.Contract),
	}
}

func (r *MemoryRepository) CreateCompany(ctx context.Context, c service.Company) (service.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.companies[c.ID] = c
	return c, nil
}

func (r *MemoryRepository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.companies, id)
	for mid, m := range r.members {
		if m.CompanyID == id {
			delete(r.members, mid)
		}
	}
	for cid, c := range r.contracts {
		if c.CompanyID == id {
			delete(r.contracts, cid)
		}
	}
	return nil
}

func (r *MemoryRepository) CreateMember(ctx context.Context, m service.Member) (service.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[m.ID] = m
	return m, nil
}

func (r *MemoryRepository) CreateContract(ctx context.Context, c service.Contract) (service.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts[c.ID] = c
	return c, nil
}

// Companies returns a snapshot of stored companies; test helper.
func (r *MemoryRepository) Companies() []service.Company {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]service.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out
}

// Members returns a snapshot of stored members; test helper.
func (r *MemoryRepository) Members() []service.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]service.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

// Contracts returns a snapshot of stored contracts; test helper.
func (r *MemoryRepository) Contracts() []service.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]service.Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		out = append(out, c)
	}
	return out
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
