package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/budgets/be/service"
)

// MemoryRepository is a simple in-memory implementation suitable for tests and early development.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]service.Budget
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[uuid.UUID]service.Budget)}
}

func (r *MemoryRepository) Create(ctx context.Context, b service.Budget) (service.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[b.ID] = b
	return b, nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]service.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []service.Budget{}
	for _, b := range r.byID {
		if b.OwnerID == ownerID {
			items = append(items, b)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *MemoryRepository) Get(ctx context.Context, ownerID string, id uuid.UUID) (service.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok || b.OwnerID != ownerID {
		return service.Budget{}, service.ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepository) ApplyPatch(ctx context.Context, ownerID string, id uuid.UUID, patch service.Patch) (service.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok || b.OwnerID != ownerID {
		return service.Budget{}, service.ErrNotFound
	}

	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.AcceptedNotes != nil {
		b.AcceptedNotes = patch.AcceptedNotes
	}
	if patch.CompletionNotes != nil {
		b.CompletionNotes = patch.CompletionNotes
	}
	if patch.FinalValue != nil {
		b.FinalValue = patch.FinalValue
	}
	if patch.ValueChanged != nil {
		b.ValueChanged = patch.ValueChanged
	}
	if patch.ExecutionDays != nil {
		b.ExecutionDays = patch.ExecutionDays
	}
	if patch.AcceptedAt != nil {
		b.AcceptedAt = patch.AcceptedAt
	}
	if patch.StartedAt != nil {
		b.StartedAt = patch.StartedAt
	}
	if patch.DeliveredAt != nil {
		b.DeliveredAt = patch.DeliveredAt
	}

	r.byID[id] = b
	return b, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok || b.OwnerID != ownerID {
		return service.ErrNotFound
	}
	delete(r.byID, b.ID)
	return nil
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
