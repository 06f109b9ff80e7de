package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/budgets/be/service"
	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// PostgresRepository implements the budgets repository using the shared persistence layer.
type PostgresRepository struct {
	store *persistence.BudgetStore
}

// NewPostgresRepository constructs a repository backed by BudgetStore.
func NewPostgresRepository(store *persistence.BudgetStore) *PostgresRepository {
	if store == nil {
		panic("budget store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) Create(ctx context.Context, b service.Budget) (service.Budget, error) {
	rec, err := r.store.CreateBudget(ctx, persistence.CreateBudgetParams{
		BudgetID:     b.ID,
		OwnerID:      b.OwnerID,
		CompanyName:  b.CompanyName,
		ClientName:   b.ClientName,
		ProjectType:  b.ProjectType,
		Description:  b.Description,
		Features:     b.Features,
		Deadline:     b.Deadline,
		Value:        b.Value,
		PaymentTerms: b.PaymentTerms,
		Status:       b.Status,
	})
	if err != nil {
		return service.Budget{}, err
	}
	return toServiceBudget(rec), nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]service.Budget, error) {
	recs, err := r.store.ListBudgetsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	budgets := make([]service.Budget, 0, len(recs))
	for _, rec := range recs {
		budgets = append(budgets, toServiceBudget(rec))
	}
	return budgets, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID string, id uuid.UUID) (service.Budget, error) {
	rec, err := r.store.GetBudget(ctx, ownerID, id)
	if err != nil {
		return service.Budget{}, mapNotFound(err)
	}
	return toServiceBudget(rec), nil
}

func (r *PostgresRepository) ApplyPatch(ctx context.Context, ownerID string, id uuid.UUID, patch service.Patch) (service.Budget, error) {
	rec, err := r.store.UpdateBudget(ctx, ownerID, id, persistence.BudgetPatch{
		Status:          patch.Status,
		AcceptedNotes:   patch.AcceptedNotes,
		CompletionNotes: patch.CompletionNotes,
		FinalValue:      patch.FinalValue,
		ValueChanged:    patch.ValueChanged,
		ExecutionDays:   patch.ExecutionDays,
		AcceptedAt:      patch.AcceptedAt,
		StartedAt:       patch.StartedAt,
		DeliveredAt:     patch.DeliveredAt,
	})
	if err != nil {
		return service.Budget{}, mapNotFound(err)
	}
	return toServiceBudget(rec), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := r.store.DeleteBudget(ctx, ownerID, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func toServiceBudget(rec persistence.BudgetRecord) service.Budget {
	return service.Budget{
		ID:              rec.BudgetID,
		OwnerID:         rec.OwnerID,
		CompanyName:     rec.CompanyName,
		ClientName:      rec.ClientName,
		ProjectType:     rec.ProjectType,
		Description:     rec.Description,
		Features:        rec.Features,
		Deadline:        rec.Deadline,
		Value:           rec.Value,
		PaymentTerms:    rec.PaymentTerms,
		Status:          rec.Status,
		AcceptedNotes:   rec.AcceptedNotes,
		CompletionNotes: rec.CompletionNotes,
		FinalValue:      rec.FinalValue,
		ValueChanged:    rec.ValueChanged,
		ExecutionDays:   rec.ExecutionDays,
		CreatedAt:       rec.CreatedAt,
		AcceptedAt:      rec.AcceptedAt,
		StartedAt:       rec.StartedAt,
		DeliveredAt:     rec.DeliveredAt,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
