package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/delivery/be/service"
	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// PostgresRepository implements the delivery repository on ProductStore.
type PostgresRepository struct {
	store *persistence.ProductStore
}

// NewPostgresRepository constructs a repository backed by ProductStore.
func NewPostgresRepository(store *persistence.ProductStore) *PostgresRepository {
	if store == nil {
		panic("product store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id uuid.UUID) (service.Product, error) {
	rec, err := r.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.Product{}, service.ErrNotFound
		}
		return service.Product{}, err
	}
	return service.Product{
		ID:        rec.ProductID,
		Name:      rec.Name,
		ObjectKey: rec.ObjectKey,
		Price:     rec.Price,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *PostgresRepository) HasPurchase(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	return r.store.HasPurchase(ctx, userID, productID)
}

func (r *PostgresRepository) CreatePurchase(ctx context.Context, userID string, productID uuid.UUID) error {
	return r.store.CreatePurchase(ctx, userID, productID)
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
