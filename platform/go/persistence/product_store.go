package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	ProductsTable  = "products"
	PurchasesTable = "purchases"
)

// ProductRecord represents a purchasable content pack.
type ProductRecord struct {
	ProductID uuid.UUID       `db:"product_id"`
	Name      string          `db:"name"`
	ObjectKey string          `db:"object_key"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

// PurchaseRecord links a user to a product they bought.
type PurchaseRecord struct {
	PurchaseID uuid.UUID `db:"purchase_id"`
	ProductID  uuid.UUID `db:"product_id"`
	UserID     string    `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// ProductStore exposes persistence helpers for products and purchases.
type ProductStore struct {
	pool *pgxpool.Pool
}

// NewProductStore returns a store instance bound to the shared pool.
func NewProductStore(pool *pgxpool.Pool) (*ProductStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ProductStore{pool: pool}, nil
}

// CreateProduct inserts a catalog item and returns the stored row.
func (s *ProductStore) CreateProduct(ctx context.Context, name, objectKey string, price decimal.Decimal) (ProductRecord, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (product_id, name, object_key, price)
        VALUES ($1, $2, $3, $4)
        RETURNING product_id, name, object_key, price, created_at
    `, ProductsTable), uuid.New(), name, objectKey, price)

	var rec ProductRecord
	if err := row.Scan(&rec.ProductID, &rec.Name, &rec.ObjectKey, &rec.Price, &rec.CreatedAt); err != nil {
		return ProductRecord{}, fmt.Errorf("create product: %w", err)
	}
	return rec, nil
}

// ListProducts returns the catalog, newest first.
func (s *ProductStore) ListProducts(ctx context.Context) ([]ProductRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT product_id, name, object_key, price, created_at
        FROM %s ORDER BY created_at DESC
    `, ProductsTable))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []ProductRecord
	for rows.Next() {
		var rec ProductRecord
		if err := rows.Scan(&rec.ProductID, &rec.Name, &rec.ObjectKey, &rec.Price, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetProduct fetches a product by id.
func (s *ProductStore) GetProduct(ctx context.Context, id uuid.UUID) (ProductRecord, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT product_id, name, object_key, price, created_at
        FROM %s WHERE product_id = $1
    `, ProductsTable), id)

	var rec ProductRecord
	if err := row.Scan(&rec.ProductID, &rec.Name, &rec.ObjectKey, &rec.Price, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductRecord{}, ErrNotFound
		}
		return ProductRecord{}, err
	}
	return rec, nil
}

// HasPurchase reports whether the user bought the product.
func (s *ProductStore) HasPurchase(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND product_id = $2)
    `, PurchasesTable), userID, productID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return exists, nil
}

// CreatePurchase records a purchase; buying the same product twice is a no-op.
func (s *ProductStore) CreatePurchase(ctx context.Context, userID string, productID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (purchase_id, product_id, user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (product_id, user_id) DO NOTHING
    `, PurchasesTable), uuid.New(), productID, userID)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}
