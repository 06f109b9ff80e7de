package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acervolab/acervo-backend/platform/go/storage"
)

// LinkTTL is how long an issued download link stays valid. Links are meant to
// be consumed immediately by the browser, not stored.
const LinkTTL = 60 * time.Second

var (
	// ErrNotFound is returned when the product id has no matching row.
	ErrNotFound = errors.New("product not found")
	// ErrNotPurchased is returned when the caller never bought the product.
	ErrNotPurchased = errors.New("product not purchased")
)

// Product is a downloadable catalog item.
type Product struct {
	ID        uuid.UUID
	Name      string
	ObjectKey string
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Repository abstracts product and purchase persistence.
type Repository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	HasPurchase(ctx context.Context, userID string, productID uuid.UUID) (bool, error)
	CreatePurchase(ctx context.Context, userID string, productID uuid.UUID) error
}

// Service issues download links and records purchases.
type Service struct {
	repo   Repository
	signer storage.URLSigner
}

// New constructs a Service with required dependencies.
func New(repo Repository, signer storage.URLSigner) *Service {
	if repo == nil {
		panic("delivery repo is required")
	}
	if signer == nil {
		panic("url signer is required")
	}
	return &Service{repo: repo, signer: signer}
}

// IssueDownloadLink signs a short-lived URL for a product the caller owns.
// The purchase check runs before signing so an unowned product never yields
// a usable link.
func (s *Service) IssueDownloadLink(ctx context.Context, userID string, productID uuid.UUID) (string, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	owned, err := s.repo.HasPurchase(ctx, userID, productID)
	if err != nil {
		return "", fmt.Errorf("check purchase: %w", err)
	}
	if !owned {
		return "", ErrNotPurchased
	}

	url, err := s.signer.SignedURL(ctx, product.ObjectKey, LinkTTL)
	if err != nil {
		return "", fmt.Errorf("sign download url: %w", err)
	}
	return url, nil
}

// RecordPurchase marks the product as bought by the caller. Buying twice is
// idempotent.
func (s *Service) RecordPurchase(ctx context.Context, userID string, productID uuid.UUID) error {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.repo.CreatePurchase(ctx, userID, productID)
}
