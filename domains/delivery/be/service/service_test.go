package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acervolab/acervo-backend/domains/delivery/be/service"
)

// stubRepo holds one product and a purchase set keyed by user id.
type stubRepo struct {
	product   service.Product
	purchases map[string]bool

	purchaseErr error
	recorded    []string
}

func (s *stubRepo) GetProduct(_ context.Context, id uuid.UUID) (service.Product, error) {
	if id != s.product.ID {
		return service.Product{}, service.ErrNotFound
	}
	return s.product, nil
}

func (s *stubRepo) HasPurchase(_ context.Context, userID string, _ uuid.UUID) (bool, error) {
	if s.purchaseErr != nil {
		return false, s.purchaseErr
	}
	return s.purchases[userID], nil
}

func (s *stubRepo) CreatePurchase(_ context.Context, userID string, _ uuid.UUID) error {
	s.recorded = append(s.recorded, userID)
	return nil
}

// captureSigner records what it was asked to sign.
type captureSigner struct {
	objectKey string
	ttl       time.Duration
	err       error
}

func (c *captureSigner) SignedURL(_ context.Context, objectKey string, ttl time.Duration) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.objectKey = objectKey
	c.ttl = ttl
	return "https://signed.example.com/" + objectKey, nil
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		product: service.Product{
			ID:        uuid.New(),
			Name:      "Acervo Digital Starter",
			ObjectKey: "packs/starter.zip",
			Price:     decimal.NewFromInt(199),
		},
		purchases: map[string]bool{},
	}
}

func TestIssueDownloadLink(t *testing.T) {
	repo := newStubRepo()
	repo.purchases["user-1"] = true
	signer := &captureSigner{}
	svc := service.New(repo, signer)

	url, err := svc.IssueDownloadLink(context.Background(), "user-1", repo.product.ID)
	require.NoError(t, err)

	require.Equal(t, "https://signed.example.com/packs/starter.zip", url)
	require.Equal(t, "packs/starter.zip", signer.objectKey)
	// Links are short-lived on purpose.
	require.Equal(t, 60*time.Second, signer.ttl)
}

func TestIssueDownloadLinkUnknownProduct(t *testing.T) {
	repo := newStubRepo()
	svc := service.New(repo, &captureSigner{})

	_, err := svc.IssueDownloadLink(context.Background(), "user-1", uuid.New())
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestIssueDownloadLinkRequiresPurchase(t *testing.T) {
	repo := newStubRepo()
	signer := &captureSigner{}
	svc := service.New(repo, signer)

	_, err := svc.IssueDownloadLink(context.Background(), "user-1", repo.product.ID)
	require.ErrorIs(t, err, service.ErrNotPurchased)
	// The signer was never reached.
	require.Empty(t, signer.objectKey)
}

func TestIssueDownloadLinkPurchaseCheckFailure(t *testing.T) {
	repo := newStubRepo()
	repo.purchaseErr = errors.New("purchases query failed")
	svc := service.New(repo, &captureSigner{})

	_, err := svc.IssueDownloadLink(context.Background(), "user-1", repo.product.ID)
	require.Error(t, err)
	require.NotErrorIs(t, err, service.ErrNotPurchased)
}

func TestIssueDownloadLinkSignerFailure(t *testing.T) {
	repo := newStubRepo()
	repo.purchases["user-1"] = true
	svc := service.New(repo, &captureSigner{err: errors.New("bucket unavailable")})

	_, err := svc.IssueDownloadLink(context.Background(), "user-1", repo.product.ID)
	require.Error(t, err)
}

func TestRecordPurchase(t *testing.T) {
	repo := newStubRepo()
	svc := service.New(repo, &captureSigner{})

	err := svc.RecordPurchase(context.Background(), "user-1", repo.product.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"user-1"}, repo.recorded)
}

func TestRecordPurchaseUnknownProduct(t *testing.T) {
	repo := newStubRepo()
	svc := service.New(repo, &captureSigner{})

	err := svc.RecordPurchase(context.Background(), "user-1", uuid.New())
	require.ErrorIs(t, err, service.ErrNotFound)
	require.Empty(t, repo.recorded)
}
