package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrForbidden is returned when the caller has no company membership. Absence
// of membership is an access decision, not a missing resource.
var ErrForbidden = errors.New("no company membership")

// Company is the read model of the tenant shown on the dashboard.
type Company struct {
	ID        uuid.UUID
	Name      string
	CNPJ      *string
	Status    string
	CreatedAt time.Time
}

// Milestone is an externally-owned project milestone row.
type Milestone struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
	CompletedAt *time.Time
}

// Document is a client-visible project document row.
type Document struct {
	ID        uuid.UUID
	Title     string
	Kind      string
	CreatedAt time.Time
}

// Update is a client-visible project update row.
type Update struct {
	ID        uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
}

// ContractView joins a contract with the budget it governs.
type ContractView struct {
	ID           uuid.UUID
	BudgetID     uuid.UUID
	Status       string
	ProjectType  string
	Description  string
	Value        decimal.Decimal
	BudgetStatus string
	CreatedAt    time.Time
}

// Membership resolves an authenticated user to their company.
type Membership struct {
	CompanyID uuid.UUID
	Role      string
}

// Overview aggregates everything the client dashboard renders.
type Overview struct {
	Company    Company
	Milestones []Milestone
	Documents  []Document
	Updates    []Update
	Contracts  []ContractView
	Progress   Progress
}

// Repository abstracts the read-side persistence for the dashboard.
type Repository interface {
	FindMembership(ctx context.Context, authUserID string) (Membership, error)
	GetCompany(ctx context.Context, companyID uuid.UUID) (Company, error)
	ListMilestones(ctx context.Context, companyID uuid.UUID) ([]Milestone, error)
	ListDocuments(ctx context.Context, companyID uuid.UUID) ([]Document, error)
	ListUpdates(ctx context.Context, companyID uuid.UUID) ([]Update, error)
	ListContracts(ctx context.Context, companyID uuid.UUID) ([]ContractView, error)
}

// Service aggregates the client dashboard.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New constructs a Service with required dependencies.
func New(repo Repository, logger *zap.Logger) *Service {
	if repo == nil {
		panic("dashboard repo is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Service{repo: repo, logger: logger}
}

// Overview resolves the caller's membership and fans out the five reads
// concurrently. The company read is load-bearing; the four collections
// degrade to empty on failure so one broken query does not blank the whole
// dashboard. There is no cross-query transactional consistency.
func (s *Service) Overview(ctx context.Context, authUserID string) (Overview, error) {
	membership, err := s.repo.FindMembership(ctx, authUserID)
	if err != nil {
		return Overview{}, err
	}

	var (
		company    Company
		milestones []Milestone
		documents  []Document
		updates    []Update
		contracts  []ContractView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		company, err = s.repo.GetCompany(gctx, membership.CompanyID)
		return err
	})
	g.Go(func() error {
		milestones = s.collectMilestones(gctx, membership.CompanyID)
		return nil
	})
	g.Go(func() error {
		documents = s.collectDocuments(gctx, membership.CompanyID)
		return nil
	})
	g.Go(func() error {
		updates = s.collectUpdates(gctx, membership.CompanyID)
		return nil
	})
	g.Go(func() error {
		contracts = s.collectContracts(gctx, membership.CompanyID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Company:    company,
		Milestones: milestones,
		Documents:  documents,
		Updates:    updates,
		Contracts:  contracts,
		Progress:   ComputeProgress(milestones, contracts),
	}, nil
}

func (s *Service) collectMilestones(ctx context.Context, companyID uuid.UUID) []Milestone {
	items, err := s.repo.ListMilestones(ctx, companyID)
	if err != nil {
		s.logger.Error("dashboard milestones fetch failed", zap.Error(err))
		return []Milestone{}
	}
	if items == nil {
		items = []Milestone{}
	}
	return items
}

func (s *Service) collectDocuments(ctx context.Context, companyID uuid.UUID) []Document {
	items, err := s.repo.ListDocuments(ctx, companyID)
	if err != nil {
		s.logger.Error("dashboard documents fetch failed", zap.Error(err))
		return []Document{}
	}
	if items == nil {
		items = []Document{}
	}
	return items
}

func (s *Service) collectUpdates(ctx context.Context, companyID uuid.UUID) []Update {
	items, err := s.repo.ListUpdates(ctx, companyID)
	if err != nil {
		s.logger.Error("dashboard updates fetch failed", zap.Error(err))
		return []Update{}
	}
	if items == nil {
		items = []Update{}
	}
	return items
}

func (s *Service) collectContracts(ctx context.Context, companyID uuid.UUID) []ContractView {
	items, err := s.repo.ListContracts(ctx, companyID)
	if err != nil {
		s.logger.Error("dashboard contracts fetch failed", zap.Error(err))
		return []ContractView{}
	}
	if items == nil {
		items = []ContractView{}
	}
	return items
}
