package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Role assigned to the client user created during provisioning.
const RoleClientAdmin = "client_admin"

// Lifecycle statuses stamped at creation time.
const (
	CompanyStatusActive  = "active"
	ContractStatusActive = "active"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the provisioning input is invalid. It is
// raised before any side effect.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Company represents a client-facing sub-account created by a platform owner.
type Company struct {
	ID        uuid.UUID
	OwnerID   string
	Name      string
	CNPJ      *string
	Status    string
	CreatedAt time.Time
}

// Member links an identity-provider account to a company.
type Member struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	AuthUserID string
	Email      string
	Password   string
	Role       string
	CreatedAt  time.Time
}

// Contract marks a budget as governed under a company.
type Contract struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	BudgetID  uuid.UUID
	Status    string
	CreatedAt time.Time
}

// ProvisionInput represents the request to provision a company with its first
// client user and optional initial contracts.
type ProvisionInput struct {
	Name      string
	CNPJ      *string
	Email     string
	Password  string
	BudgetIDs []uuid.UUID
}

// ProvisionedUser is the minimal identity descriptor returned to the caller.
type ProvisionedUser struct {
	ID    string
	Email string
}

// ProvisionResult reports what the saga created. FailedBudgetIDs carries the
// partial-success signal for contract links that could not be created.
type ProvisionResult struct {
	Company         Company
	User            ProvisionedUser
	Contracts       []Contract
	FailedBudgetIDs []uuid.UUID
}

// IdentityProvisioner creates client accounts at the identity provider. It
// operates with service credentials, never the caller's session, so creating
// a client account cannot clobber the owner's login.
type IdentityProvisioner interface {
	CreateClientUser(ctx context.Context, email, password, displayName string) (ProvisionedUser, error)
}

// Repository abstracts persistence for companies, members and contracts.
type Repository interface {
	CreateCompany(ctx context.Context, c Company) (Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	CreateMember(ctx context.Context, m Member) (Member, error)
	CreateContract(ctx context.Context, c Contract) (Contract, error)
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the time source; tests pin it to fixed instants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service runs the company provisioning saga.
type Service struct {
	repo     Repository
	identity IdentityProvisioner
	logger   *zap.Logger
	now      func() time.Time
}

// New constructs a Service with required dependencies.
func New(repo Repository, identity IdentityProvisioner, logger *zap.Logger, opts ...Option) *Service {
	if repo == nil {
		panic("companies repo is required")
	}
	if identity == nil {
		panic("identity provisioner is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	s := &Service{repo: repo, identity: identity, logger: logger, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provision executes the multi-step creation flow:
//
//  1. validate input (no side effects on failure)
//  2. create the company row
//  3. create the client account at the identity provider
//  4. link the account to the company as a member
//  5. create one contract per supplied budget id
//
// Steps 2-4 are compensated in reverse order on failure. The identity account
// from step 3 is deliberately never compensated: an orphaned login is safer
// than deleting an account a client may already be signing in with. Step 5
// failures are collected and reported, not rolled back.
func (s *Service) Provision(ctx context.Context, ownerID string, input ProvisionInput) (ProvisionResult, error) {
	if verr := validateProvisionInput(input); verr != nil {
		return ProvisionResult{}, verr
	}

	var compensations []func(context.Context)
	rollback := func(ctx context.Context) {
		for i := len(compensations) - 1; i >= 0; i-- {
			compensations[i](ctx)
		}
	}

	company, err := s.repo.CreateCompany(ctx, Company{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      input.Name,
		CNPJ:      input.CNPJ,
		Status:    CompanyStatusActive,
		CreatedAt: s.now(),
	})
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("create company: %w", err)
	}
	compensations = append(compensations, func(ctx context.Context) {
		if err := s.repo.DeleteCompany(ctx, company.ID); err != nil {
			s.logger.Error("compensation failed: delete company",
				zap.String("company_id", company.ID.String()), zap.Error(err))
		}
	})

	user, err := s.identity.CreateClientUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		rollback(ctx)
		return ProvisionResult{}, fmt.Errorf("create client identity: %w", err)
	}

	if _, err := s.repo.CreateMember(ctx, Member{
		ID:         uuid.New(),
		CompanyID:  company.ID,
		AuthUserID: user.ID,
		Email:      user.Email,
		Password:   input.Password,
		Role:       RoleClientAdmin,
		CreatedAt:  s.now(),
	}); err != nil {
		rollback(ctx)
		return ProvisionResult{}, fmt.Errorf("link member: %w", err)
	}

	result := ProvisionResult{Company: company, User: user}
	for _, budgetID := range input.BudgetIDs {
		contract, err := s.repo.CreateContract(ctx, Contract{
			ID:        uuid.New(),
			CompanyID: company.ID,
			BudgetID:  budgetID,
			Status:    ContractStatusActive,
			CreatedAt: s.now(),
		})
		if err != nil {
			// Non-fatal: the company and user stay; the operator relinks later.
			s.logger.Warn("contract link failed",
				zap.String("company_id", company.ID.String()),
				zap.String("budget_id", budgetID.String()),
				zap.Error(err))
			result.FailedBudgetIDs = append(result.FailedBudgetIDs, budgetID)
			continue
		}
		result.Contracts = append(result.Contracts, contract)
	}

	return result, nil
}

func validateProvisionInput(input ProvisionInput) *ValidationError {
	fields := FieldErrors{}
	if input.Name == "" {
		fields["name"] = append(fields["name"], "is required")
	}
	if input.Email == "" {
		fields["email"] = append(fields["email"], "is required")
	}
	if input.Password == "" {
		fields["password"] = append(fields["password"], "is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
