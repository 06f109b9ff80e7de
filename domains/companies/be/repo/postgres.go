package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/companies/be/service"
	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// PostgresRepository implements the companies repository using the shared persistence layer.
type PostgresRepository struct {
	store *persistence.CompanyStore
}

// NewPostgresRepository constructs a repository backed by CompanyStore.
func NewPostgresRepository(store *persistence.CompanyStore) *PostgresRepository {
	if store == nil {
		panic("company store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) CreateCompany(ctx context.Context, c service.Company) (service.Company, error) {
	rec, err := r.store.CreateCompany(ctx, persistence.CreateCompanyParams{
		CompanyID: c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		Status:    c.Status,
	})
	if err != nil {
		return service.Company{}, err
	}
	return toServiceCompany(rec), nil
}

func (r *PostgresRepository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteCompany(ctx, id)
}

func (r *PostgresRepository) CreateMember(ctx context.Context, m service.Member) (service.Member, error) {
	rec, err := r.store.CreateMember(ctx, persistence.CreateMemberParams{
		MemberID:   m.ID,
		CompanyID:  m.CompanyID,
		AuthUserID: m.AuthUserID,
		Email:      m.Email,
		Password:   m.Password,
		Role:       m.Role,
	})
	if err != nil {
		return service.Member{}, err
	}
	return service.Member{
		ID:         rec.MemberID,
		CompanyID:  rec.CompanyID,
		AuthUserID: rec.AuthUserID,
		Email:      rec.Email,
		Password:   rec.Password,
		Role:       rec.Role,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (r *PostgresRepository) CreateContract(ctx context.Context, c service.Contract) (service.Contract, error) {
	rec, err := r.store.CreateContract(ctx, persistence.CreateContractParams{
		ContractID: c.ID,
		CompanyID:  c.CompanyID,
		BudgetID:   c.BudgetID,
		Status:     c.Status,
	})
	if err != nil {
		return service.Contract{}, err
	}
	return service.Contract{
		ID:        rec.ContractID,
		CompanyID: rec.CompanyID,
		BudgetID:  rec.BudgetID,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func toServiceCompany(rec persistence.CompanyRecord) service.Company {
	return service.Company{
		ID:        rec.CompanyID,
		OwnerID:   rec.OwnerID,
		Name:      rec.Name,
		CNPJ:      rec.CNPJ,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
