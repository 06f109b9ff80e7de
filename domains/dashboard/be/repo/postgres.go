package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acervolab/acervo-backend/domains/dashboard/be/service"
	"github.com/acervolab/acervo-backend/platform/go/persistence"
)

// PostgresRepository implements the dashboard read side on the shared stores.
type PostgresRepository struct {
	companies *persistence.CompanyStore
	projects  *persistence.ProjectStore
}

// NewPostgresRepository constructs a repository over the company and project stores.
func NewPostgresRepository(companies *persistence.CompanyStore, projects *persistence.ProjectStore) *PostgresRepository {
	if companies == nil {
		panic("company store is required")
	}
	if projects == nil {
		panic("project store is required")
	}
	return &PostgresRepository{companies: companies, projects: projects}
}

// FindMembership maps a missing membership row to ErrForbidden: the caller is
// authenticated but is not a member of any company.
func (r *PostgresRepository) FindMembership(ctx context.Context, authUserID string) (service.Membership, error) {
	rec, err := r.companies.FindMembershipByAuthUser(ctx, authUserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.Membership{}, service.ErrForbidden
		}
		return service.Membership{}, err
	}
	return service.Membership{CompanyID: rec.CompanyID, Role: rec.Role}, nil
}

func (r *PostgresRepository) GetCompany(ctx context.Context, companyID uuid.UUID) (service.Company, error) {
	rec, err := r.companies.GetCompany(ctx, companyID)
	if err != nil {
		return service.Company{}, err
	}
	return service.Company{
		ID:        rec.CompanyID,
		Name:      rec.Name,
		CNPJ:      rec.CNPJ,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *PostgresRepository) ListMilestones(ctx context.Context, companyID uuid.UUID) ([]service.Milestone, error) {
	recs, err := r.projects.ListMilestones(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Milestone, 0, len(recs))
	for _, rec := range recs {
		out = append(out, service.Milestone{
			ID:          rec.MilestoneID,
			Title:       rec.Title,
			Description: rec.Description,
			DueDate:     rec.DueDate,
			CompletedAt: rec.CompletedAt,
		})
	}
	return out, nil
}

func (r *PostgresRepository) ListDocuments(ctx context.Context, companyID uuid.UUID) ([]service.Document, error) {
	recs, err := r.projects.ListClientDocuments(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Document, 0, len(recs))
	for _, rec := range recs {
		out = append(out, service.Document{
			ID:        rec.DocumentID,
			Title:     rec.Title,
			Kind:      rec.Kind,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

func (r *PostgresRepository) ListUpdates(ctx context.Context, companyID uuid.UUID) ([]service.Update, error) {
	recs, err := r.projects.ListClientUpdates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Update, 0, len(recs))
	for _, rec := range recs {
		out = append(out, service.Update{
			ID:        rec.UpdateID,
			Title:     rec.Title,
			Body:      rec.Body,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

func (r *PostgresRepository) ListContracts(ctx context.Context, companyID uuid.UUID) ([]service.ContractView, error) {
	recs, err := r.companies.ListContractsWithBudgets(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]service.ContractView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, service.ContractView{
			ID:           rec.Contract.ContractID,
			BudgetID:     rec.Budget.BudgetID,
			Status:       rec.Contract.Status,
			ProjectType:  rec.Budget.ProjectType,
			Description:  rec.Budget.Description,
			Value:        rec.Budget.Value,
			BudgetStatus: rec.Budget.Status,
			CreatedAt:    rec.Contract.CreatedAt,
		})
	}
	return out, nil
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
