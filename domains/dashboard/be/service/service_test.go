package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/dashboard/be/service"
)

// stubRepo serves canned collections and lets individual reads fail.
type stubRepo struct {
	membership    service.Membership
	membershipErr error

	company    service.Company
	companyErr error

	milestones    []service.Milestone
	milestonesErr error

	documents    []service.Document
	documentsErr error

	updates    []service.Update
	updatesErr error

	contracts    []service.ContractView
	contractsErr error
}

func (s *stubRepo) FindMembership(context.Context, string) (service.Membership, error) {
	return s.membership, s.membershipErr
}

func (s *stubRepo) GetCompany(context.Context, uuid.UUID) (service.Company, error) {
	return s.company, s.companyErr
}

func (s *stubRepo) ListMilestones(context.Context, uuid.UUID) ([]service.Milestone, error) {
	return s.milestones, s.milestonesErr
}

func (s *stubRepo) ListDocuments(context.Context, uuid.UUID) ([]service.Document, error) {
	return s.documents, s.documentsErr
}

func (s *stubRepo) ListUpdates(context.Context, uuid.UUID) ([]service.Update, error) {
	return s.updates, s.updatesErr
}

func (s *stubRepo) ListContracts(context.Context, uuid.UUID) ([]service.ContractView, error) {
	return s.contracts, s.contractsErr
}

func milestone(title string, due time.Time, completed *time.Time) service.Milestone {
	return service.Milestone{ID: uuid.New(), Title: title, DueDate: due, CompletedAt: completed}
}

func TestOverviewAggregatesCollections(t *testing.T) {
	companyID := uuid.New()
	done := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := &stubRepo{
		membership: service.Membership{CompanyID: companyID, Role: "client_admin"},
		company:    service.Company{ID: companyID, Name: "Biblioteca Central", Status: "active"},
		milestones: []service.Milestone{
			milestone("Levantamento", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), &done),
			milestone("Digitalização", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), nil),
			milestone("Publicação", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), nil),
		},
		documents: []service.Document{{ID: uuid.New(), Title: "Contrato", Kind: "pdf"}},
		updates:   []service.Update{{ID: uuid.New(), Title: "Kickoff"}},
		contracts: []service.ContractView{{ID: uuid.New(), Status: "active"}},
	}
	svc := service.New(repo, zap.NewNop())

	overview, err := svc.Overview(context.Background(), "auth-1")
	require.NoError(t, err)

	require.Equal(t, "Biblioteca Central", overview.Company.Name)
	require.Len(t, overview.Milestones, 3)
	require.Len(t, overview.Documents, 1)
	require.Len(t, overview.Updates, 1)
	require.Len(t, overview.Contracts, 1)

	require.Equal(t, 3, overview.Progress.TotalMilestones)
	require.Equal(t, 1, overview.Progress.CompletedMilestones)
	require.Equal(t, 33, overview.Progress.CompletionPct)
	require.Equal(t, "Digitalização", overview.Progress.NextMilestone)
}

func TestOverviewNoMembershipIsForbidden(t *testing.T) {
	repo := &stubRepo{membershipErr: service.ErrForbidden}
	svc := service.New(repo, zap.NewNop())

	_, err := svc.Overview(context.Background(), "auth-1")
	require.ErrorIs(t, err, service.ErrForbidden)
}

func TestOverviewCompanyFailureIsFatal(t *testing.T) {
	repo := &stubRepo{
		membership: service.Membership{CompanyID: uuid.New()},
		companyErr: errors.New("company query failed"),
	}
	svc := service.New(repo, zap.NewNop())

	_, err := svc.Overview(context.Background(), "auth-1")
	require.Error(t, err)
}

func TestOverviewCollectionFailuresDegradeToEmpty(t *testing.T) {
	companyID := uuid.New()
	repo := &stubRepo{
		membership:    service.Membership{CompanyID: companyID},
		company:       service.Company{ID: companyID, Name: "Acme"},
		milestonesErr: errors.New("milestones query failed"),
		documentsErr:  errors.New("documents query failed"),
		updatesErr:    errors.New("updates query failed"),
		contractsErr:  errors.New("contracts query failed"),
	}
	svc := service.New(repo, zap.NewNop())

	overview, err := svc.Overview(context.Background(), "auth-1")
	require.NoError(t, err)

	// Broken collections come back empty, never nil, never fatal.
	require.NotNil(t, overview.Milestones)
	require.Empty(t, overview.Milestones)
	require.NotNil(t, overview.Documents)
	require.Empty(t, overview.Documents)
	require.NotNil(t, overview.Updates)
	require.Empty(t, overview.Updates)
	require.NotNil(t, overview.Contracts)
	require.Empty(t, overview.Contracts)
	require.Equal(t, 0, overview.Progress.CompletionPct)
}

func TestComputeProgressEmpty(t *testing.T) {
	p := service.ComputeProgress(nil, nil)

	require.Equal(t, 0, p.TotalMilestones)
	require.Equal(t, 0, p.CompletedMilestones)
	require.Equal(t, 0, p.CompletionPct)
	require.Equal(t, service.NoNextMilestone, p.NextMilestone)
	require.Len(t, p.Stages, 3)
}

func TestComputeProgressRounding(t *testing.T) {
	done := time.Now()
	milestones := []service.Milestone{
		milestone("a", time.Now(), &done),
		milestone("b", time.Now(), nil),
		milestone("c", time.Now(), nil),
	}

	p := service.ComputeProgress(milestones, nil)
	require.Equal(t, 33, p.CompletionPct)

	milestones = append(milestones, milestone("d", time.Now(), nil), milestone("e", time.Now(), nil), milestone("f", time.Now(), nil))
	p = service.ComputeProgress(milestones, nil)
	// 1 of 6 rounds to 17, not truncates to 16.
	require.Equal(t, 17, p.CompletionPct)
}

func TestComputeProgressNextMilestoneSkipsCompleted(t *testing.T) {
	done := time.Now()
	milestones := []service.Milestone{
		milestone("first", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), &done),
		milestone("second", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil),
		milestone("third", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil),
	}

	p := service.ComputeProgress(milestones, nil)
	require.Equal(t, "second", p.NextMilestone)
}

func TestComputeProgressAllComplete(t *testing.T) {
	done := time.Now()
	milestones := []service.Milestone{
		milestone("a", time.Now(), &done),
		milestone("b", time.Now(), &done),
	}
	contracts := []service.ContractView{{ID: uuid.New(), Status: "active"}}

	p := service.ComputeProgress(milestones, contracts)
	require.Equal(t, 100, p.CompletionPct)
	require.Equal(t, service.NoNextMilestone, p.NextMilestone)

	// Metrics stage marks the project finished.
	metrics := p.Stages[2]
	require.Equal(t, "Metrics", metrics.Name)
	require.True(t, metrics.Items[1].Done)

	start := p.Stages[0]
	require.Equal(t, "Start", start.Name)
	require.True(t, start.Items[0].Done)
	require.True(t, start.Items[1].Done)
}
