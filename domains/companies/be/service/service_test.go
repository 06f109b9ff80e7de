package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/companies/be/repo"
	"github.com/acervolab/acervo-backend/domains/companies/be/service"
)

// flakyRepo wraps the memory repository so individual saga steps can be made
// to fail.
type flakyRepo struct {
	*repo.MemoryRepository
	failCreateCompany  bool
	failCreateMember   bool
	failCreateContract bool
}

func (r *flakyRepo) CreateCompany(ctx context.Context, c service.Company) (service.Company, error) {
	if r.failCreateCompany {
		return service.Company{}, errors.New("company insert failed")
	}
	return r.MemoryRepository.CreateCompany(ctx, c)
}

func (r *flakyRepo) CreateMember(ctx context.Context, m service.Member) (service.Member, error) {
	if r.failCreateMember {
		return service.Member{}, errors.New("member insert failed")
	}
	return r.MemoryRepository.CreateMember(ctx, m)
}

func (r *flakyRepo) CreateContract(ctx context.Context, c service.Contract) (service.Contract, error) {
	if r.failCreateContract {
		return service.Contract{}, errors.New("contract insert failed")
	}
	return r.MemoryRepository.CreateContract(ctx, c)
}

// stubIdentity fabricates accounts and can be told to fail.
type stubIdentity struct {
	fail    bool
	created []string
}

func (s *stubIdentity) CreateClientUser(_ context.Context, email, _, _ string) (service.ProvisionedUser, error) {
	if s.fail {
		return service.ProvisionedUser{}, errors.New("identity provider down")
	}
	s.created = append(s.created, email)
	return service.ProvisionedUser{ID: "auth-" + email, Email: email}, nil
}

func validInput() service.ProvisionInput {
	return service.ProvisionInput{
		Name:     "Biblioteca Municipal",
		Email:    "cliente@example.com",
		Password: "s3cret!",
	}
}

func TestProvisionHappyPath(t *testing.T) {
	mem := repo.NewMemoryRepository()
	identity := &stubIdentity{}
	svc := service.New(mem, identity, zap.NewNop())

	budgetID := uuid.New()
	input := validInput()
	input.BudgetIDs = []uuid.UUID{budgetID}

	result, err := svc.Provision(context.Background(), "owner-1", input)
	require.NoError(t, err)

	require.Equal(t, "Biblioteca Municipal", result.Company.Name)
	require.Equal(t, service.CompanyStatusActive, result.Company.Status)
	require.Equal(t, "owner-1", result.Company.OwnerID)
	require.Equal(t, "auth-cliente@example.com", result.User.ID)
	require.Len(t, result.Contracts, 1)
	require.Equal(t, budgetID, result.Contracts[0].BudgetID)
	require.Empty(t, result.FailedBudgetIDs)

	require.Len(t, mem.Companies(), 1)
	members := mem.Members()
	require.Len(t, members, 1)
	require.Equal(t, service.RoleClientAdmin, members[0].Role)
	require.Equal(t, "s3cret!", members[0].Password)
	require.Len(t, mem.Contracts(), 1)
}

func TestProvisionValidationBeforeWrites(t *testing.T) {
	mem := repo.NewMemoryRepository()
	identity := &stubIdentity{}
	svc := service.New(mem, identity, zap.NewNop())

	_, err := svc.Provision(context.Background(), "owner-1", service.ProvisionInput{})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "password")

	// Nothing was written anywhere.
	require.Empty(t, mem.Companies())
	require.Empty(t, mem.Members())
	require.Empty(t, identity.created)
}

func TestProvisionCompensatesCompanyOnIdentityFailure(t *testing.T) {
	mem := repo.NewMemoryRepository()
	identity := &stubIdentity{fail: true}
	svc := service.New(mem, identity, zap.NewNop())

	_, err := svc.Provision(context.Background(), "owner-1", validInput())
	require.Error(t, err)

	// The company row from step 2 was rolled back; nothing else was created.
	require.Empty(t, mem.Companies())
	require.Empty(t, mem.Members())
	require.Empty(t, mem.Contracts())
}

func TestProvisionCompensatesCompanyOnMemberFailure(t *testing.T) {
	flaky := &flakyRepo{MemoryRepository: repo.NewMemoryRepository(), failCreateMember: true}
	identity := &stubIdentity{}
	svc := service.New(flaky, identity, zap.NewNop())

	_, err := svc.Provision(context.Background(), "owner-1", validInput())
	require.Error(t, err)

	require.Empty(t, flaky.Companies())
	require.Empty(t, flaky.Members())
	// The identity account stays orphaned; compensation is partial on purpose.
	require.Len(t, identity.created, 1)
}

func TestProvisionContractFailureIsPartialSuccess(t *testing.T) {
	flaky := &flakyRepo{MemoryRepository: repo.NewMemoryRepository(), failCreateContract: true}
	identity := &stubIdentity{}
	svc := service.New(flaky, identity, zap.NewNop())

	budgetID := uuid.New()
	input := validInput()
	input.BudgetIDs = []uuid.UUID{budgetID}

	result, err := svc.Provision(context.Background(), "owner-1", input)
	require.NoError(t, err)

	// Steps 1-4 persist even though every contract link failed.
	require.Len(t, flaky.Companies(), 1)
	require.Len(t, flaky.Members(), 1)
	require.Empty(t, flaky.Contracts())
	require.Empty(t, result.Contracts)
	require.Equal(t, []uuid.UUID{budgetID}, result.FailedBudgetIDs)
}

func TestProvisionCompanyFailureNeedsNoCompensation(t *testing.T) {
	flaky := &flakyRepo{MemoryRepository: repo.NewMemoryRepository(), failCreateCompany: true}
	identity := &stubIdentity{}
	svc := service.New(flaky, identity, zap.NewNop())

	_, err := svc.Provision(context.Background(), "owner-1", validInput())
	require.Error(t, err)
	require.Empty(t, identity.created)
}
