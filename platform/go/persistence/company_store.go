package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	CompaniesTable = "companies"
	MembersTable   = "company_members"
	ContractsTable = "contracts"
)

// CompanyRecord represents a row in the companies table.
type CompanyRecord struct {
	CompanyID uuid.UUID `db:"company_id"`
	OwnerID   string    `db:"owner_id"`
	Name      string    `db:"name"`
	CNPJ      *string   `db:"cnpj"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// MemberRecord links an identity-provider account to a company.
// Password is stored in the clear on purpose so operators can hand the
// credential to the client; see the provisioning docs before changing this.
type MemberRecord struct {
	MemberID   uuid.UUID `db:"member_id"`
	CompanyID  uuid.UUID `db:"company_id"`
	AuthUserID string    `db:"auth_user_id"`
	Email      string    `db:"email"`
	Password   string    `db:"password"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

// ContractRecord marks a budget as governed under a company.
type ContractRecord struct {
	ContractID uuid.UUID `db:"contract_id"`
	CompanyID  uuid.UUID `db:"company_id"`
	BudgetID   uuid.UUID `db:"budget_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

// ContractWithBudget joins a contract with its referenced budget row.
type ContractWithBudget struct {
	Contract ContractRecord
	Budget   BudgetRecord
}

// CompanyStore exposes persistence helpers for companies, members and contracts.
type CompanyStore struct {
	pool *pgxpool.Pool
}

// NewCompanyStore returns a store instance bound to the shared pool.
func NewCompanyStore(pool *pgxpool.Pool) (*CompanyStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &CompanyStore{pool: pool}, nil
}

// CreateCompanyParams captures the fields required to insert a company row.
type CreateCompanyParams struct {
	CompanyID uuid.UUID
	OwnerID   string
	Name      string
	CNPJ      *string
	Status    string
}

// CreateCompany inserts a new company and returns the persisted record.
func (s *CompanyStore) CreateCompany(ctx context.Context, params CreateCompanyParams) (CompanyRecord, error) {
	if params.CompanyID == uuid.Nil {
		return CompanyRecord{}, errors.New("company id is required")
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return CompanyRecord{}, errors.New("owner id is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (company_id, owner_id, name, cnpj, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING company_id, owner_id, name, cnpj, status, created_at
    `, CompaniesTable),
		params.CompanyID,
		params.OwnerID,
		strings.TrimSpace(params.Name),
		params.CNPJ,
		params.Status,
	)

	return scanCompany(row)
}

// GetCompany fetches a company by id.
func (s *CompanyStore) GetCompany(ctx context.Context, id uuid.UUID) (CompanyRecord, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT company_id, owner_id, name, cnpj, status, created_at
        FROM %s WHERE company_id = $1
    `, CompaniesTable), id)

	rec, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanyRecord{}, ErrNotFound
		}
		return CompanyRecord{}, err
	}
	return rec, nil
}

// DeleteCompany removes a company row; member and contract rows cascade.
// Used by saga compensation, so a missing row is not an error.
func (s *CompanyStore) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
        DELETE FROM %s WHERE company_id = $1
    `, CompaniesTable), id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// CreateMemberParams captures the fields required to link an auth user to a company.
type CreateMemberParams struct {
	MemberID   uuid.UUID
	CompanyID  uuid.UUID
	AuthUserID string
	Email      string
	Password   string
	Role       string
}

// CreateMember inserts a company membership row.
func (s *CompanyStore) CreateMember(ctx context.Context, params CreateMemberParams) (MemberRecord, error) {
	if params.MemberID == uuid.Nil {
		return MemberRecord{}, errors.New("member id is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (member_id, company_id, auth_user_id, email, password, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING member_id, company_id, auth_user_id, email, password, role, created_at
    `, MembersTable),
		params.MemberID,
		params.CompanyID,
		params.AuthUserID,
		strings.ToLower(strings.TrimSpace(params.Email)),
		params.Password,
		params.Role,
	)

	var rec MemberRecord
	if err := row.Scan(&rec.MemberID, &rec.CompanyID, &rec.AuthUserID, &rec.Email, &rec.Password, &rec.Role, &rec.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return MemberRecord{}, ErrDuplicate
		}
		return MemberRecord{}, err
	}
	return rec, nil
}

// FindMembershipByAuthUser resolves the company membership for an auth user id.
func (s *CompanyStore) FindMembershipByAuthUser(ctx context.Context, authUserID string) (MemberRecord, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT member_id, company_id, auth_user_id, email, password, role, created_at
        FROM %s WHERE auth_user_id = $1
        ORDER BY created_at ASC LIMIT 1
    `, MembersTable), authUserID)

	var rec MemberRecord
	if err := row.Scan(&rec.MemberID, &rec.CompanyID, &rec.AuthUserID, &rec.Email, &rec.Password, &rec.Role, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MemberRecord{}, ErrNotFound
		}
		return MemberRecord{}, err
	}
	return rec, nil
}

// CreateContractParams captures the fields required to insert a contract row.
type CreateContractParams struct {
	ContractID uuid.UUID
	CompanyID  uuid.UUID
	BudgetID   uuid.UUID
	Status     string
}

// CreateContract links a budget to a company.
func (s *CompanyStore) CreateContract(ctx context.Context, params CreateContractParams) (ContractRecord, error) {
	if params.ContractID == uuid.Nil {
		return ContractRecord{}, errors.New("contract id is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (contract_id, company_id, budget_id, status)
        VALUES ($1, $2, $3, $4)
        RETURNING contract_id, company_id, budget_id, status, created_at
    `, ContractsTable),
		params.ContractID,
		params.CompanyID,
		params.BudgetID,
		params.Status,
	)

	var rec ContractRecord
	if err := row.Scan(&rec.ContractID, &rec.CompanyID, &rec.BudgetID, &rec.Status, &rec.CreatedAt); err != nil {
		return ContractRecord{}, err
	}
	return rec, nil
}

// ListContractsWithBudgets returns a company's contracts joined with their budgets.
func (s *CompanyStore) ListContractsWithBudgets(ctx context.Context, companyID uuid.UUID) ([]ContractWithBudget, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT c.contract_id, c.company_id, c.budget_id, c.status, c.created_at, %s
        FROM %s c
        JOIN %s b ON b.budget_id = c.budget_id
        WHERE c.company_id = $1
        ORDER BY c.created_at DESC
    `, prefixedBudgetColumns("b"), ContractsTable, BudgetsTable), companyID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	out := []ContractWithBudget{}
	for rows.Next() {
		var item ContractWithBudget
		err := rows.Scan(
			&item.Contract.ContractID,
			&item.Contract.CompanyID,
			&item.Contract.BudgetID,
			&item.Contract.Status,
			&item.Contract.CreatedAt,
			&item.Budget.BudgetID,
			&item.Budget.OwnerID,
			&item.Budget.CompanyName,
			&item.Budget.ClientName,
			&item.Budget.ProjectType,
			&item.Budget.Description,
			&item.Budget.Features,
			&item.Budget.Deadline,
			&item.Budget.Value,
			&item.Budget.PaymentTerms,
			&item.Budget.Status,
			&item.Budget.AcceptedNotes,
			&item.Budget.CompletionNotes,
			&item.Budget.FinalValue,
			&item.Budget.ValueChanged,
			&item.Budget.ExecutionDays,
			&item.Budget.CreatedAt,
			&item.Budget.AcceptedAt,
			&item.Budget.StartedAt,
			&item.Budget.DeliveredAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func prefixedBudgetColumns(alias string) string {
	cols := strings.Split(budgetColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func scanCompany(row pgx.Row) (CompanyRecord, error) {
	var rec CompanyRecord
	err := row.Scan(&rec.CompanyID, &rec.OwnerID, &rec.Name, &rec.CNPJ, &rec.Status, &rec.CreatedAt)
	if err != nil {
		return CompanyRecord{}, err
	}
	return rec, nil
}
