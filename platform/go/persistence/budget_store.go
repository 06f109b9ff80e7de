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
	"github.com/shopspring/decimal"
)

const BudgetsTable = "budgets"

// BudgetRecord represents a row in the budgets table.
type BudgetRecord struct {
	BudgetID        uuid.UUID        `db:"budget_id"`
	OwnerID         string           `db:"owner_id"`
	CompanyName     string           `db:"company_name"`
	ClientName      string           `db:"client_name"`
	ProjectType     string           `db:"project_type"`
	Description     string           `db:"description"`
	Features        []string         `db:"features"`
	Deadline        string           `db:"deadline"`
	Value           decimal.Decimal  `db:"budget_value"`
	PaymentTerms    string           `db:"payment_terms"`
	Status          string           `db:"status"`
	AcceptedNotes   *string          `db:"accepted_notes"`
	CompletionNotes *string          `db:"completion_notes"`
	FinalValue      *decimal.Decimal `db:"final_value"`
	ValueChanged    *bool            `db:"value_changed"`
	ExecutionDays   *int             `db:"execution_days"`
	CreatedAt       time.Time        `db:"created_at"`
	AcceptedAt      *time.Time       `db:"accepted_at"`
	StartedAt       *time.Time       `db:"started_at"`
	DeliveredAt     *time.Time       `db:"delivered_at"`
}

const budgetColumns = `budget_id, owner_id, company_name, client_name, project_type, description,
        features, deadline, budget_value, payment_terms, status, accepted_notes, completion_notes,
        final_value, value_changed, execution_days, created_at, accepted_at, started_at, delivered_at`

// BudgetStore exposes persistence helpers for the budgets table.
type BudgetStore struct {
	pool *pgxpool.Pool
}

// NewBudgetStore returns a store instance bound to the shared pool.
func NewBudgetStore(pool *pgxpool.Pool) (*BudgetStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &BudgetStore{pool: pool}, nil
}

// CreateBudgetParams captures the fields required to insert a new budget row.
type CreateBudgetParams struct {
	BudgetID     uuid.UUID
	OwnerID      string
	CompanyName  string
	ClientName   string
	ProjectType  string
	Description  string
	Features     []string
	Deadline     string
	Value        decimal.Decimal
	PaymentTerms string
	Status       string
}

// CreateBudget inserts a new budget and returns the persisted record.
func (s *BudgetStore) CreateBudget(ctx context.Context, params CreateBudgetParams) (BudgetRecord, error) {
	if params.BudgetID == uuid.Nil {
		return BudgetRecord{}, errors.New("budget id is required")
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return BudgetRecord{}, errors.New("owner id is required")
	}

	features := params.Features
	if features == nil {
		features = []string{}
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (budget_id, owner_id, company_name, client_name, project_type, description,
            features, deadline, budget_value, payment_terms, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING %s
    `, BudgetsTable, budgetColumns),
		params.BudgetID,
		params.OwnerID,
		strings.TrimSpace(params.CompanyName),
		strings.TrimSpace(params.ClientName),
		strings.TrimSpace(params.ProjectType),
		params.Description,
		features,
		params.Deadline,
		params.Value,
		params.PaymentTerms,
		params.Status,
	)

	return scanBudget(row)
}

// ListBudgetsByOwner returns the owner's budgets, most recent first.
func (s *BudgetStore) ListBudgetsByOwner(ctx context.Context, ownerID string) ([]BudgetRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE owner_id = $1 ORDER BY created_at DESC
    `, budgetColumns, BudgetsTable), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	records := []BudgetRecord{}
	for rows.Next() {
		rec, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetBudget fetches one budget scoped to its owner; cross-owner ids surface ErrNotFound.
func (s *BudgetStore) GetBudget(ctx context.Context, ownerID string, id uuid.UUID) (BudgetRecord, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE budget_id = $1 AND owner_id = $2
    `, budgetColumns, BudgetsTable), id, ownerID)

	rec, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetRecord{}, ErrNotFound
		}
		return BudgetRecord{}, err
	}
	return rec, nil
}

// BudgetPatch carries the columns a workflow transition may touch. Nil fields
// are left untouched.
type BudgetPatch struct {
	Status          *string
	AcceptedNotes   *string
	CompletionNotes *string
	FinalValue      *decimal.Decimal
	ValueChanged    *bool
	ExecutionDays   *int
	AcceptedAt      *time.Time
	StartedAt       *time.Time
	DeliveredAt     *time.Time
}

// UpdateBudget applies a patch to an owner-scoped budget and returns the new row.
func (s *BudgetStore) UpdateBudget(ctx context.Context, ownerID string, id uuid.UUID, patch BudgetPatch) (BudgetRecord, error) {
	setParts := []string{}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.AcceptedNotes != nil {
		appendSet("accepted_notes", *patch.AcceptedNotes)
	}
	if patch.CompletionNotes != nil {
		appendSet("completion_notes", *patch.CompletionNotes)
	}
	if patch.FinalValue != nil {
		appendSet("final_value", *patch.FinalValue)
	}
	if patch.ValueChanged != nil {
		appendSet("value_changed", *patch.ValueChanged)
	}
	if patch.ExecutionDays != nil {
		appendSet("execution_days", *patch.ExecutionDays)
	}
	if patch.AcceptedAt != nil {
		appendSet("accepted_at", *patch.AcceptedAt)
	}
	if patch.StartedAt != nil {
		appendSet("started_at", *patch.StartedAt)
	}
	if patch.DeliveredAt != nil {
		appendSet("delivered_at", *patch.DeliveredAt)
	}

	if len(setParts) == 0 {
		return s.GetBudget(ctx, ownerID, id)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`
        UPDATE %s SET %s WHERE budget_id = $%d AND owner_id = $%d
        RETURNING %s
    `, BudgetsTable, strings.Join(setParts, ", "), len(args)-1, len(args), budgetColumns)

	rec, err := scanBudget(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetRecord{}, ErrNotFound
		}
		return BudgetRecord{}, err
	}
	return rec, nil
}

// DeleteBudget removes an owner-scoped budget. Hard delete.
func (s *BudgetStore) DeleteBudget(ctx context.Context, ownerID string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
        DELETE FROM %s WHERE budget_id = $1 AND owner_id = $2
    `, BudgetsTable), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (BudgetRecord, error) {
	var rec BudgetRecord
	err := row.Scan(
		&rec.BudgetID,
		&rec.OwnerID,
		&rec.CompanyName,
		&rec.ClientName,
		&rec.ProjectType,
		&rec.Description,
		&rec.Features,
		&rec.Deadline,
		&rec.Value,
		&rec.PaymentTerms,
		&rec.Status,
		&rec.AcceptedNotes,
		&rec.CompletionNotes,
		&rec.FinalValue,
		&rec.ValueChanged,
		&rec.ExecutionDays,
		&rec.CreatedAt,
		&rec.AcceptedAt,
		&rec.StartedAt,
		&rec.DeliveredAt,
	)
	if err != nil {
		return BudgetRecord{}, err
	}
	return rec, nil
}
