package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	MilestonesTable = "milestones"
	DocumentsTable  = "documents"
	UpdatesTable    = "project_updates"
)

// MilestoneRecord represents a row in the milestones table. Rows are written
// by operators through a separate surface; this backend only reads them.
type MilestoneRecord struct {
	MilestoneID uuid.UUID  `db:"milestone_id"`
	CompanyID   uuid.UUID  `db:"company_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	DueDate     time.Time  `db:"due_date"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// DocumentRecord represents a row in the documents table.
type DocumentRecord struct {
	DocumentID    uuid.UUID `db:"document_id"`
	CompanyID     uuid.UUID `db:"company_id"`
	Title         string    `db:"title"`
	Kind          string    `db:"kind"`
	ObjectKey     string    `db:"object_key"`
	ClientVisible bool      `db:"client_visible"`
	CreatedAt     time.Time `db:"created_at"`
}

// UpdateRecord represents a row in the project_updates table.
type UpdateRecord struct {
	UpdateID      uuid.UUID `db:"update_id"`
	CompanyID     uuid.UUID `db:"company_id"`
	Title         string    `db:"title"`
	Body          string    `db:"body"`
	ClientVisible bool      `db:"client_visible"`
	CreatedAt     time.Time `db:"created_at"`
}

// ProjectStore exposes read helpers over the dashboard collections.
type ProjectStore struct {
	pool *pgxpool.Pool
}

// NewProjectStore returns a store instance bound to the shared pool.
func NewProjectStore(pool *pgxpool.Pool) (*ProjectStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ProjectStore{pool: pool}, nil
}

// ListMilestones returns a company's milestones ordered by due date ascending.
func (s *ProjectStore) ListMilestones(ctx context.Context, companyID uuid.UUID) ([]MilestoneRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT milestone_id, company_id, title, description, due_date, completed_at, created_at
        FROM %s WHERE company_id = $1 ORDER BY due_date ASC
    `, MilestonesTable), companyID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	out := []MilestoneRecord{}
	for rows.Next() {
		var rec MilestoneRecord
		if err := rows.Scan(&rec.MilestoneID, &rec.CompanyID, &rec.Title, &rec.Description, &rec.DueDate, &rec.CompletedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListClientDocuments returns client-visible documents, most recent first.
func (s *ProjectStore) ListClientDocuments(ctx context.Context, companyID uuid.UUID) ([]DocumentRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT document_id, company_id, title, kind, object_key, client_visible, created_at
        FROM %s WHERE company_id = $1 AND client_visible ORDER BY created_at DESC
    `, DocumentsTable), companyID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []DocumentRecord{}
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.DocumentID, &rec.CompanyID, &rec.Title, &rec.Kind, &rec.ObjectKey, &rec.ClientVisible, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListClientUpdates returns client-visible updates, most recent first.
func (s *ProjectStore) ListClientUpdates(ctx context.Context, companyID uuid.UUID) ([]UpdateRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT update_id, company_id, title, body, client_visible, created_at
        FROM %s WHERE company_id = $1 AND client_visible ORDER BY created_at DESC
    `, UpdatesTable), companyID)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer rows.Close()

	out := []UpdateRecord{}
	for rows.Next() {
		var rec UpdateRecord
		if err := rows.Scan(&rec.UpdateID, &rec.CompanyID, &rec.Title, &rec.Body, &rec.ClientVisible, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
