package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors returned by the service layer.
var (
	// ErrNotFound covers both absent budgets and budgets owned by another
	// user, so callers cannot probe for existence.
	ErrNotFound = errors.New("budget not found")
)

// Budget workflow statuses. Status is free-form when set through an explicit
// override, so these are the well-known values, not an exhaustive set.
const (
	StatusDrafted    = "drafted"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
)

// DefaultPaymentTerms is persisted verbatim when the caller supplies none.
const DefaultPaymentTerms = "50% na aprovação, 50% na entrega"

// Budget represents the domain model for a priced engagement proposal.
type Budget struct {
	ID              uuid.UUID
	OwnerID         string
	CompanyName     string
	ClientName      string
	ProjectType     string
	Description     string
	Features        []string
	Deadline        string
	Value           decimal.Decimal
	PaymentTerms    string
	Status          string
	AcceptedNotes   *string
	CompletionNotes *string
	FinalValue      *decimal.Decimal
	ValueChanged    *bool
	ExecutionDays   *int
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	StartedAt       *time.Time
	DeliveredAt     *time.Time
}

// CreateInput represents the request to create a budget.
type CreateInput struct {
	CompanyName  string
	ClientName   string
	ProjectType  string
	Description  string
	Features     []string
	Deadline     string
	Value        decimal.Decimal
	PaymentTerms string
}

// Patch carries the fields a workflow transition may change. Nil fields are
// left untouched by the repository.
type Patch struct {
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

// Transition is the closed set of budget workflow moves. Exactly one of the
// concrete kinds is applied per update; resolveTransition is the single place
// that turns a kind into a row patch.
type Transition interface {
	isTransition()
}

// Accept moves a drafted budget into execution and starts the delivery clock.
type Accept struct {
	Notes        *string
	FinalValue   *decimal.Decimal
	ValueChanged *bool
}

// Complete marks the budget delivered and, when the clock was started,
// records how many days execution took.
type Complete struct {
	Notes          *string
	CompletionDate *time.Time
}

// SetStatus overwrites the status directly, bypassing the derived-field side
// effects of the named actions. Setting "delivered" this way stamps the
// delivery timestamp but never computes execution days; only the Complete
// action does that.
type SetStatus struct {
	Status string
}

func (Accept) isTransition()    {}
func (Complete) isTransition()  {}
func (SetStatus) isTransition() {}

// Repository abstracts persistence. Every operation that touches an existing
// row is scoped by owner id.
type Repository interface {
	Create(ctx context.Context, b Budget) (Budget, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Budget, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (Budget, error)
	ApplyPatch(ctx context.Context, ownerID string, id uuid.UUID, patch Patch) (Budget, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the time source; tests pin it to fixed instants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service provides budget workflow operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New constructs a Service with required dependencies.
func New(repo Repository, opts ...Option) *Service {
	if repo == nil {
		panic("budgets repo is required")
	}
	s := &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new drafted budget owned by the caller.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Budget, error) {
	terms := input.PaymentTerms
	if terms == "" {
		terms = DefaultPaymentTerms
	}

	features := input.Features
	if features == nil {
		features = []string{}
	}

	b := Budget{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		CompanyName:  input.CompanyName,
		ClientName:   input.ClientName,
		ProjectType:  input.ProjectType,
		Description:  input.Description,
		Features:     features,
		Deadline:     input.Deadline,
		Value:        input.Value,
		PaymentTerms: terms,
		Status:       StatusDrafted,
		CreatedAt:    s.now(),
	}

	return s.repo.Create(ctx, b)
}

// List returns the caller's budgets, most recent first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Budget, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Apply runs one workflow transition against an owner-scoped budget.
func (s *Service) Apply(ctx context.Context, ownerID string, id uuid.UUID, tr Transition) (Budget, error) {
	current, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Budget{}, err
	}

	patch := resolveTransition(current, tr, s.now())
	return s.repo.ApplyPatch(ctx, ownerID, id, patch)
}

// Delete removes an owner-scoped budget. Hard delete, no audit trail.
func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// resolveTransition is the exhaustive mapping from transition kind to row
// patch. It never mutates current; concurrent updates race with last-write-
// wins semantics, which is the documented contract.
func resolveTransition(current Budget, tr Transition, now time.Time) Patch {
	switch t := tr.(type) {
	case Accept:
		status := StatusInProgress
		patch := Patch{
			Status:     &status,
			AcceptedAt: &now,
			StartedAt:  &now,
		}
		if t.Notes != nil {
			patch.AcceptedNotes = t.Notes
		}
		if t.FinalValue != nil {
			patch.FinalValue = t.FinalValue
		}
		if t.ValueChanged != nil {
			patch.ValueChanged = t.ValueChanged
		}
		return patch

	case Complete:
		status := StatusDelivered
		deliveredAt := now
		if t.CompletionDate != nil {
			deliveredAt = *t.CompletionDate
		}
		patch := Patch{
			Status:      &status,
			DeliveredAt: &deliveredAt,
		}
		if t.Notes != nil {
			patch.CompletionNotes = t.Notes
		}
		if current.StartedAt != nil {
			days := executionDays(*current.StartedAt, deliveredAt)
			patch.ExecutionDays = &days
		}
		return patch

	case SetStatus:
		status := t.Status
		patch := Patch{Status: &status}
		if status == StatusDelivered {
			// Direct override stamps the timestamp but leaves execution
			// days unset even when the clock was started.
			patch.DeliveredAt = &now
		}
		return patch
	}

	return Patch{}
}

// executionDays returns the whole-day span between the two instants, rounded
// up so any partial day counts as a full day.
func executionDays(started, delivered time.Time) int {
	span := delivered.Sub(started)
	if span < 0 {
		span = -span
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days
}
