package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/budgets/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	"github.com/acervolab/acervo-backend/platform/go/httpjson"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
)

// Handler wires the budgets service to the HTTP surface.
type Handler struct {
	svc      *service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("budgets service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger, validate: validator.New()}
}

// Register mounts the budget routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/", h.update)
	r.Delete("/", h.remove)
}

type createBudgetRequest struct {
	CompanyName  string          `json:"companyName" validate:"required"`
	ClientName   string          `json:"clientName" validate:"required"`
	ProjectType  string          `json:"projectType" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Features     []string        `json:"features"`
	Deadline     string          `json:"deadline" validate:"required"`
	BudgetValue  decimal.Decimal `json:"budgetValue" validate:"required"`
	PaymentTerms string          `json:"paymentTerms"`
}

type updateBudgetRequest struct {
	ID              string           `json:"id" validate:"required,uuid"`
	Action          *string          `json:"action" validate:"omitempty,oneof=accept complete"`
	Status          *string          `json:"status"`
	AcceptedNotes   *string          `json:"acceptedNotes"`
	FinalValue      *decimal.Decimal `json:"finalValue"`
	ValueChanged    *bool            `json:"valueChanged"`
	CompletionNotes *string          `json:"completionNotes"`
	CompletionDate  *time.Time       `json:"completionDate"`
}

type budgetEnvelope struct {
	Budget budgetResponse `json:"budget"`
}

type budgetsEnvelope struct {
	Budgets []budgetResponse `json:"budgets"`
}

type budgetResponse struct {
	ID              uuid.UUID        `json:"id"`
	CompanyName     string           `json:"companyName"`
	ClientName      string           `json:"clientName"`
	ProjectType     string           `json:"projectType"`
	Description     string           `json:"description"`
	Features        []string         `json:"features"`
	Deadline        string           `json:"deadline"`
	BudgetValue     decimal.Decimal  `json:"budgetValue"`
	PaymentTerms    string           `json:"paymentTerms"`
	Status          string           `json:"status"`
	AcceptedNotes   *string          `json:"acceptedNotes,omitempty"`
	CompletionNotes *string          `json:"completionNotes,omitempty"`
	FinalValue      *decimal.Decimal `json:"finalValue,omitempty"`
	ValueChanged    *bool            `json:"valueChanged,omitempty"`
	ExecutionDays   *int             `json:"executionDays,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	AcceptedAt      *time.Time       `json:"acceptedAt,omitempty"`
	StartedAt       *time.Time       `json:"startedAt,omitempty"`
	DeliveredAt     *time.Time       `json:"deliveredAt,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createBudgetRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := h.svc.Create(r.Context(), creds.ID, service.CreateInput{
		CompanyName:  req.CompanyName,
		ClientName:   req.ClientName,
		ProjectType:  req.ProjectType,
		Description:  req.Description,
		Features:     req.Features,
		Deadline:     req.Deadline,
		Value:        req.BudgetValue,
		PaymentTerms: req.PaymentTerms,
	})
	if err != nil {
		h.writeError(w, r, err, "create budget")
		return
	}

	httpjson.Write(w, http.StatusCreated, budgetEnvelope{Budget: toResponse(created)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	budgets, err := h.svc.List(r.Context(), creds.ID)
	if err != nil {
		h.writeError(w, r, err, "list budgets")
		return
	}

	items := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		items = append(items, toResponse(b))
	}
	httpjson.Write(w, http.StatusOK, budgetsEnvelope{Budgets: items})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateBudgetRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	transition, err := toTransition(req)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.Apply(r.Context(), creds.ID, id, transition)
	if err != nil {
		h.writeError(w, r, err, "update budget")
		return
	}

	httpjson.Write(w, http.StatusOK, budgetEnvelope{Budget: toResponse(updated)})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	if err := h.svc.Delete(r.Context(), creds.ID, id); err != nil {
		h.writeError(w, r, err, "delete budget")
		return
	}

	httpjson.WriteSuccess(w)
}

// toTransition maps the flat update body onto exactly one workflow move.
func toTransition(req updateBudgetRequest) (service.Transition, error) {
	if req.Action != nil {
		switch *req.Action {
		case "accept":
			return service.Accept{
				Notes:        req.AcceptedNotes,
				FinalValue:   req.FinalValue,
				ValueChanged: req.ValueChanged,
			}, nil
		case "complete":
			return service.Complete{
				Notes:          req.CompletionNotes,
				CompletionDate: req.CompletionDate,
			}, nil
		}
	}
	if req.Status != nil && *req.Status != "" {
		return service.SetStatus{Status: *req.Status}, nil
	}
	return nil, errors.New("action or status is required")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, service.ErrNotFound) {
		httpjson.WriteError(w, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}
	platformlogging.FromRequest(r, h.logger).Error(op+" failed", zap.Error(err))
	httpjson.WriteError(w, http.StatusInternalServerError, "internal error")
}

func toResponse(b service.Budget) budgetResponse {
	return budgetResponse{
		ID:              b.ID,
		CompanyName:     b.CompanyName,
		ClientName:      b.ClientName,
		ProjectType:     b.ProjectType,
		Description:     b.Description,
		Features:        b.Features,
		Deadline:        b.Deadline,
		BudgetValue:     b.Value,
		PaymentTerms:    b.PaymentTerms,
		Status:          b.Status,
		AcceptedNotes:   b.AcceptedNotes,
		CompletionNotes: b.CompletionNotes,
		FinalValue:      b.FinalValue,
		ValueChanged:    b.ValueChanged,
		ExecutionDays:   b.ExecutionDays,
		CreatedAt:       b.CreatedAt,
		AcceptedAt:      b.AcceptedAt,
		StartedAt:       b.StartedAt,
		DeliveredAt:     b.DeliveredAt,
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "missing or invalid fields: " + strings.Join(fields, ", ")
}
