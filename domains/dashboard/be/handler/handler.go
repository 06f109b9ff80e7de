package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/dashboard/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	"github.com/acervolab/acervo-backend/platform/go/httpjson"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
)

// Handler wires the dashboard aggregator to the HTTP surface.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("dashboard service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the dashboard routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.overview)
}

type overviewResponse struct {
	Tenant     tenantResponse      `json:"tenant"`
	Milestones []milestoneResponse `json:"milestones"`
	Documents  []documentResponse  `json:"documents"`
	Updates    []updateResponse    `json:"updates"`
	Contracts  []contractResponse  `json:"contracts"`
	Progress   progressResponse    `json:"progress"`
}

type tenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type milestoneResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type documentResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

type updateResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type contractResponse struct {
	ID           uuid.UUID       `json:"id"`
	BudgetID     uuid.UUID       `json:"budgetId"`
	Status       string          `json:"status"`
	ProjectType  string          `json:"projectType"`
	Description  string          `json:"description"`
	Value        decimal.Decimal `json:"value"`
	BudgetStatus string          `json:"budgetStatus"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type progressResponse struct {
	TotalMilestones     int             `json:"totalMilestones"`
	CompletedMilestones int             `json:"completedMilestones"`
	CompletionPct       int             `json:"completionPct"`
	NextMilestone       string          `json:"nextMilestone"`
	Stages              []stageResponse `json:"stages"`
}

type stageResponse struct {
	Name  string         `json:"name"`
	Items []itemResponse `json:"items"`
}

type itemResponse struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
	Value string `json:"value,omitempty"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overview, err := h.svc.Overview(r.Context(), creds.ID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpjson.WriteError(w, http.StatusForbidden, "no company membership")
			return
		}
		platformlogging.FromRequest(r, h.logger).Error("dashboard overview failed", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, toOverviewResponse(overview))
}

func toOverviewResponse(o service.Overview) overviewResponse {
	milestones := make([]milestoneResponse, 0, len(o.Milestones))
	for _, m := range o.Milestones {
		milestones = append(milestones, milestoneResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DueDate:     m.DueDate,
			CompletedAt: m.CompletedAt,
		})
	}

	documents := make([]documentResponse, 0, len(o.Documents))
	for _, d := range o.Documents {
		documents = append(documents, documentResponse{
			ID:        d.ID,
			Title:     d.Title,
			Kind:      d.Kind,
			CreatedAt: d.CreatedAt,
		})
	}

	updates := make([]updateResponse, 0, len(o.Updates))
	for _, u := range o.Updates {
		updates = append(updates, updateResponse{
			ID:        u.ID,
			Title:     u.Title,
			Body:      u.Body,
			CreatedAt: u.CreatedAt,
		})
	}

	contracts := make([]contractResponse, 0, len(o.Contracts))
	for _, c := range o.Contracts {
		contracts = append(contracts, contractResponse{
			ID:           c.ID,
			BudgetID:     c.BudgetID,
			Status:       c.Status,
			ProjectType:  c.ProjectType,
			Description:  c.Description,
			Value:        c.Value,
			BudgetStatus: c.BudgetStatus,
			CreatedAt:    c.CreatedAt,
		})
	}

	stages := make([]stageResponse, 0, len(o.Progress.Stages))
	for _, s := range o.Progress.Stages {
		items := make([]itemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, itemResponse{Label: it.Label, Done: it.Done, Value: it.Value})
		}
		stages = append(stages, stageResponse{Name: s.Name, Items: items})
	}

	return overviewResponse{
		Tenant: tenantResponse{
			ID:        o.Company.ID,
			Name:      o.Company.Name,
			CNPJ:      o.Company.CNPJ,
			Status:    o.Company.Status,
			CreatedAt: o.Company.CreatedAt,
		},
		Milestones: milestones,
		Documents:  documents,
		Updates:    updates,
		Contracts:  contracts,
		Progress: progressResponse{
			TotalMilestones:     o.Progress.TotalMilestones,
			CompletedMilestones: o.Progress.CompletedMilestones,
			CompletionPct:       o.Progress.CompletionPct,
			NextMilestone:       o.Progress.NextMilestone,
			Stages:              stages,
		},
	}
}
