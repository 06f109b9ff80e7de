package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/companies/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	"github.com/acervolab/acervo-backend/platform/go/httpjson"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
)

// Handler wires the companies service to the HTTP surface.
type Handler struct {
	svc      *service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("companies service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger, validate: validator.New()}
}

// Register mounts the company routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.provision)
}

type provisionRequest struct {
	Name      string   `json:"name" validate:"required"`
	CNPJ      *string  `json:"cnpj"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6"`
	BudgetIDs []string `json:"budgetIds" validate:"omitempty,dive,uuid"`
}

type provisionResponse struct {
	Company companyResponse `json:"company"`
	User    userResponse    `json:"user"`
}

type companyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) provision(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req provisionRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	budgetIDs := make([]uuid.UUID, 0, len(req.BudgetIDs))
	for _, raw := range req.BudgetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpjson.WriteError(w, http.StatusBadRequest, "invalid budget id: "+raw)
			return
		}
		budgetIDs = append(budgetIDs, id)
	}

	result, err := h.svc.Provision(r.Context(), creds.ID, service.ProvisionInput{
		Name:      req.Name,
		CNPJ:      req.CNPJ,
		Email:     req.Email,
		Password:  req.Password,
		BudgetIDs: budgetIDs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(result.FailedBudgetIDs) > 0 {
		// Partial success: the company and user exist, some contracts did not link.
		platformlogging.FromRequest(r, h.logger).Warn("provisioning finished with unlinked budgets",
			zap.String("company_id", result.Company.ID.String()),
			zap.Int("failed_contracts", len(result.FailedBudgetIDs)))
	}

	httpjson.Write(w, http.StatusCreated, provisionResponse{
		Company: companyResponse{
			ID:        result.Company.ID,
			Name:      result.Company.Name,
			CNPJ:      result.Company.CNPJ,
			Status:    result.Company.Status,
			CreatedAt: result.Company.CreatedAt,
		},
		User: userResponse{ID: result.User.ID, Email: result.User.Email},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		httpjson.WriteError(w, http.StatusBadRequest, "missing or invalid fields: "+strings.Join(fields, ", "))
		return
	}
	platformlogging.FromRequest(r, h.logger).Error("provision company failed", zap.Error(err))
	httpjson.WriteError(w, http.StatusInternalServerError, "internal error")
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
