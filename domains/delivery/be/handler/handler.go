package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/delivery/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	"github.com/acervolab/acervo-backend/platform/go/httpjson"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
)

// Handler wires the delivery service to the HTTP surface.
type Handler struct {
	svc      *service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("delivery service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger, validate: validator.New()}
}

// Register mounts the delivery routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/links", h.issueLink)
	r.Post("/purchases", h.recordPurchase)
}

type productRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

type linkResponse struct {
	URL string `json:"url"`
}

func (h *Handler) issueLink(w http.ResponseWriter, r *http.Request) {
	creds, productID, ok := h.parseProductRequest(w, r)
	if !ok {
		return
	}

	url, err := h.svc.IssueDownloadLink(r.Context(), creds.ID, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpjson.Write(w, http.StatusOK, linkResponse{URL: url})
}

func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	creds, productID, ok := h.parseProductRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.RecordPurchase(r.Context(), creds.ID, productID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpjson.WriteSuccess(w)
}

func (h *Handler) parseProductRequest(w http.ResponseWriter, r *http.Request) (*platformauth.UserCredentials, uuid.UUID, bool) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}

	var req productRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid request body")
		return nil, uuid.Nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "productId is required")
		return nil, uuid.Nil, false
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid product id")
		return nil, uuid.Nil, false
	}
	return creds, productID, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrNotPurchased):
		httpjson.WriteError(w, http.StatusForbidden, "product not purchased")
	default:
		platformlogging.FromRequest(r, h.logger).Error("delivery request failed", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
