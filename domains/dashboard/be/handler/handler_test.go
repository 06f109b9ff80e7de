package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acervolab/acervo-backend/domains/dashboard/be/handler"
	"github.com/acervolab/acervo-backend/domains/dashboard/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
)

type stubRepo struct {
	membership    service.Membership
	membershipErr error
	company       service.Company
	milestones    []service.Milestone
}

func (s *stubRepo) FindMembership(context.Context, string) (service.Membership, error) {
	return s.membership, s.membershipErr
}

func (s *stubRepo) GetCompany(context.Context, uuid.UUID) (service.Company, error) {
	return s.company, nil
}

func (s *stubRepo) ListMilestones(context.Context, uuid.UUID) ([]service.Milestone, error) {
	return s.milestones, nil
}

func (s *stubRepo) ListDocuments(context.Context, uuid.UUID) ([]service.Document, error) {
	return nil, nil
}

func (s *stubRepo) ListUpdates(context.Context, uuid.UUID) ([]service.Update, error) {
	return nil, nil
}

func (s *stubRepo) ListContracts(context.Context, uuid.UUID) ([]service.ContractView, error) {
	return nil, nil
}

func newRouter(t *testing.T, repo service.Repository) chi.Router {
	t.Helper()
	svc := service.New(repo, zap.NewNop())
	h := handler.New(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/dashboard", h.Register)
	return r
}

func doRequest(t *testing.T, router chi.Router, userID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	if userID != "" {
		req = req.WithContext(platformauth.WithUser(req.Context(), &platformauth.UserCredentials{ID: userID}))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOverviewResponseShape(t *testing.T) {
	companyID := uuid.New()
	done := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	router := newRouter(t, &stubRepo{
		membership: service.Membership{CompanyID: companyID, Role: "client_admin"},
		company:    service.Company{ID: companyID, Name: "Biblioteca Central", Status: "active"},
		milestones: []service.Milestone{
			{ID: uuid.New(), Title: "Levantamento", DueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), CompletedAt: &done},
			{ID: uuid.New(), Title: "Digitalização", DueDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	})

	rec := doRequest(t, router, "auth-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tenant struct {
			Name string `json:"name"`
		} `json:"tenant"`
		Milestones []json.RawMessage `json:"milestones"`
		Documents  []json.RawMessage `json:"documents"`
		Updates    []json.RawMessage `json:"updates"`
		Contracts  []json.RawMessage `json:"contracts"`
		Progress   struct {
			TotalMilestones     int    `json:"totalMilestones"`
			CompletedMilestones int    `json:"completedMilestones"`
			CompletionPct       int    `json:"completionPct"`
			NextMilestone       string `json:"nextMilestone"`
			Stages              []struct {
				Name string `json:"name"`
			} `json:"stages"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, "Biblioteca Central", resp.Tenant.Name)
	require.Len(t, resp.Milestones, 2)
	require.NotNil(t, resp.Documents)
	require.NotNil(t, resp.Updates)
	require.NotNil(t, resp.Contracts)
	require.Equal(t, 2, resp.Progress.TotalMilestones)
	require.Equal(t, 1, resp.Progress.CompletedMilestones)
	require.Equal(t, 50, resp.Progress.CompletionPct)
	require.Equal(t, "Digitalização", resp.Progress.NextMilestone)
	require.Len(t, resp.Progress.Stages, 3)
}

func TestOverviewRequiresAuth(t *testing.T) {
	router := newRouter(t, &stubRepo{})

	rec := doRequest(t, router, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOverviewWithoutMembership(t *testing.T) {
	router := newRouter(t, &stubRepo{membershipErr: service.ErrForbidden})

	rec := doRequest(t, router, "auth-1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "no company membership", resp.Error)
}
