package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acervolab/acervo-backend/platform/go/auth/devtoken"
)

func TestDefaultCredentialExtractor(t *testing.T) {
	testCases := []struct {
		name    string
		claims  map[string]interface{}
		wantID  string
		wantErr bool
	}{
		{
			name:   "uid claim",
			claims: map[string]interface{}{"uid": "user-1", "email": "u@example.com"},
			wantID: "user-1",
		},
		{
			name:   "user_id fallback",
			claims: map[string]interface{}{"user_id": "user-2"},
			wantID: "user-2",
		},
		{
			name:   "sub fallback",
			claims: map[string]interface{}{"sub": "user-3"},
			wantID: "user-3",
		},
		{
			name:    "no subject",
			claims:  map[string]interface{}{"email": "u@example.com"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds, err := DefaultCredentialExtractor(tc.claims)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantID, creds.ID)
		})
	}
}

func TestDefaultCredentialExtractorRoleClaim(t *testing.T) {
	creds, err := DefaultCredentialExtractor(map[string]interface{}{
		"uid":            "user-123",
		"email":          "user@example.com",
		"email_verified": true,
		"role":           "client_admin",
	})
	require.NoError(t, err)
	require.Equal(t, "client_admin", creds.Role)
	require.Equal(t, "user@example.com", creds.Email)
	require.True(t, creds.EmailVerified)
}

func TestJWTMiddlewareWithUnsignedToken(t *testing.T) {
	token, err := devtoken.BuildUnsignedFirebaseToken(devtoken.Params{
		ProjectID: "local-acervo",
		UserID:    "owner-1",
		Email:     "owner@example.com",
		Role:      "owner",
	}, time.Now().UTC())
	require.NoError(t, err)

	var got *UserCredentials
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := JWT(UnsignedTokenVerifier(), DefaultCredentialExtractor)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, "owner-1", got.ID)
	require.Equal(t, "owner", got.Role)
}

func TestJWTMiddlewareAnonymousPassthrough(t *testing.T) {
	var got *UserCredentials
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := JWT(UnsignedTokenVerifier(), DefaultCredentialExtractor)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// No Authorization header: the request flows through anonymously.
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireUser()(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &UserCredentials{ID: "user-1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
