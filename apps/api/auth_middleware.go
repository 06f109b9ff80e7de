package main

import (
	"context"
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	companiesprov "github.com/acervolab/acervo-backend/domains/companies/be/provisioning"
	companiesservice "github.com/acervolab/acervo-backend/domains/companies/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	"github.com/acervolab/acervo-backend/platform/go/gcp"
)

// buildAuthMiddleware constructs the JWT middleware for the configured
// provider. The Firebase auth client is returned so the companies domain can
// reuse it for admin-side account creation.
func buildAuthMiddleware(ctx context.Context, cfg config, logger *zap.Logger) (func(http.Handler) http.Handler, *firebaseauth.Client) {
	var verify platformauth.VerifyFunc
	var fbAuth *firebaseauth.Client

	switch cfg.AuthProvider {
	case "firebase":
		_, client, err := gcp.InitFirebaseAuth(ctx)
		if err != nil {
			logger.Fatal("init firebase auth", zap.Error(err))
		}
		fbAuth = client
		verify = platformauth.FirebaseTokenVerifier(client)
	case "dev":
		logger.Warn("using dev auth middleware; do not use in production")
		verify = platformauth.UnsignedTokenVerifier()
	default:
		logger.Fatal("unsupported auth provider", zap.String("provider", cfg.AuthProvider))
	}

	return platformauth.JWT(verify, platformauth.DefaultCredentialExtractor), fbAuth
}

// buildIdentityProvisioner picks the identity backend matching the auth
// provider: Firebase Admin in production, a local stub under dev auth.
func buildIdentityProvisioner(cfg config, fbAuth *firebaseauth.Client, logger *zap.Logger) companiesservice.IdentityProvisioner {
	if cfg.AuthProvider == "dev" {
		return companiesprov.NewDevIdentity()
	}
	if fbAuth == nil {
		logger.Fatal("firebase auth client required for identity provisioning")
	}
	return companiesprov.NewFirebaseIdentity(fbAuth)
}
