package middleware

import (
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
)

// ActorTrace enriches the request-scoped logger with the authenticated actor
// so every downstream log line carries the user id. It must run after the
// authentication middleware.
func ActorTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, nil)
		if logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		if creds, ok := platformauth.UserFromContext(r.Context()); ok && creds != nil {
			logger = logger.With(zap.String("user_id", creds.ID))
		} else {
			logger = logger.With(zap.String("actor", "anonymous"))
		}

		ctx := platformlogging.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
