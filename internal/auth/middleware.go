package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/insured-api/internal/httputil"
	"github.com/redmonkez12/insured-api/internal/insured"
	"github.com/redmonkez12/insured-api/internal/logging"
	"github.com/redmonkez12/insured-api/internal/metrics"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	gateway *Gateway
	metrics *metrics.Metrics
}

func NewMiddleware(gateway *Gateway, m *metrics.Metrics) *Middleware {
	return &Middleware{gateway: gateway, metrics: m}
}

// RequireAuth resolves the bearer token and stores the insured in the request context.
// Denials are answered with a generic 401; the reason only goes to logs and metrics.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		principal, err := m.gateway.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNoCredentials):
				m.metrics.IncAuthDenial("missing")
				httputil.RespondError(w, ErrNoCredentials.Error(), httputil.CodeMissingAuth, http.StatusUnauthorized)
			case errors.Is(err, ErrUnauthenticated):
				reason := DenialReason(err)
				logger.Warn("authentication denied", "reason", reason, "error", err.Error())
				m.metrics.IncAuthDenial(reason)
				httputil.RespondError(w, "invalid token", httputil.CodeNotAuthenticated, http.StatusUnauthorized)
			default:
				logger.Error("authentication failed: internal error", "error", err.Error())
				httputil.RespondError(w, "failed to authenticate", httputil.CodeInternalError, http.StatusInternalServerError)
			}
			return
		}

		ctx := insured.WithPrincipal(r.Context(), principal)
		ctx = logging.WithLogger(ctx, logger.WithFields(map[string]any{"insured_id": principal.ID}))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
