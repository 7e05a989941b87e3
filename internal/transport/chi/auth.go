package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/logger"
)

// Caller identity headers set by the upstream auth layer.
const (
	HeaderCallerID   = "X-Caller-ID"
	HeaderCallerRole = "X-Caller-Role"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CallerMiddleware resolves the caller from the identity headers and stores
// it in the request context. Requests without a caller id are rejected.
func CallerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderCallerID))
		if id == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing "+HeaderCallerID+" header")
			return
		}

		caller := domain.Caller{ID: id}
		if raw := strings.TrimSpace(r.Header.Get(HeaderCallerRole)); raw != "" {
			role, err := domain.ParseRole(strings.ToLower(raw))
			if err != nil {
				writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
				return
			}
			caller.Role = role
		}

		ctx := domain.ContextWithCaller(r.Context(), caller)
		ctx = logger.WithFields(ctx, zap.String("caller_id", caller.ID), zap.String("caller_role", string(caller.Role)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
