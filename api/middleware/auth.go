package middleware

import (
	"net/http"
	"strings"

	"github.com/ratedesk/ratedesk-backend/api/responses"
	pkgauth "github.com/ratedesk/ratedesk-backend/pkg/auth"
	"github.com/ratedesk/ratedesk-backend/pkg/config"
	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// subject and its capability grants.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithActor(r.Context(), claims.Subject, claims.Capabilities)

			if logg != nil {
				ctx = logg.WithActor(ctx, claims.Subject)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects requests whose token does not satisfy the
// required capability. Must sit inside Auth.
func RequireCapability(checker pkgauth.Checker, required pkgauth.Capability, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			granted := CapabilitiesFromContext(r.Context())
			if checker == nil || !checker.Allows(granted, required) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "missing capability "+required.String()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
