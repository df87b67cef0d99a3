package middleware

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"parkwise/domain/core/valueobjects"
	"parkwise/pkg/auth"
	pkgerrors "parkwise/pkg/errors"
	"parkwise/pkg/observability"
)

// TokenValidator turns a bearer token into a principal.
type TokenValidator interface {
	Validate(token string) (*auth.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's principal in the request context.
func Authenticate(tokens TokenValidator, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing authorization header"))
				return
			}

			principal, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("Token rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("Invalid or expired token").WithCause(err))
				return
			}

			observability.Annotate(r.Context(), "userId", principal.UserID)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole admits only principals carrying one of roles. It must run after
// Authenticate.
func RequireRole(errs *pkgerrors.ErrorHandler, roles ...valueobjects.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFromContext(r.Context())
			if err != nil {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("Unauthorized"))
				return
			}
			for _, role := range roles {
				if principal.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			errs.Handle(w, r, pkgerrors.NewForbiddenError("Insufficient permissions"))
		})
	}
}

// extractToken reads the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP middleware
// has already replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
