package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"parkwise/pkg/auth"
	pkgerrors "parkwise/pkg/errors"
)

// RateLimit rejects a client address once limiter refuses it. Limiter errors
// fail open.
func RateLimit(limiter auth.RateLimiter, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn("Rate limiter failed", zap.String("client", ip), zap.Error(err))
			}
			if !allowed {
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
