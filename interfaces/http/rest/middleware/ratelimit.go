package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"canvas-backend/pkg/common"
	"canvas-backend/pkg/ratelimit"
)

// RateLimit limits API requests per client IP. RealIP runs earlier in the
// chain, so RemoteAddr already reflects X-Forwarded-For when present.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn("rate limiter error", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				common.RespondError(w, http.StatusTooManyRequests, common.StandardErrorCodes.RateLimited, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
