package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/ratelimit"
)

// RateLimit throttles by client IP. Used on the public scheduler endpoints,
// which have no authentication to lean on. Limiter failures allow the
// request through rather than taking the endpoint down with Redis.
func RateLimit(limiter *ratelimit.Limiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			ok, err := limiter.Allow(req.Context(), ip, limit, window)
			if err != nil {
				slog.WarnContext(req.Context(), "rate limiter unavailable", "err", err)
				next.ServeHTTP(w, req)
				return
			}
			if !ok {
				httpx.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
