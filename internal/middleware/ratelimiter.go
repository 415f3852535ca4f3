package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/metrics"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/resutils"
)

// RateLimiter rejects with 429 when limiter says no for the key of the request.
// recorder may be nil.
func RateLimiter(limitKeyFn func(r *http.Request) string, limiter ratelimiter.Limiter, recorder *metrics.Recorder) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			allow, backoffDuration := limiter.Allow(r.Context(), limitKeyFn(r))

			if !allow {
				recorder.APIGuardRejection()
				retryAfter := max(int(math.Ceil(backoffDuration.Seconds())), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				// Request limit per ${config.TimeFrame}
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Config().RequestsPerTimeFrame))
				resutils.WriteError(r.Context(), w, http.StatusTooManyRequests, apperr.ErrTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}

// RemoteAddrKey is the limit key when the RealIp middleware runs first.
func RemoteAddrKey(r *http.Request) string {
	return r.RemoteAddr
}
