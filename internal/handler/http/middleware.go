package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/jgivc/mediafetch/internal/common"
	"golang.org/x/time/rate"
)

const (
	msgRateLimited = "Too many requests, slow down."
)

// NewRateLimitMiddleware shares one token bucket across all wrapped handlers.
// rps <= 0 turns limiting off.
func NewRateLimitMiddleware(rps float64, burst int, log *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	log = log.With(slog.String("handler", "RateLimit"))
	limiter := rate.NewLimiter(rate.Limit(rps), max(burst, 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("Request rejected", slog.String("path", r.URL.Path), slog.String("remote", r.RemoteAddr), slog.Any("error", common.ErrRateLimited))

				writeError(w, statusFor(common.ErrRateLimited), msgRateLimited)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
