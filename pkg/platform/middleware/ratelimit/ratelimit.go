// Package ratelimit limits requests per resolved client IP.
package ratelimit

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"erpsessions/pkg/platform/httputil"
	"erpsessions/pkg/requestcontext"
)

// ByClientIP allows requests per window for each client IP resolved by the
// metadata middleware. requests <= 0 disables limiting.
func ByClientIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(clientIPKey),
		httprate.WithLimitHandler(limited),
	)
}

func clientIPKey(r *http.Request) (string, error) {
	if ip := requestcontext.ClientIP(r.Context()); ip != "" {
		return ip, nil
	}
	return httprate.KeyByIP(r)
}

func limited(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, http.StatusTooManyRequests, "Too many requests, retry later")
}
