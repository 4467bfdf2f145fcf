package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"erpsessions/internal/platform/config"
	"erpsessions/internal/platform/metrics"
	"erpsessions/internal/platform/middleware"
	"erpsessions/internal/platform/sqlserver"
	"erpsessions/internal/sessions/handler"
	dErrors "erpsessions/pkg/domain-errors"
	"erpsessions/pkg/platform/httputil"
	"erpsessions/pkg/platform/middleware/allowlist"
	"erpsessions/pkg/platform/middleware/metadata"
	"erpsessions/pkg/platform/middleware/ratelimit"
)

const readinessTimeout = 2 * time.Second

type routerDeps struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	db        sqlserver.Pinger
	sessions  *handler.Handler
	allowlist *allowlist.Allowlist
	security  config.SecurityConfig
	rateLimit config.RateLimitConfig
}

// newRouter assembles the HTTP surface. Probes and /metrics sit outside the
// client IP allowlist; everything else is filtered and rate limited.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata(d.security.TrustProxyHeaders))
	r.Use(middleware.RequestLogger(d.logger, d.metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(d.db, d.logger))
	r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(allowlist.Middleware(d.allowlist, d.logger,
			allowlist.WithOnDeny(func(string) { d.metrics.IncrementDenied() }),
		))
		r.Use(ratelimit.ByClientIP(d.rateLimit.Requests, d.rateLimit.Window))
		d.sessions.Register(r)
	})

	return otelhttp.NewHandler(r, "erp-sessions")
}

func readyHandler(db sqlserver.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := sqlserver.Ready(ctx, db); err != nil {
			logger.WarnContext(ctx, "readiness check failed", "error", err)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "database not reachable"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
