package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"erpsessions/internal/platform/config"
	"erpsessions/internal/platform/httpserver"
	"erpsessions/internal/platform/logger"
	"erpsessions/internal/platform/metrics"
	"erpsessions/internal/platform/sqlserver"
	"erpsessions/internal/platform/telemetry"
	"erpsessions/internal/sessions/handler"
	sessionmetrics "erpsessions/internal/sessions/metrics"
	"erpsessions/internal/sessions/service"
	"erpsessions/internal/sessions/store"
	"erpsessions/pkg/platform/circuit"
	"erpsessions/pkg/platform/middleware/allowlist"
)

const (
	serviceName     = "erp-sessions"
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/sessions.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, serviceName, cfg.Telemetry, log)

	db, err := sqlserver.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)
	httpMetrics := metrics.New(reg)
	sessionMetrics := sessionmetrics.New(reg)

	breaker := circuit.New("sqlserver",
		circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
		circuit.WithOpenTimeout(cfg.Breaker.OpenTimeout),
	)
	svc, err := service.New(store.New(db),
		service.WithLogger(log),
		service.WithMetrics(sessionMetrics),
		service.WithBreaker(breaker),
		service.WithQueryTimeout(cfg.Database.QueryTimeout),
	)
	if err != nil {
		return err
	}

	allowed, err := allowlist.Parse(cfg.Security.AllowedIPs)
	if err != nil {
		return err
	}

	router := newRouter(routerDeps{
		logger:    log,
		metrics:   httpMetrics,
		gatherer:  reg,
		db:        db,
		sessions:  handler.New(svc, log),
		allowlist: allowed,
		security:  cfg.Security,
		rateLimit: cfg.RateLimit,
	})
	srv := httpserver.New(cfg.HTTP.Addr, router, cfg.Database.QueryTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting erp-sessions",
			"addr", cfg.HTTP.Addr,
			"server", cfg.Database.Server,
			"instance", cfg.Database.Instance,
			"database", cfg.Database.Name,
			"allowlist_entries", len(cfg.Security.AllowedIPs),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if terr := shutdownTracing(shutdownCtx); terr != nil {
			log.Warn("tracer shutdown failed", "error", terr)
		}
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
