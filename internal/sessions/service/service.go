package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"erpsessions/internal/sessions"
	"erpsessions/internal/sessions/metrics"
	dErrors "erpsessions/pkg/domain-errors"
	"erpsessions/pkg/platform/circuit"
	"erpsessions/pkg/platform/sentinel"
	"erpsessions/pkg/requestcontext"
)

const defaultQueryTimeout = 10 * time.Second

// SessionSource returns the raw rows of the active-sessions query.
type SessionSource interface {
	ActiveSessions(ctx context.Context) ([]sessions.RawRow, error)
}

// Service turns live database sessions into a sorted, counted report. It
// performs no retries: each failure is surfaced once.
type Service struct {
	source       SessionSource
	logger       *slog.Logger
	metrics      *metrics.Metrics
	breaker      *circuit.Breaker
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBreaker guards the source with a circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// WithQueryTimeout bounds each call to the source.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

func New(source SessionSource, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("session source is required")
	}
	s := &Service{
		source:       source,
		logger:       slog.Default(),
		queryTimeout: defaultQueryTimeout,
		tracer:       otel.Tracer("erpsessions/internal/sessions/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FetchActiveUsers runs the pipeline once. On failure no partial report is
// returned and the error is a domain error wrapping the pipeline sentinel.
func (s *Service) FetchActiveUsers(ctx context.Context) (*sessions.Report, error) {
	ctx, span := s.tracer.Start(ctx, "sessions.FetchActiveUsers")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveFetchLatency(time.Since(start)) }()

	if s.breaker != nil && !s.breaker.Allow() {
		err := fmt.Errorf("%w: %w", sessions.ErrConnection, sentinel.ErrCircuitOpen)
		s.metrics.IncrementFailure(metrics.FailureCircuitOpen)
		s.fail(ctx, span, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "database connection failed: circuit open")
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.source.ActiveSessions(queryCtx)
	if err != nil {
		if queryCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", err, context.DeadlineExceeded)
		}
		if !errors.Is(err, context.Canceled) {
			s.recordFailure(ctx)
		}
		s.metrics.IncrementFailure(failureKind(err))
		s.fail(ctx, span, err)
		return nil, translate(err)
	}
	s.recordSuccess(ctx)

	report := sessions.Build(rows)
	s.metrics.AddRowErrors(report.RowErrors)
	s.metrics.SetActiveUsers(report.AppUserCount, report.BIUserCount)
	if report.RowErrors > 0 {
		s.logger.WarnContext(ctx, "session rows could not be extracted",
			"row_errors", report.RowErrors,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	span.SetAttributes(
		attribute.Int("sessions.rows", len(rows)),
		attribute.Int("sessions.app_users", report.AppUserCount),
		attribute.Int("sessions.bi_users", report.BIUserCount),
	)
	return &report, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "fetch active users failed")
	s.logger.ErrorContext(ctx, "failed to fetch active users",
		"error", err,
		"kind", failureKind(err),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (s *Service) recordFailure(ctx context.Context) {
	if s.breaker == nil {
		return
	}
	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.metrics.SetBreakerOpen(true)
		s.logger.WarnContext(ctx, "database circuit opened", "breaker", s.breaker.Name())
	}
}

func (s *Service) recordSuccess(ctx context.Context) {
	if s.breaker == nil {
		return
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.metrics.SetBreakerOpen(false)
		s.logger.InfoContext(ctx, "database circuit closed", "breaker", s.breaker.Name())
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, sentinel.ErrCircuitOpen):
		return metrics.FailureCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.FailureTimeout
	case errors.Is(err, sessions.ErrConnection):
		return metrics.FailureConnection
	case errors.Is(err, sessions.ErrFetch):
		return metrics.FailureFetch
	default:
		return metrics.FailureQuery
	}
}

// translate maps pipeline errors onto domain errors. Messages are safe to show
// to clients; driver detail stays in the wrapped cause.
func translate(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "session query timed out")
	case errors.Is(err, sessions.ErrConnection):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "database connection failed")
	case errors.Is(err, sessions.ErrFetch):
		return dErrors.Wrap(err, dErrors.CodeInternal, "session rows could not be fetched")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "session query failed")
	}
}
