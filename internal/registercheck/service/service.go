// Package service orchestrates the register check lifecycle: ingestion,
// pending queries, result processing, removal and archival.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"regcheck/internal/platform/metrics"
	"regcheck/internal/registercheck/validation"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/sentinel"
	"regcheck/pkg/platform/tx"
)

const (
	DefaultPageSize = 100
	tracerName      = "regcheck/registercheck"
)

type Service struct {
	store         Store
	runner        tx.Runner
	authorities   AuthorityResolver
	jurisdictions JurisdictionLookup
	publisher     Publisher
	validator     *validation.Validator

	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	pageSize    int
	replication bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithPageSize caps the pending query. Values <= 0 keep the default.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithReplication turns forwarding of ingestion and removal events on or off.
func WithReplication(enabled bool) Option {
	return func(s *Service) { s.replication = enabled }
}

func New(
	store Store,
	runner tx.Runner,
	authorities AuthorityResolver,
	jurisdictions JurisdictionLookup,
	publisher Publisher,
	opts ...Option,
) (*Service, error) {
	switch {
	case store == nil:
		return nil, fmt.Errorf("register check store is required")
	case runner == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case authorities == nil:
		return nil, fmt.Errorf("authority resolver is required")
	case jurisdictions == nil:
		return nil, fmt.Errorf("jurisdiction lookup is required")
	case publisher == nil:
		return nil, fmt.Errorf("publisher is required")
	}

	s := &Service{
		store:         store,
		runner:        runner,
		authorities:   authorities,
		jurisdictions: jurisdictions,
		publisher:     publisher,
		logger:        slog.Default(),
		tracer:        otel.Tracer(tracerName),
		pageSize:      DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validation.New(jurisdictions, store, runner)
	return s, nil
}

// PageSize is the cap applied to pending queries.
func (s *Service) PageSize() int { return s.pageSize }

// storeError maps store sentinels to coded errors. Coded errors pass through.
func storeError(err error, action string) error {
	var coded *dErrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "register check not found")
	case errors.Is(err, sentinel.ErrStaleVersion):
		return dErrors.Wrap(err, dErrors.CodeConflict, "register check was updated concurrently")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "register check already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
