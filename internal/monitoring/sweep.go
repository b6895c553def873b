// Package monitoring finds register checks stuck in PENDING and reports them
// per jurisdiction, optionally as an emailed digest.
package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"regcheck/internal/platform/metrics"
	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	"regcheck/pkg/email"
	"regcheck/pkg/platform/tx"
	"regcheck/pkg/requestcontext"
)

// StaleStore is the read side the sweep needs.
type StaleStore interface {
	FindStaleSince(ctx context.Context, cutoff time.Time, excluded []id.JurisdictionCode) ([]models.JurisdictionStaleness, error)
	LastTerminalByJurisdiction(ctx context.Context, excluded []id.JurisdictionCode) (map[id.JurisdictionCode]time.Time, error)
}

// Mailer delivers the digest.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// Row is one jurisdiction in a report.
type Row struct {
	JurisdictionCode id.JurisdictionCode
	StaleCount       int
	OldestPendingAt  time.Time
	LastResponseAt   *time.Time
}

// Report is the outcome of one sweep. Rows are ordered by stale count, largest first.
type Report struct {
	GeneratedAt time.Time
	Cutoff      time.Time
	Threshold   time.Duration
	Rows        []Row
}

// TotalStale sums the stale counts of every row.
func (r Report) TotalStale() int {
	total := 0
	for _, row := range r.Rows {
		total += row.StaleCount
	}
	return total
}

type Sweeper struct {
	store      StaleStore
	runner     tx.Runner
	threshold  time.Duration
	excluded   []id.JurisdictionCode
	mailer     Mailer
	sender     string
	recipients []string
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Sweeper) { s.tracer = tracer }
}

// WithExcluded omits jurisdictions from every report.
func WithExcluded(codes []id.JurisdictionCode) Option {
	return func(s *Sweeper) { s.excluded = codes }
}

// WithDigest emails each non-empty report from sender to recipients.
func WithDigest(mailer Mailer, sender string, recipients []string) Option {
	return func(s *Sweeper) {
		s.mailer = mailer
		s.sender = sender
		s.recipients = recipients
	}
}

func NewSweeper(store StaleStore, runner tx.Runner, threshold time.Duration, opts ...Option) (*Sweeper, error) {
	if store == nil {
		return nil, fmt.Errorf("stale store is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("stale threshold must be positive")
	}
	s := &Sweeper{
		store:     store,
		runner:    runner,
		threshold: threshold,
		logger:    slog.Default(),
		tracer:    otel.Tracer("regcheck/monitoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mailer != nil && len(s.recipients) == 0 {
		return nil, fmt.Errorf("digest recipients are required when email is enabled")
	}
	return s, nil
}

// Run performs one sweep and sends the digest when enabled and anything is stale.
func (s *Sweeper) Run(ctx context.Context) (report Report, err error) {
	ctx, span := s.tracer.Start(ctx, "monitoring.Sweep")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sweep failed")
		}
		span.End()
	}()

	now := requestcontext.Now(ctx)
	report = Report{GeneratedAt: now, Cutoff: now.Add(-s.threshold), Threshold: s.threshold}

	var (
		stale []models.JurisdictionStaleness
		last  map[id.JurisdictionCode]time.Time
	)
	err = s.runner.ReadOnly(ctx, func(ctx context.Context) error {
		var qErr error
		if stale, qErr = s.store.FindStaleSince(ctx, report.Cutoff, s.excluded); qErr != nil {
			return fmt.Errorf("find stale checks: %w", qErr)
		}
		if last, qErr = s.store.LastTerminalByJurisdiction(ctx, s.excluded); qErr != nil {
			return fmt.Errorf("find last responses: %w", qErr)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	gauge := make(map[string]int, len(stale))
	for _, st := range stale {
		row := Row{JurisdictionCode: st.JurisdictionCode, StaleCount: st.StaleCount, OldestPendingAt: st.OldestPendingAt}
		if t, ok := last[st.JurisdictionCode]; ok {
			row.LastResponseAt = &t
		}
		report.Rows = append(report.Rows, row)
		gauge[string(st.JurisdictionCode)] = st.StaleCount

		s.logger.WarnContext(ctx, "stale pending register checks",
			"jurisdiction_code", row.JurisdictionCode,
			"stale_count", row.StaleCount,
			"oldest_pending_at", row.OldestPendingAt.UTC().Format(time.RFC3339),
			"last_response_at", formatLast(row.LastResponseAt),
		)
	}
	s.metrics.SetStalePending(gauge)
	span.SetAttributes(
		attribute.Int("jurisdictions", len(report.Rows)),
		attribute.Int("stale_total", report.TotalStale()),
	)
	s.logger.InfoContext(ctx, "pending register check sweep complete",
		"jurisdictions", len(report.Rows),
		"stale_total", report.TotalStale(),
		"threshold", s.threshold.String(),
	)

	if s.mailer == nil || len(report.Rows) == 0 {
		return report, nil
	}
	msg, err := RenderDigest(report)
	if err != nil {
		return report, err
	}
	msg.From = s.sender
	msg.To = s.recipients
	if err := s.mailer.Send(ctx, msg); err != nil {
		return report, fmt.Errorf("send digest: %w", err)
	}
	s.logger.InfoContext(ctx, "stale check digest sent", "recipients", len(s.recipients))
	return report, nil
}
