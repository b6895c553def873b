package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"regcheck/internal/platform/metrics"
	"regcheck/pkg/requestcontext"
)

// LeaseRunner runs fn only when the named cluster lease is acquired.
type LeaseRunner interface {
	Run(ctx context.Context, name string, fn func(ctx context.Context) error) (bool, error)
}

// Scheduler fires jobs on cron schedules. Each occurrence first takes the
// job's lease, so across instances at most one runs it; the others skip it
// without catching up later.
type Scheduler struct {
	cron    *cron.Cron
	leases  LeaseRunner
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
	ctx     context.Context
}

type SchedulerOption func(*Scheduler)

func WithSchedulerMetrics(m *metrics.Metrics) SchedulerOption {
	return func(s *Scheduler) { s.metrics = m }
}

func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(leases LeaseRunner, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		cron:   cron.New(),
		leases: leases,
		logger: logger,
		now:    time.Now,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers fn under a standard five-field cron spec. The lease name
// identifies the job across instances.
func (s *Scheduler) Add(spec, leaseName string, fn func(ctx context.Context) error) error {
	if _, err := s.cron.AddFunc(spec, func() { s.Trigger(s.ctx, leaseName, fn) }); err != nil {
		return fmt.Errorf("schedule %s: %w", leaseName, err)
	}
	return nil
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// Trigger runs one occurrence of a job now. Failures are logged and counted,
// never returned; the next occurrence is the retry.
func (s *Scheduler) Trigger(ctx context.Context, leaseName string, fn func(ctx context.Context) error) {
	ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
	ctx = requestcontext.WithTime(ctx, s.now())

	ran, err := s.leases.Run(ctx, leaseName, fn)
	switch {
	case err != nil:
		s.metrics.IncScheduledRun(leaseName, "failed")
		s.logger.ErrorContext(ctx, "scheduled job failed",
			"request_id", requestcontext.RequestID(ctx),
			"job", leaseName,
			"error", err,
		)
	case !ran:
		s.metrics.IncScheduledRun(leaseName, "skipped")
		s.logger.InfoContext(ctx, "scheduled job skipped, lease held elsewhere",
			"request_id", requestcontext.RequestID(ctx),
			"job", leaseName,
		)
	default:
		s.metrics.IncScheduledRun(leaseName, "ran")
	}
}
