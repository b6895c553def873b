package monitoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"regcheck/internal/platform/metrics"
	"regcheck/internal/registercheck/models"
	"regcheck/internal/registercheck/store"
	id "regcheck/pkg/domain"
	"regcheck/pkg/email"
	"regcheck/pkg/platform/tx"
	"regcheck/pkg/requestcontext"
)

// =============================================================================
// Stale Sweep Test Suite
// =============================================================================

var sweepNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type SweepSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	mailer  *recordingMailer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func TestSweepSuite(t *testing.T) {
	suite.Run(t, new(SweepSuite))
}

func (s *SweepSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.mailer = &recordingMailer{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *SweepSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), sweepNow)
}

func (s *SweepSuite) seed(code id.JurisdictionCode, ref string, age time.Duration) *models.RegisterCheck {
	createdAt := sweepNow.Add(-age)
	c := &models.RegisterCheck{
		ID:                  id.NewCheckID(),
		CorrelationID:       id.NewCorrelationID(),
		SourceReference:     ref,
		SourceCorrelationID: "src-" + ref,
		SourceType:          models.SourceTypeVoterCard,
		JurisdictionCode:    code,
		Status:              models.StatusPending,
		CreatedBy:           models.SystemCreator,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
	s.Require().NoError(s.store.Create(context.Background(), c))
	return c
}

func (s *SweepSuite) answered(code id.JurisdictionCode, ref string, sentAt time.Time) {
	c := s.seed(code, ref, 72*time.Hour)
	s.Require().NoError(c.ApplyResult(models.StatusNoMatch, 0, sentAt))
	s.Require().NoError(s.store.Save(context.Background(), c))
}

func (s *SweepSuite) sweeper(opts ...Option) *Sweeper {
	opts = append([]Option{WithLogger(s.logger), WithMetrics(s.metrics)}, opts...)
	sw, err := NewSweeper(s.store, tx.Passthrough{}, 24*time.Hour, opts...)
	s.Require().NoError(err)
	return sw
}

func (s *SweepSuite) TestNewSweeper() {
	s.Run("rejects missing dependencies", func() {
		_, err := NewSweeper(nil, tx.Passthrough{}, time.Hour)
		s.Error(err)
		_, err = NewSweeper(s.store, nil, time.Hour)
		s.Error(err)
	})

	s.Run("rejects non-positive threshold", func() {
		_, err := NewSweeper(s.store, tx.Passthrough{}, 0)
		s.Error(err)
	})

	s.Run("digest requires recipients", func() {
		_, err := NewSweeper(s.store, tx.Passthrough{}, time.Hour, WithDigest(s.mailer, "noreply@example.org", nil))
		s.Error(err)
	})
}

func (s *SweepSuite) TestStaleThreshold() {
	s.seed("E09000030", "old", 25*time.Hour)
	s.seed("E09000030", "fresh", 23*time.Hour)
	s.seed("W06000015", "excluded", 48*time.Hour)

	report, err := s.sweeper(WithExcluded([]id.JurisdictionCode{"W06000015"})).Run(s.ctx())
	s.Require().NoError(err)

	s.Require().Len(report.Rows, 1)
	s.Equal(id.JurisdictionCode("E09000030"), report.Rows[0].JurisdictionCode)
	s.Equal(1, report.Rows[0].StaleCount)
	s.Equal(sweepNow.Add(-25*time.Hour), report.Rows[0].OldestPendingAt)
	s.Nil(report.Rows[0].LastResponseAt)
	s.Equal(sweepNow.Add(-24*time.Hour), report.Cutoff)
	s.Equal(1, report.TotalStale())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StalePending.WithLabelValues("E09000030")))
}

func (s *SweepSuite) TestLastResponse() {
	s.seed("E09000030", "old", 30*time.Hour)
	s.answered("E09000030", "done-1", sweepNow.Add(-6*time.Hour))
	s.answered("E09000030", "done-2", sweepNow.Add(-2*time.Hour))

	report, err := s.sweeper().Run(s.ctx())
	s.Require().NoError(err)

	s.Require().Len(report.Rows, 1)
	s.Require().NotNil(report.Rows[0].LastResponseAt)
	s.Equal(sweepNow.Add(-2*time.Hour), *report.Rows[0].LastResponseAt)
}

func (s *SweepSuite) TestDigest() {
	s.Run("sent with rows ordered by stale count", func() {
		s.SetupTest()
		s.seed("E09000030", "a-1", 30*time.Hour)
		s.seed("E07000223", "b-1", 30*time.Hour)
		s.seed("E07000223", "b-2", 40*time.Hour)

		_, err := s.sweeper(WithDigest(s.mailer, "noreply@example.org", []string{"ops@example.org"})).Run(s.ctx())
		s.Require().NoError(err)

		s.Require().Len(s.mailer.sent, 1)
		msg := s.mailer.sent[0]
		s.Equal("noreply@example.org", msg.From)
		s.Equal([]string{"ops@example.org"}, msg.To)
		s.Contains(msg.Subject, "3 stale across 2 jurisdiction(s)")
		s.Less(strings.Index(msg.Text, "E07000223"), strings.Index(msg.Text, "E09000030"))
		s.Contains(msg.Text, "2026-03-08 20:00:00 UTC")
		s.Contains(msg.Text, "never")
		s.Contains(msg.HTML, "<td>E07000223</td>")
	})

	s.Run("not sent when nothing is stale", func() {
		s.SetupTest()
		s.seed("E09000030", "fresh", time.Hour)

		report, err := s.sweeper(WithDigest(s.mailer, "noreply@example.org", []string{"ops@example.org"})).Run(s.ctx())
		s.Require().NoError(err)
		s.Empty(report.Rows)
		s.Empty(s.mailer.sent)
	})

	s.Run("mail failure is returned", func() {
		s.SetupTest()
		s.seed("E09000030", "old", 30*time.Hour)
		s.mailer.err = errors.New("relay down")

		_, err := s.sweeper(WithDigest(s.mailer, "noreply@example.org", []string{"ops@example.org"})).Run(s.ctx())
		s.Require().Error(err)
		s.Contains(err.Error(), "relay down")
	})
}

func (s *SweepSuite) TestRenderDigestFormatsTimes() {
	last := time.Date(2026, time.March, 9, 8, 30, 15, 999_000_000, time.FixedZone("CET", 3600))
	msg, err := RenderDigest(Report{
		GeneratedAt: sweepNow,
		Threshold:   24 * time.Hour,
		Rows: []Row{{
			JurisdictionCode: "E09000030",
			StaleCount:       2,
			OldestPendingAt:  sweepNow.Add(-36 * time.Hour),
			LastResponseAt:   &last,
		}},
	})
	s.Require().NoError(err)
	s.Contains(msg.Text, "2026-03-09 07:30:15 UTC")
	s.Contains(msg.Text, "2026-03-09 00:00:00 UTC")
	s.Contains(msg.Text, "Generated 2026-03-10 12:00:00 UTC.")
}
