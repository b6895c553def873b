package identity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"regcheck/internal/platform/metrics"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
)

type stubDirectory struct {
	calls   atomic.Int32
	answers map[string]id.AuthorityID
	gate    chan struct{}
}

func (d *stubDirectory) Lookup(_ context.Context, credential string) (id.AuthorityID, error) {
	d.calls.Add(1)
	if d.gate != nil {
		<-d.gate
	}
	if a, ok := d.answers[credential]; ok {
		return a, nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "no authority for credential")
}

type CacheSuite struct {
	suite.Suite
	directory *stubDirectory
	metrics   *metrics.Metrics
	now       time.Time
	cache     *Cache
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.directory = &stubDirectory{answers: map[string]id.AuthorityID{"serial-1": "auth-1"}}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.cache = NewCache(s.directory, 5*time.Minute,
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *CacheSuite) TestHitWithinTTL() {
	ctx := context.Background()

	first, err := s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)
	second, err := s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)

	s.Equal(id.AuthorityID("auth-1"), first)
	s.Equal(first, second)
	s.Equal(int32(1), s.directory.calls.Load())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IdentityCacheLookups.WithLabelValues("hit")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IdentityCacheLookups.WithLabelValues("miss")))
}

func (s *CacheSuite) TestExpiryReloads() {
	ctx := context.Background()
	_, err := s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)

	s.now = s.now.Add(5 * time.Minute)
	_, err = s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)
	s.Equal(int32(2), s.directory.calls.Load())
}

func (s *CacheSuite) TestFailuresAreNotCached() {
	ctx := context.Background()
	_, err := s.cache.ResolveAuthority(ctx, "serial-2")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.directory.answers["serial-2"] = "auth-2"
	got, err := s.cache.ResolveAuthority(ctx, "serial-2")
	s.Require().NoError(err)
	s.Equal(id.AuthorityID("auth-2"), got)
}

func (s *CacheSuite) TestInvalidate() {
	ctx := context.Background()
	_, err := s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)
	s.cache.Invalidate("serial-1")
	_, err = s.cache.ResolveAuthority(ctx, "serial-1")
	s.Require().NoError(err)
	s.Equal(int32(2), s.directory.calls.Load())
}

func (s *CacheSuite) TestConcurrentMissesShareOneCall() {
	s.directory.gate = make(chan struct{})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]id.AuthorityID, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.cache.ResolveAuthority(ctx, "serial-1")
		}(i)
	}
	s.Eventually(func() bool { return s.directory.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(s.directory.gate)
	wg.Wait()

	for _, r := range results {
		s.Equal(id.AuthorityID("auth-1"), r)
	}
	s.LessOrEqual(s.directory.calls.Load(), int32(2))
}
