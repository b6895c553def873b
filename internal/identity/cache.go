package identity

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"regcheck/internal/platform/metrics"
	id "regcheck/pkg/domain"
	"regcheck/pkg/platform/cache"
	"regcheck/pkg/requestcontext"
)

// Directory is the uncached credential lookup.
type Directory interface {
	Lookup(ctx context.Context, credential string) (id.AuthorityID, error)
}

// Cache fronts a Directory with a per-credential TTL. Concurrent misses for
// the same credential share one directory call. Failures are not cached.
type Cache struct {
	directory Directory
	entries   *cache.TTL[string, id.AuthorityID]
	group     singleflight.Group
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cacheOpts []cache.Option
}

type Option func(*Cache)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock overrides the expiry clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.cacheOpts = append(c.cacheOpts, cache.WithClock(now)) }
}

func NewCache(directory Directory, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{directory: directory, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = cache.NewTTL[string, id.AuthorityID](ttl, c.cacheOpts...)
	return c
}

// ResolveAuthority returns the authority for credential, calling the
// directory only when no live entry exists.
func (c *Cache) ResolveAuthority(ctx context.Context, credential string) (id.AuthorityID, error) {
	if authority, ok := c.entries.Get(credential); ok {
		c.metrics.IncIdentityCacheHit()
		return authority, nil
	}
	c.metrics.IncIdentityCacheMiss()

	v, err, shared := c.group.Do(credential, func() (any, error) {
		authority, err := c.directory.Lookup(context.WithoutCancel(ctx), credential)
		if err != nil {
			return "", err
		}
		c.entries.Set(credential, authority)
		return authority, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "identity lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return "", err
	}
	if shared {
		c.logger.DebugContext(ctx, "identity lookup shared with concurrent caller",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return v.(id.AuthorityID), nil
}

// Invalidate drops the cached entry for credential.
func (c *Cache) Invalidate(credential string) {
	c.entries.Delete(credential)
}
