package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"regcheck/internal/platform/config"
)

// Client wraps the go-redis client with health checking.
type Client struct {
	*redis.Client
}

// New creates a Redis client from cfg. It returns nil, nil when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks the connection.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
