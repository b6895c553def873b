package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regcheck/internal/platform/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url disables redis", func(t *testing.T) {
		c, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := New(ctx, config.RedisConfig{URL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		defer c.Close()

		assert.NoError(t, c.Health(ctx))
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "://nope"})
		assert.Error(t, err)
	})
}
