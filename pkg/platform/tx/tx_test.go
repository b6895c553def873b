package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeDefaultsToReadWrite(t *testing.T) {
	assert.Equal(t, ReadWrite, ModeFrom(context.Background()))
}

func TestPassthroughDeclaresIntent(t *testing.T) {
	var r Runner = Passthrough{}

	var seen Mode
	require.NoError(t, r.ReadOnly(context.Background(), func(ctx context.Context) error {
		seen = ModeFrom(ctx)
		return nil
	}))
	assert.Equal(t, ReadOnly, seen)

	require.NoError(t, r.ReadWrite(context.Background(), func(ctx context.Context) error {
		seen = ModeFrom(ctx)
		return nil
	}))
	assert.Equal(t, ReadWrite, seen)
}

func TestWithTxIgnoresNil(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}
