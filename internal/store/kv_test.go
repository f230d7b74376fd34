package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_GetSetDel(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v1", 0))
	require.NoError(t, kv.Set(ctx, "k", "v2", 0))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	// deleting a missing key is not an error
	assert.NoError(t, kv.Del(ctx, "k"))
}

func TestMemoryKV_TTL(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "draft", "{}", time.Hour))

	now = now.Add(59 * time.Minute)
	_, err := kv.Get(ctx, "draft")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = kv.Get(ctx, "draft")
	assert.ErrorIs(t, err, ErrMiss)
}
