package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/infrastructure/persistence/store"
)

func TestSlidingWindowLimiter(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewSlidingWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok, "third attempt inside the window")

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok, "window slid past the earlier attempts")
}

func TestSlidingWindowLimiter_PruneAndReset(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewSlidingWindowLimiter(1, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	require.NoError(t, l.Reset(ctx, "a"))
	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	l.Prune()
	assert.Empty(t, l.windows)
}

func TestStoreRateLimiter(t *testing.T) {
	kv := store.NewMemoryStore()
	now := time.Unix(1700000000, 0)
	l := NewStoreRateLimiter(kv, "LOGIN", 3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, kv.Len())

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "new window")

	require.NoError(t, l.Reset(ctx, "10.0.0.1"))
	assert.Equal(t, 1, kv.Len())
}
