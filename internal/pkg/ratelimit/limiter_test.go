package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	current := time.Now()
	l := NewMemoryLimiter(10, time.Minute)
	l.now = func() time.Time { return current }

	ctx := context.Background()

	// All 10 requests inside the window succeed.
	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}

	// The 11th is rejected.
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Another client is unaffected.
	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	// After the window lapses the counter resets.
	current = current.Add(61 * time.Second)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiterPrune(t *testing.T) {
	current := time.Now()
	l := NewMemoryLimiter(10, time.Minute)
	l.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	_, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	l.Prune()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}
