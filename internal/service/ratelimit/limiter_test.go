package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("finnhub", 3, 0.001), "call %d should pass", i)
	}
	assert.False(t, l.Allow("finnhub", 3, 0.001))
}

func TestAllowRefills(t *testing.T) {
	l := New()

	require.True(t, l.Allow("av", 1, 100))
	require.False(t, l.Allow("av", 1, 100))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.Allow("av", 1, 100))
}

func TestKeysIsolated(t *testing.T) {
	l := New()

	require.True(t, l.Allow("finnhub", 1, 0.001))
	require.False(t, l.Allow("finnhub", 1, 0.001))
	assert.True(t, l.Allow("twitter", 1, 0.001))
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	require.True(t, l.Allow("k", 1, 0.0001))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, "k", 1, 0.0001)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
