package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()

	ctx := context.Background()
	in := cachedQuote{Symbol: "AAPL", Price: 195.5}
	require.NoError(t, mc.Set(ctx, "quote:AAPL", in, time.Minute))

	var out cachedQuote
	require.NoError(t, mc.Get(ctx, "quote:AAPL", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out cachedQuote
	err := mc.Get(context.Background(), "quote:MSFT", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var out string
	assert.ErrorIs(t, mc.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "a", "1", time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", time.Minute))

	// Touch "a" so "b" becomes least recently used.
	var out string
	require.NoError(t, mc.Get(ctx, "a", &out))
	time.Sleep(time.Millisecond)

	require.NoError(t, mc.Set(ctx, "c", "3", time.Minute))

	assert.ErrorIs(t, mc.Get(ctx, "b", &out), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &out))
	assert.NoError(t, mc.Get(ctx, "c", &out))
}

func TestMemoryCacheStringRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, "s", "plain text", time.Minute))

	var out string
	require.NoError(t, mc.Get(ctx, "s", &out))
	assert.Equal(t, "plain text", out)
}

func TestGetOrFill(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	ctx := context.Background()
	calls := 0
	fill := func(ctx context.Context) (cachedQuote, error) {
		calls++
		return cachedQuote{Symbol: "NVDA", Price: 120}, nil
	}

	var out cachedQuote
	require.NoError(t, GetOrFill(ctx, mc, "quote:NVDA", time.Minute, &out, fill))
	require.NoError(t, GetOrFill(ctx, mc, "quote:NVDA", time.Minute, &out, fill))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "NVDA", out.Symbol)
}

func TestKeyBuilder(t *testing.T) {
	assert.Equal(t, "sentiment:AAPL:7", Key("sentiment", "AAPL", 7))
}
