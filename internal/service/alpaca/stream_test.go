package alpaca

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsUnsetIntervals(t *testing.T) {
	s := New("key", "secret", "wss://example.test/news", nil, 0, 0, 0).(*Stream)

	assert.Equal(t, 30*time.Second, s.pingInterval)
	assert.Equal(t, 5*time.Second, s.reconnectDelay)
	assert.Equal(t, 256, s.bufferSize)
}

func TestNewKeepsConfiguredIntervals(t *testing.T) {
	s := New("key", "secret", "wss://example.test/news", nil, 2*time.Second, 10*time.Second, 64).(*Stream)

	assert.Equal(t, 10*time.Second, s.pingInterval)
	assert.Equal(t, 2*time.Second, s.reconnectDelay)
	assert.Equal(t, 64, s.bufferSize)
}

func TestReadWithoutConnectionEndsSession(t *testing.T) {
	s := New("key", "secret", "wss://example.test/news", nil, 0, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	articles, errs := s.Read(ctx)

	select {
	case err := <-errs:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected an error from an unconnected stream")
	}

	select {
	case _, ok := <-articles:
		assert.False(t, ok, "article channel should be closed once the session ends")
	case <-time.After(time.Second):
		t.Fatal("expected the article channel to close")
	}
}

func TestSubscribeRequiresConnection(t *testing.T) {
	s := New("key", "secret", "wss://example.test/news", []string{"AAPL"}, 0, 0, 0)

	assert.Error(t, s.Subscribe(context.Background()))
	assert.False(t, s.IsConnected())
}
