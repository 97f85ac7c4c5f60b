package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	mid "StockPulse/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStream fails its first read session with a connection error and
// serves articles on every session after a reconnect.
type flakyStream struct {
	mu         sync.Mutex
	sessions   int
	reconnects int
	connected  bool
	afterDrop  []*models.NewsArticle
}

func (f *flakyStream) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *flakyStream) Subscribe(_ context.Context) error { return nil }

func (f *flakyStream) Read(_ context.Context) (<-chan *models.NewsArticle, <-chan error) {
	f.mu.Lock()
	f.sessions++
	session := f.sessions
	f.mu.Unlock()

	articles := make(chan *models.NewsArticle, 16)
	errs := make(chan error, 1)

	if session == 1 {
		errs <- fmt.Errorf("read: connection reset by peer")
		close(errs)
		close(articles)
		return articles, errs
	}

	for _, a := range f.afterDrop {
		articles <- a
	}
	// leave channels open so the session stays live
	return articles, errs
}

func (f *flakyStream) Reconnect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	f.connected = true
	return nil
}

func (f *flakyStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *flakyStream) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *flakyStream) stats() (sessions, reconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions, f.reconnects
}

func streamArticle(id, symbol string) *models.NewsArticle {
	return &models.NewsArticle{
		ID:        id,
		Symbol:    symbol,
		Headline:  "headline " + id,
		Source:    "wire",
		Timestamp: time.Now(),
	}
}

func TestCollectorResumesReadingAfterReconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &flakyStream{
		afterDrop: []*models.NewsArticle{
			streamArticle("n1", "AAPL"),
			streamArticle("n2", "MSFT"),
		},
	}
	buffer := NewNewsBuffer(0)
	pipe := mid.NewNewsPipeline(buffer, noopMetrics{})
	collector := NewNewsCollector(stream, pipe, noopMetrics{})

	require.NoError(t, collector.Start(ctx))

	assert.Eventually(t, func() bool {
		return len(buffer.Recent("AAPL", 10)) == 1 && len(buffer.Recent("MSFT", 10)) == 1
	}, 2*time.Second, 10*time.Millisecond, "articles from the post-reconnect session should reach the buffer")

	sessions, reconnects := stream.stats()
	assert.GreaterOrEqual(t, reconnects, 1, "failed session should trigger a reconnect")
	assert.GreaterOrEqual(t, sessions, 2, "a fresh read session should follow the reconnect")

	require.NoError(t, collector.Shutdown(ctx))
}

func TestCollectorStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stream := &flakyStream{afterDrop: []*models.NewsArticle{streamArticle("n3", "TSLA")}}
	buffer := NewNewsBuffer(0)
	pipe := mid.NewNewsPipeline(buffer, noopMetrics{})
	collector := NewNewsCollector(stream, pipe, noopMetrics{})

	require.NoError(t, collector.Start(ctx))
	assert.Eventually(t, func() bool {
		return len(buffer.Recent("TSLA", 10)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	before, _ := stream.stats()

	// no new sessions should be opened once the context is gone
	time.Sleep(50 * time.Millisecond)
	after, _ := stream.stats()
	assert.Equal(t, before, after)

	require.NoError(t, collector.Shutdown(context.Background()))
}
