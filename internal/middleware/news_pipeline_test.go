package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []*models.NewsArticle
	fail bool
}

func (s *recordingSink) Ingest(_ context.Context, a *models.NewsArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.got = append(s.got, a)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

type pipeMetrics struct{}

func (pipeMetrics) RecordAnalysis(string)                {}
func (pipeMetrics) RecordSourceError(string)             {}
func (pipeMetrics) RecordConsensusScore(string, float64) {}
func (pipeMetrics) RecordProviderCall(string, string)    {}
func (pipeMetrics) RecordSnapshotSent(string, string)    {}
func (pipeMetrics) RecordLatency(string, float64)        {}

func article(id, symbol string) *models.NewsArticle {
	return &models.NewsArticle{
		ID: id, Symbol: symbol, Headline: "headline", Timestamp: time.Now(),
	}
}

func TestPipelineRejectsInvalidArticles(t *testing.T) {
	sink := &recordingSink{}
	p := NewNewsPipeline(sink, pipeMetrics{})

	assert.Error(t, p.Process(context.Background(), nil))
	assert.Error(t, p.Process(context.Background(), &models.NewsArticle{Symbol: "AAPL"}))
	assert.Error(t, p.Process(context.Background(), &models.NewsArticle{
		Symbol: "AAPL", Headline: "no timestamp",
	}))
	assert.Equal(t, 0, sink.count())
}

func TestPipelineDeduplicatesByIDAndSymbol(t *testing.T) {
	sink := &recordingSink{}
	p := NewNewsPipeline(sink, pipeMetrics{}, WithMaxRPS(1000))

	require.NoError(t, p.Process(context.Background(), article("1", "AAPL")))
	require.NoError(t, p.Process(context.Background(), article("1", "AAPL")))
	require.NoError(t, p.Process(context.Background(), article("1", "MSFT")))

	assert.Equal(t, 2, sink.count())
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	sink := &recordingSink{}
	p := NewNewsPipeline(sink, pipeMetrics{}, WithMaxRPS(1))

	require.NoError(t, p.Process(context.Background(), article("1", "AAPL")))
	require.NoError(t, p.Process(context.Background(), article("2", "AAPL")))
	// Other symbols keep their own budget.
	require.NoError(t, p.Process(context.Background(), article("3", "MSFT")))

	assert.Equal(t, 2, sink.count())
}

func TestPipelineBuffersOnSinkFailure(t *testing.T) {
	sink := &recordingSink{fail: true}
	p := NewNewsPipeline(sink, pipeMetrics{}, WithMaxRPS(1000), WithBufferSize(10))
	p.Start(context.Background())
	defer p.Stop()

	require.Error(t, p.Process(context.Background(), article("1", "AAPL")))

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	assert.Eventually(t, func() bool { return sink.count() == 1 },
		2*time.Second, 20*time.Millisecond)
}
