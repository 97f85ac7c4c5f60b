package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

type stubPublisher struct {
	published []*models.AnalysisSnapshot
	err       error
	closed    bool
}

func (s *stubPublisher) Publish(_ context.Context, snap *models.AnalysisSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, snap)
	return nil
}

func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

type stubHistory struct {
	stored []*models.AnalysisSnapshot
	err    error
}

func (s *stubHistory) Init(context.Context) error { return nil }

func (s *stubHistory) Store(_ context.Context, snap *models.AnalysisSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, snap)
	return nil
}

func (s *stubHistory) Query(context.Context, string, time.Time, time.Time, int) ([]*models.AnalysisSnapshot, error) {
	return s.stored, nil
}

func (s *stubHistory) Health(context.Context) error { return nil }
func (s *stubHistory) Close() error                 { return nil }

func snap(symbol string) *models.AnalysisSnapshot {
	return &models.AnalysisSnapshot{
		Symbol: symbol, Timestamp: time.Now(),
		Sentiment: models.SentimentPositive, Score: 72,
	}
}

func TestProcessorRoutesToKafka(t *testing.T) {
	pub := &stubPublisher{}
	p := NewSnapshotProcessor(pub, nil, noopMetrics{}, "kafka")

	require.NoError(t, p.Process(context.Background(), snap("AAPL")))
	require.Len(t, pub.published, 1)
	assert.Equal(t, "AAPL", pub.published[0].Symbol)
}

func TestProcessorRoutesToClickHouse(t *testing.T) {
	store := &stubHistory{}
	p := NewSnapshotProcessor(nil, store, noopMetrics{}, "clickhouse")

	require.NoError(t, p.Process(context.Background(), snap("MSFT")))
	require.Len(t, store.stored, 1)
}

func TestProcessorNoneBackendDiscards(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubHistory{}
	p := NewSnapshotProcessor(pub, store, noopMetrics{}, "none")

	require.NoError(t, p.Process(context.Background(), snap("NVDA")))
	assert.Empty(t, pub.published)
	assert.Empty(t, store.stored)
}

func TestProcessorPropagatesBackendError(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker unreachable")}
	p := NewSnapshotProcessor(pub, nil, noopMetrics{}, "kafka")

	assert.Error(t, p.Process(context.Background(), snap("AAPL")))
	assert.Error(t, p.Process(context.Background(), nil))
}

func TestProcessorCloseClosesPublisher(t *testing.T) {
	pub := &stubPublisher{}
	p := NewSnapshotProcessor(pub, nil, noopMetrics{}, "kafka")

	require.NoError(t, p.Close())
	assert.True(t, pub.closed)
}
