package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// NewsStream is a long-lived real-time news feed (Alpaca WebSocket).
type NewsStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.NewsArticle, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes analysis snapshots to the event bus.
type Publisher interface {
	Publish(ctx context.Context, s *models.AnalysisSnapshot) error
	Close() error
}

// HistoryStore persists analysis snapshots.
type HistoryStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, s *models.AnalysisSnapshot) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.AnalysisSnapshot, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordAnalysis(symbol string)
	RecordSourceError(provider string)
	RecordConsensusScore(symbol string, score float64)
	RecordProviderCall(provider, endpoint string)
	RecordSnapshotSent(backend, symbol string)
	RecordLatency(op string, seconds float64)
}
