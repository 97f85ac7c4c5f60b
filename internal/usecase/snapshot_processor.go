package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
)

// SnapshotProcessor routes completed analysis snapshots to the
// configured persistence backend.
type SnapshotProcessor struct {
	pub     drepo.Publisher
	store   drepo.HistoryStore
	metrics drepo.Metrics
	backend string
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance.
func NewSnapshotProcessor(
	pub drepo.Publisher,
	store drepo.HistoryStore,
	metrics drepo.Metrics,
	backend string,
) *SnapshotProcessor {
	return &SnapshotProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single snapshot to the configured backend. A "none"
// backend discards snapshots without error.
func (p *SnapshotProcessor) Process(ctx context.Context, s *models.AnalysisSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, s)
	case "clickhouse":
		err = p.store.Store(ctx, s)
	case "none":
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordSourceError("snapshot_process")
		return fmt.Errorf("process snapshot: %w", err)
	}

	p.metrics.RecordSnapshotSent(p.backend, s.Symbol)
	p.metrics.RecordLatency("snapshot_process", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() error {
	var firstErr error
	if p.pub != nil {
		if err := p.pub.Close(); err != nil {
			firstErr = err
		}
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
