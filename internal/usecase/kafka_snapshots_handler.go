package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaSnapshotsHandler consumes analysis snapshots from Kafka and
// writes them to the history store.
type KafkaSnapshotsHandler struct {
	topic   string
	store   domrepo.HistoryStore
	metrics domrepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, store domrepo.HistoryStore, metrics domrepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var s models.AnalysisSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		h.metrics.RecordSourceError("consumer_unmarshal")
		return err
	}

	// E2E latency from analysis time to persistence (approx)
	h.metrics.RecordLatency("snapshot_e2e_seconds", time.Since(s.Timestamp).Seconds())

	start := time.Now()
	err := h.store.Store(ctx, &s)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordSourceError("consumer_store")
		return err
	}

	h.metrics.RecordSnapshotSent("clickhouse", s.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
