package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// ClickHouseHistory implements HistoryStore for ClickHouse.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates a ClickHouse-backed history store.
func NewClickHouseHistory(db *sql.DB, table string) repository.HistoryStore {
	if table == "" {
		table = "analysis_snapshots"
	}
	return &ClickHouseHistory{db: db, table: table}
}

// Init creates the snapshots table if needed.
func (s *ClickHouseHistory) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime,
		symbol LowCardinality(String),
		sentiment LowCardinality(String),
		score Float64,
		variance Float64,
		agreement LowCardinality(String),
		confidence Float64,
		sources Array(String),
		errors String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *ClickHouseHistory) Store(ctx context.Context, snap *models.AnalysisSnapshot) error {
	var errsJSON []byte
	if len(snap.Errors) > 0 {
		errsJSON, _ = json.Marshal(snap.Errors)
	}

	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, sentiment, score, variance, agreement, confidence, sources, errors) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		snap.Timestamp,
		snap.Symbol,
		string(snap.Sentiment),
		snap.Score,
		snap.Variance,
		string(snap.Agreement),
		snap.Confidence,
		snap.Sources,
		string(errsJSON),
	)
	return err
}

func (s *ClickHouseHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.AnalysisSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT ts, symbol, sentiment, score, variance, agreement, confidence, sources, errors FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*models.AnalysisSnapshot
	for rows.Next() {
		var snap models.AnalysisSnapshot
		var sentiment, agreement, errsJSON string
		if err := rows.Scan(&snap.Timestamp, &snap.Symbol, &sentiment, &snap.Score, &snap.Variance, &agreement, &snap.Confidence, &snap.Sources, &errsJSON); err != nil {
			return nil, err
		}
		snap.Sentiment = models.SentimentLabel(sentiment)
		snap.Agreement = models.AgreementLevel(agreement)
		if errsJSON != "" {
			_ = json.Unmarshal([]byte(errsJSON), &snap.Errors)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka. Snapshots are keyed
// by symbol so per-symbol ordering is preserved.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, snap *models.AnalysisSnapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(snap.Symbol), snap)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
