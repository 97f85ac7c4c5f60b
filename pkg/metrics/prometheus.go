package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysesTotal  *prometheus.CounterVec
	sourceErrors   *prometheus.CounterVec
	providerCalls  *prometheus.CounterVec
	consensusScore *prometheus.GaugeVec
	snapshotsSent  *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_analyses_total",
				Help: "Total number of completed sentiment analyses",
			},
			[]string{"symbol"},
		),
		sourceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_source_errors_total",
				Help: "Total number of sentiment source failures",
			},
			[]string{"provider"},
		),
		providerCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_provider_calls_total",
				Help: "Total number of upstream provider calls",
			},
			[]string{"provider", "endpoint"},
		),
		consensusScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_consensus_score",
				Help: "Last consensus sentiment score for a symbol",
			},
			[]string{"symbol"},
		),
		snapshotsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_snapshots_sent_total",
				Help: "Total number of analysis snapshots sent to backend",
			},
			[]string{"backend", "symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis records a completed analysis for a symbol.
func (r *Recorder) RecordAnalysis(symbol string) {
	r.analysesTotal.WithLabelValues(symbol).Inc()
}

// RecordSourceError records a failed sentiment source.
func (r *Recorder) RecordSourceError(provider string) {
	r.sourceErrors.WithLabelValues(provider).Inc()
}

// RecordProviderCall records an upstream API call.
func (r *Recorder) RecordProviderCall(provider, endpoint string) {
	r.providerCalls.WithLabelValues(provider, endpoint).Inc()
}

// RecordConsensusScore records the latest consensus score for a symbol.
func (r *Recorder) RecordConsensusScore(symbol string, score float64) {
	r.consensusScore.WithLabelValues(symbol).Set(score)
}

// RecordSnapshotSent records an analysis snapshot sent to a backend.
func (r *Recorder) RecordSnapshotSent(backend, symbol string) {
	r.snapshotsSent.WithLabelValues(backend, symbol).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
