//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideHistoryStore,
		ProvideSnapshotPublisher,

		// Source adapters
		ProvideNewsStream,
		ProvideFinnhubClient,
		ProvideAlphaVantageClient,
		ProvideClassifier,
		ProvideSocialFeed,

		// Use cases
		ProvideNewsBuffer,
		ProvideNewsCollector,
		ProvideSnapshotProcessor,
		ProvideSnapshotsHandler,
		ProvideAnalyzer,

		// HTTP
		ProvideHandler,

		// Application
		ProvideApp,
	)
	return nil, nil
}
