package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	dsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/handler/api"
	mid "StockPulse/internal/middleware"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/alpaca"
	"StockPulse/internal/service/alphavantage"
	"StockPulse/internal/service/finnhub"
	"StockPulse/internal/service/sentiment"
	"StockPulse/internal/service/twitter"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	pkgkafka "StockPulse/pkg/kafka"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the cache stack: layered memory+Redis when Redis is
// configured, in-memory only otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize)), nil
}

// ProvideClickHouseClient creates a ClickHouse client when a persistence
// backend needs one. Returns nil for the "none" backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type == "none" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideHistoryStore creates the snapshot history repository.
func ProvideHistoryStore(chClient *pkgch.Client, cfg *config.Config) (repository.HistoryStore, error) {
	if chClient == nil {
		return nil, nil
	}

	store := internalrepo.NewClickHouseHistory(chClient.DB(), cfg.ClickHouse.Database+".analysis_snapshots")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("history store init: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer for the kafka backend.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSnapshotPublisher wraps the producer into the domain publisher.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates the snapshot consumer for the kafka backend.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideSnapshotsHandler handles snapshots consumed from Kafka.
func ProvideSnapshotsHandler(store repository.HistoryStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaSnapshotsHandler {
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideSnapshotProcessor routes completed analyses to the backend.
func ProvideSnapshotProcessor(
	pub repository.Publisher,
	store repository.HistoryStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideNewsStream creates the Alpaca news WebSocket stream when enabled.
func ProvideNewsStream(cfg *config.Config) repository.NewsStream {
	if !cfg.Alpaca.Enabled {
		return nil
	}
	return alpaca.New(
		cfg.Alpaca.KeyID,
		cfg.Alpaca.SecretKey,
		cfg.Alpaca.StreamURL,
		cfg.Alpaca.Symbols,
		cfg.Alpaca.ReconnectDelay,
		cfg.Alpaca.PingInterval,
		cfg.Alpaca.BufferSize,
	)
}

// ProvideNewsBuffer creates the in-memory streamed news store.
func ProvideNewsBuffer() *usecase.NewsBuffer {
	return usecase.NewNewsBuffer(0)
}

// ProvideNewsCollector connects the stream to the buffer through the
// validation pipeline. Nil when the stream is disabled.
func ProvideNewsCollector(
	stream repository.NewsStream,
	buffer *usecase.NewsBuffer,
	m repository.Metrics,
) *usecase.NewsCollector {
	if stream == nil {
		return nil
	}
	pipe := mid.NewNewsPipeline(buffer, m)
	return usecase.NewNewsCollector(stream, pipe, m)
}

// ProvideFinnhubClient creates the primary market data client.
func ProvideFinnhubClient(cfg *config.Config, m repository.Metrics) *finnhub.Client {
	client := finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.Timeout,
		int(cfg.Finnhub.RatePerMinute),
	)
	client.SetMetrics(m)
	return client
}

// ProvideAlphaVantageClient creates the secondary market data client.
func ProvideAlphaVantageClient(cfg *config.Config, cacheSvc cache.Service, m repository.Metrics) *alphavantage.Client {
	client := alphavantage.New(
		cfg.AlphaVantage.APIKey,
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.Timeout,
		cfg.AlphaVantage.CacheTTL,
		cacheSvc,
	)
	client.SetMetrics(m)
	return client
}

// ProvideClassifier creates the sentiment classifier sidecar client.
func ProvideClassifier(cfg *config.Config) *sentiment.Classifier {
	return sentiment.New(cfg.Sentiment.ServiceURL, cfg.Sentiment.Timeout)
}

// ProvideSocialFeed creates the Twitter client when enabled.
func ProvideSocialFeed(cfg *config.Config, m repository.Metrics) dsvc.SocialFeed {
	if !cfg.Twitter.Enabled {
		return nil
	}
	client := twitter.New(cfg.Twitter.BearerToken, cfg.Twitter.BaseURL, cfg.Twitter.Timeout)
	client.SetMetrics(m)
	return client
}

// ProvideAnalyzer assembles the central use case.
func ProvideAnalyzer(
	cfg *config.Config,
	fh *finnhub.Client,
	av *alphavantage.Client,
	classifier *sentiment.Classifier,
	social dsvc.SocialFeed,
	buffer *usecase.NewsBuffer,
	processor *usecase.SnapshotProcessor,
	history repository.HistoryStore,
	cacheSvc cache.Service,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.StockAnalyzer {
	providers := usecase.Providers{
		Quote:         fh,
		QuoteFallback: av,
		Profile:       fh,
		News:          fh,
		Fundamentals:  fh,
		Insider:       fh,
		Earnings:      fh,
		NewsSentiment: av,
		Classifier:    classifier,
		Social:        social,
		Searcher:      fh,
		Calendar:      fh,
	}
	return usecase.NewStockAnalyzer(
		usecase.AnalyzerConfig{
			Watchlist:         cfg.Analysis.Watchlist,
			NewsWindowDays:    cfg.Analysis.NewsWindowDays,
			InsiderWindowDays: cfg.Analysis.InsiderWindowDays,
			SourceTimeout:     cfg.Analysis.SourceTimeout,
			CacheTTL:          cfg.Analysis.CacheTTL,
		},
		providers,
		buffer,
		processor,
		history,
		cacheSvc,
		m,
		log,
	)
}

// ProvideHandler creates the HTTP handler with dependency health probes.
func ProvideHandler(
	log *logger.Logger,
	analyzer *usecase.StockAnalyzer,
	classifier *sentiment.Classifier,
	history repository.HistoryStore,
) *api.StocksHandler {
	h := api.NewStocksHandler(log, analyzer)
	h.AddHealthCheck("classifier", classifier.Health)
	if history != nil {
		h.AddHealthCheck("clickhouse", history.Health)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler *api.StocksHandler,
	collector *usecase.NewsCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	processor *usecase.SnapshotProcessor,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, log, handler, collector, consumer, kh, processor, producer, chClient, cacheSvc)
}
