package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

type stubQuote struct {
	quote models.Quote
	err   error
	calls int
}

func (s *stubQuote) Quote(_ context.Context, symbol string) (models.Quote, error) {
	s.calls++
	if s.err != nil {
		return models.Quote{}, s.err
	}
	q := s.quote
	q.Symbol = symbol
	return q, nil
}

type stubNews struct {
	articles []models.NewsArticle
	err      error
}

func (s *stubNews) CompanyNews(_ context.Context, _ string, _, _ time.Time) ([]models.NewsArticle, error) {
	return s.articles, s.err
}

type stubClassifier struct {
	batch models.ClassifiedBatch
	err   error
}

func (s *stubClassifier) Classify(_ context.Context, texts []string) (models.ClassifiedBatch, error) {
	if s.err != nil {
		return models.ClassifiedBatch{}, s.err
	}
	b := s.batch
	b.Analyzed = len(texts)
	return b, nil
}

type stubNewsSentiment struct {
	score     float64
	relevance float64
	analyzed  int
	err       error
}

func (s *stubNewsSentiment) NewsSentiment(_ context.Context, _ string, _ int) (float64, float64, int, error) {
	return s.score, s.relevance, s.analyzed, s.err
}

type stubInsider struct {
	ins models.InsiderSentiment
	err error
}

func (s *stubInsider) InsiderSentiment(_ context.Context, _ string, _, _ time.Time) (models.InsiderSentiment, error) {
	return s.ins, s.err
}

type stubFundamentals struct {
	ratios models.FinancialRatios
	err    error
}

func (s *stubFundamentals) BasicFinancials(_ context.Context, _ string) (models.FinancialRatios, error) {
	return s.ratios, s.err
}

type noopMetrics struct{}

func (noopMetrics) RecordAnalysis(string)                {}
func (noopMetrics) RecordSourceError(string)             {}
func (noopMetrics) RecordConsensusScore(string, float64) {}
func (noopMetrics) RecordProviderCall(string, string)    {}
func (noopMetrics) RecordSnapshotSent(string, string)    {}
func (noopMetrics) RecordLatency(string, float64)        {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func fptr(v float64) *float64 { return &v }

func healthyProviders() Providers {
	return Providers{
		Quote: &stubQuote{quote: models.Quote{Price: 100}},
		News: &stubNews{articles: []models.NewsArticle{
			{ID: "1", Symbol: "AAPL", Headline: "Apple beats estimates", Timestamp: time.Now()},
			{ID: "2", Symbol: "AAPL", Headline: "Apple raises guidance", Timestamp: time.Now()},
		}},
		Classifier: &stubClassifier{batch: models.ClassifiedBatch{
			PositiveRatio: 0.8, NegativeRatio: 0.1, NeutralRatio: 0.1,
			Confidence: 0.9, Dominant: models.SentimentPositive,
		}},
		NewsSentiment: &stubNewsSentiment{score: 0.4, relevance: 0.7, analyzed: 25},
		Insider:       &stubInsider{ins: models.InsiderSentiment{MSPR: 30, Months: 3}},
		Fundamentals: &stubFundamentals{ratios: models.FinancialRatios{
			PERatio: fptr(18), EPSGrowth: fptr(12), RevenueGrowth: fptr(10),
			ProfitMargin: fptr(22), ROE: fptr(25), DebtToEquity: fptr(0.4),
			High52W: fptr(120), Low52W: fptr(80),
		}},
	}
}

func newTestAnalyzer(t *testing.T, providers Providers) *StockAnalyzer {
	t.Helper()
	return NewStockAnalyzer(
		AnalyzerConfig{Watchlist: []string{"AAPL", "MSFT"}},
		providers,
		NewNewsBuffer(0),
		nil, nil, nil,
		noopMetrics{},
		testLogger(t),
	)
}

func TestSentimentAllSourcesHealthy(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	report, err := a.Sentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Symbol)
	assert.Len(t, report.Signals, 3)
	assert.Equal(t, 3, report.Consensus.Sources)
	assert.Equal(t, models.SentimentPositive, report.Consensus.Sentiment)
	for _, sig := range report.Signals {
		assert.False(t, sig.Failed(), sig.Provider)
	}
}

func TestSentimentSurvivesOneFailedSource(t *testing.T) {
	providers := healthyProviders()
	providers.NewsSentiment = &stubNewsSentiment{err: errors.New("quota exceeded")}
	a := newTestAnalyzer(t, providers)

	report, err := a.Sentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Consensus.Sources)
	var failed int
	for _, sig := range report.Signals {
		if sig.Failed() {
			failed++
			assert.Equal(t, "alpha_vantage", sig.Provider)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestSentimentAllSourcesFailed(t *testing.T) {
	upstream := errors.New("upstream down")
	a := newTestAnalyzer(t, Providers{
		News:          &stubNews{err: upstream},
		Classifier:    &stubClassifier{},
		NewsSentiment: &stubNewsSentiment{err: upstream},
		Insider:       &stubInsider{err: upstream},
	})

	_, err := a.Sentiment(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestSentimentMergesBufferedStreamArticles(t *testing.T) {
	providers := healthyProviders()
	providers.News = &stubNews{}
	providers.Classifier = &stubClassifier{batch: models.ClassifiedBatch{
		PositiveRatio: 1, Dominant: models.SentimentPositive, Confidence: 1,
	}}

	a := newTestAnalyzer(t, providers)
	require.NoError(t, a.buffer.Ingest(context.Background(), &models.NewsArticle{
		ID: "ws-1", Symbol: "AAPL", Headline: "Streamed headline", Timestamp: time.Now(),
	}))

	report, err := a.Sentiment(context.Background(), "AAPL")
	require.NoError(t, err)

	for _, sig := range report.Signals {
		if sig.Provider == "news_classifier" {
			assert.False(t, sig.Failed())
			assert.Equal(t, 1, sig.SampleSize)
		}
	}
}

func TestQuoteFallback(t *testing.T) {
	primary := &stubQuote{err: errors.New("finnhub down")}
	fallback := &stubQuote{quote: models.Quote{Price: 99.5}}
	providers := healthyProviders()
	providers.Quote = primary
	providers.QuoteFallback = fallback
	a := newTestAnalyzer(t, providers)

	q, err := a.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 99.5, q.Price)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestMetricsReport(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	report, err := a.Metrics(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", report.Symbol)
	assert.NotEmpty(t, report.ReportCard.OverallLetter)
	assert.Greater(t, report.ReportCard.OverallScore, 0.0)
}

func TestScenariosPerTimeframe(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	set, err := a.Scenarios(context.Background(), "AAPL", models.TF1M)
	require.NoError(t, err)
	assert.Equal(t, models.TF1M, set.Timeframe)
	assert.GreaterOrEqual(t, set.Bull.PriceTarget, set.Base.PriceTarget)
	assert.GreaterOrEqual(t, set.Base.PriceTarget, set.Bear.PriceTarget)

	all, err := a.AllScenarios(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRecommendationsCoverAllTimeframes(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	report, err := a.Recommendations(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, report.Recommendations, 5)
	for tf, rec := range report.Recommendations {
		assert.NotEmpty(t, rec.Action, string(tf))
		assert.NotEmpty(t, rec.Reasoning, string(tf))
	}
}

func TestStockDetailsToleratesPartialFailures(t *testing.T) {
	providers := healthyProviders()
	providers.Fundamentals = &stubFundamentals{err: errors.New("metrics endpoint down")}
	a := newTestAnalyzer(t, providers)

	details, err := a.StockDetails(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", details.Symbol)
	assert.NotNil(t, details.Sentiment)
	assert.Nil(t, details.ReportCard)
	assert.Empty(t, details.Scenarios)
}

func TestDashboardReportsPerSymbolErrors(t *testing.T) {
	providers := healthyProviders()
	providers.Quote = &stubQuote{err: errors.New("rate limited")}
	a := newTestAnalyzer(t, providers)

	dash, err := a.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dash.Entries, 2)
	for _, entry := range dash.Entries {
		assert.Nil(t, entry.Quote)
		assert.NotEmpty(t, entry.Err)
		// Sentiment does not depend on the quote provider.
		assert.Equal(t, models.SentimentPositive, entry.Sentiment)
	}
}

func TestMarketStatus(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Wednesday mid-session.
	assert.Equal(t, "open", MarketStatus(time.Date(2025, 6, 11, 12, 0, 0, 0, ny)))
	// Wednesday pre-open and after close.
	assert.Equal(t, "closed", MarketStatus(time.Date(2025, 6, 11, 9, 0, 0, 0, ny)))
	assert.Equal(t, "closed", MarketStatus(time.Date(2025, 6, 11, 16, 0, 0, 0, ny)))
	// Weekend.
	assert.Equal(t, "closed", MarketStatus(time.Date(2025, 6, 14, 12, 0, 0, 0, ny)))
}

func TestHistoryWithoutBackend(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	_, err := a.History(context.Background(), "AAPL", time.Time{}, time.Time{}, 10)
	require.Error(t, err)
}

func TestRecentNewsFallsBackToRest(t *testing.T) {
	a := newTestAnalyzer(t, healthyProviders())

	articles := a.RecentNews(context.Background(), "AAPL", 5)
	require.Len(t, articles, 2)
}
