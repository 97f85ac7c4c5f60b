package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	dsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/analysis"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

// Signal provider names as they appear in API responses.
const (
	sourceNewsClassifier = "news_classifier"
	sourceAlphaVantage   = "alpha_vantage"
	sourceInsider        = "insider_activity"
)

const quoteCacheTTL = 30 * time.Second

// AnalyzerConfig holds tunables for the analyzer.
type AnalyzerConfig struct {
	Watchlist         []string
	NewsWindowDays    int
	InsiderWindowDays int
	SourceTimeout     time.Duration
	CacheTTL          time.Duration
}

// Providers groups the upstream adapters the analyzer consumes. Any of
// the optional ones may be nil and the analyzer degrades gracefully.
type Providers struct {
	Quote         dsvc.QuoteProvider
	QuoteFallback dsvc.QuoteProvider
	Profile       dsvc.ProfileProvider
	News          dsvc.NewsProvider
	Fundamentals  dsvc.FundamentalsProvider
	Insider       dsvc.InsiderProvider
	Earnings      dsvc.EarningsProvider
	NewsSentiment dsvc.NewsSentimentProvider
	Classifier    dsvc.SentimentClassifier
	Social        dsvc.SocialFeed
	Searcher      dsvc.SymbolSearcher
	Calendar      dsvc.EarningsCalendarProvider
}

// StockAnalyzer orchestrates the source adapters, runs the analysis
// core, and persists snapshots through the processor.
type StockAnalyzer struct {
	cfg       AnalyzerConfig
	providers Providers
	buffer    *NewsBuffer
	processor *SnapshotProcessor
	history   drepo.HistoryStore
	cache     cache.Service
	metrics   drepo.Metrics
	log       *logger.Logger
}

// NewStockAnalyzer creates the analyzer. history may be nil when no
// persistence backend is configured.
func NewStockAnalyzer(
	cfg AnalyzerConfig,
	providers Providers,
	buffer *NewsBuffer,
	processor *SnapshotProcessor,
	history drepo.HistoryStore,
	cacheSvc cache.Service,
	metrics drepo.Metrics,
	log *logger.Logger,
) *StockAnalyzer {
	if cfg.NewsWindowDays <= 0 {
		cfg.NewsWindowDays = 7
	}
	if cfg.InsiderWindowDays <= 0 {
		cfg.InsiderWindowDays = 90
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &StockAnalyzer{
		cfg:       cfg,
		providers: providers,
		buffer:    buffer,
		processor: processor,
		history:   history,
		cache:     cacheSvc,
		metrics:   metrics,
		log:       log,
	}
}

// Watchlist returns the configured symbols.
func (a *StockAnalyzer) Watchlist() []string {
	out := make([]string, len(a.cfg.Watchlist))
	copy(out, a.cfg.Watchlist)
	return out
}

// Sentiment runs the three sentiment sources concurrently, aggregates
// the surviving signals, and persists a snapshot. Failed sources are
// reported in the signal list, not dropped silently.
func (a *StockAnalyzer) Sentiment(ctx context.Context, symbol string) (*models.SentimentReport, error) {
	key := cache.Key("sentiment", symbol)
	if a.cache != nil {
		var cached models.SentimentReport
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	signals := a.collectSignals(ctx, symbol)

	consensus, err := analysis.Aggregate(signals)
	if err != nil {
		return nil, fmt.Errorf("sentiment %s: %w", symbol, err)
	}

	report := &models.SentimentReport{
		Symbol:      symbol,
		Consensus:   consensus,
		Signals:     signals,
		GeneratedAt: time.Now().UTC(),
	}

	a.metrics.RecordAnalysis(symbol)
	a.metrics.RecordConsensusScore(symbol, consensus.AverageScore)

	if a.cache != nil {
		_ = a.cache.Set(ctx, key, report, a.cfg.CacheTTL)
	}

	a.persistSnapshot(report)
	return report, nil
}

func (a *StockAnalyzer) collectSignals(ctx context.Context, symbol string) []models.SourceSignal {
	type slot struct {
		idx int
		sig models.SourceSignal
	}

	results := make(chan slot, 3)
	var wg sync.WaitGroup

	run := func(idx int, fn func(ctx context.Context) models.SourceSignal) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, a.cfg.SourceTimeout)
			defer cancel()
			results <- slot{idx: idx, sig: fn(sctx)}
		}()
	}

	run(0, func(ctx context.Context) models.SourceSignal { return a.newsSignal(ctx, symbol) })
	run(1, func(ctx context.Context) models.SourceSignal { return a.alphaVantageSignal(ctx, symbol) })
	run(2, func(ctx context.Context) models.SourceSignal { return a.insiderSignal(ctx, symbol) })

	wg.Wait()
	close(results)

	signals := make([]models.SourceSignal, 3)
	for r := range results {
		signals[r.idx] = r.sig
	}

	for _, s := range signals {
		if s.Failed() {
			a.metrics.RecordSourceError(s.Provider)
			a.log.Warn("sentiment source failed",
				logger.String("symbol", symbol),
				logger.String("provider", s.Provider),
				logger.String("reason", s.Err),
			)
		}
	}
	return signals
}

// newsSignal fetches the recent news window, merges in streamed
// articles and social posts, and classifies the combined text batch.
func (a *StockAnalyzer) newsSignal(ctx context.Context, symbol string) models.SourceSignal {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -a.cfg.NewsWindowDays)

	articles, err := a.providers.News.CompanyNews(ctx, symbol, cutoff, now)
	if err != nil {
		return analysis.FailedSignal(sourceNewsClassifier, err)
	}

	seen := make(map[string]struct{}, len(articles))
	texts := make([]string, 0, len(articles))
	for _, art := range articles {
		seen[art.ID] = struct{}{}
		texts = append(texts, art.Headline)
	}
	if a.buffer != nil {
		for _, art := range a.buffer.Since(symbol, cutoff) {
			if _, dup := seen[art.ID]; dup {
				continue
			}
			texts = append(texts, art.Headline)
		}
	}

	if a.providers.Social != nil {
		tweets, terr := a.providers.Social.RecentPosts(ctx, symbol, 30)
		if terr != nil {
			a.log.Warn("social feed fetch failed",
				logger.String("symbol", symbol), logger.Error(terr))
		}
		for _, tw := range tweets {
			texts = append(texts, tw.Text)
		}
	}

	if len(texts) == 0 {
		return analysis.FailedSignal(sourceNewsClassifier, fmt.Errorf("no articles in last %d days", a.cfg.NewsWindowDays))
	}

	batch, err := a.providers.Classifier.Classify(ctx, texts)
	if err != nil {
		return analysis.FailedSignal(sourceNewsClassifier, err)
	}
	return analysis.ClassifierSignal(sourceNewsClassifier, batch)
}

func (a *StockAnalyzer) alphaVantageSignal(ctx context.Context, symbol string) models.SourceSignal {
	score, relevance, analyzed, err := a.providers.NewsSentiment.NewsSentiment(ctx, symbol, 50)
	if err != nil {
		return analysis.FailedSignal(sourceAlphaVantage, err)
	}
	return analysis.ScalarSignal(sourceAlphaVantage, score, relevance, analyzed)
}

func (a *StockAnalyzer) insiderSignal(ctx context.Context, symbol string) models.SourceSignal {
	now := time.Now()
	from := now.AddDate(0, 0, -a.cfg.InsiderWindowDays)

	ins, err := a.providers.Insider.InsiderSentiment(ctx, symbol, from, now)
	if err != nil {
		return analysis.FailedSignal(sourceInsider, err)
	}
	return analysis.InsiderSignal(sourceInsider, ins)
}

func (a *StockAnalyzer) persistSnapshot(report *models.SentimentReport) {
	if a.processor == nil {
		return
	}

	snap := &models.AnalysisSnapshot{
		Symbol:     report.Symbol,
		Timestamp:  report.GeneratedAt,
		Sentiment:  report.Consensus.Sentiment,
		Score:      report.Consensus.AverageScore,
		Variance:   report.Consensus.Variance,
		Agreement:  report.Consensus.Agreement,
		Confidence: report.Consensus.Confidence,
	}
	for _, s := range report.Signals {
		if s.Failed() {
			if snap.Errors == nil {
				snap.Errors = make(map[string]string)
			}
			snap.Errors[s.Provider] = s.Err
		} else {
			snap.Sources = append(snap.Sources, s.Provider)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.processor.Process(ctx, snap); err != nil {
			a.log.Error("snapshot persist failed",
				logger.String("symbol", snap.Symbol),
				logger.Error(err),
			)
		}
	}()
}

// Quote returns the current quote, falling back to the secondary
// provider when the primary fails.
func (a *StockAnalyzer) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	key := cache.Key("quote", symbol)
	if a.cache != nil {
		var cached models.Quote
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	q, err := a.providers.Quote.Quote(ctx, symbol)
	if err != nil && a.providers.QuoteFallback != nil {
		a.log.Warn("primary quote failed, using fallback",
			logger.String("symbol", symbol), logger.Error(err))
		q, err = a.providers.QuoteFallback.Quote(ctx, symbol)
	}
	if err != nil {
		return models.Quote{}, err
	}

	if a.cache != nil {
		_ = a.cache.Set(ctx, key, q, quoteCacheTTL)
	}
	return q, nil
}

// Metrics returns the raw ratio bundle and its derived report card.
func (a *StockAnalyzer) Metrics(ctx context.Context, symbol string) (*models.MetricsReport, error) {
	ratios, err := a.fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	card := analysis.GradeRatios(ratios)
	return &models.MetricsReport{
		Symbol:     symbol,
		Ratios:     ratios,
		ReportCard: card,
	}, nil
}

func (a *StockAnalyzer) fundamentals(ctx context.Context, symbol string) (models.FinancialRatios, error) {
	key := cache.Key("ratios", symbol)
	if a.cache != nil {
		var cached models.FinancialRatios
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	ratios, err := a.providers.Fundamentals.BasicFinancials(ctx, symbol)
	if err != nil {
		return models.FinancialRatios{}, fmt.Errorf("fundamentals %s: %w", symbol, err)
	}

	if a.cache != nil {
		_ = a.cache.Set(ctx, key, ratios, a.cfg.CacheTTL)
	}
	return ratios, nil
}

// Scenarios builds the bull/base/bear projection for one timeframe.
func (a *StockAnalyzer) Scenarios(ctx context.Context, symbol string, tf models.Timeframe) (*models.ScenarioSet, error) {
	inputs, err := a.scenarioInputs(ctx, symbol)
	if err != nil {
		return nil, err
	}

	inputs.Timeframe = tf
	set, err := analysis.BuildScenarios(inputs)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// AllScenarios builds projections for every timeframe.
func (a *StockAnalyzer) AllScenarios(ctx context.Context, symbol string) (map[models.Timeframe]models.ScenarioSet, error) {
	inputs, err := a.scenarioInputs(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.buildAllScenarios(inputs)
}

func (a *StockAnalyzer) buildAllScenarios(inputs analysis.ScenarioInputs) (map[models.Timeframe]models.ScenarioSet, error) {
	sets := make(map[models.Timeframe]models.ScenarioSet)
	for _, tf := range analysis.Timeframes() {
		inputs.Timeframe = tf
		set, err := analysis.BuildScenarios(inputs)
		if err != nil {
			return nil, err
		}
		sets[tf] = set
	}
	return sets, nil
}

func (a *StockAnalyzer) scenarioInputs(ctx context.Context, symbol string) (analysis.ScenarioInputs, error) {
	quote, err := a.Quote(ctx, symbol)
	if err != nil {
		return analysis.ScenarioInputs{}, fmt.Errorf("scenario quote %s: %w", symbol, err)
	}

	ratios, err := a.fundamentals(ctx, symbol)
	if err != nil {
		return analysis.ScenarioInputs{}, err
	}

	// Sentiment failing entirely falls back to a neutral 50.
	consensusScore := 50.0
	if report, serr := a.Sentiment(ctx, symbol); serr == nil {
		consensusScore = report.Consensus.AverageScore
	}

	epsGrowth := 0.0
	if ratios.EPSGrowth != nil {
		epsGrowth = *ratios.EPSGrowth
	}

	return analysis.ScenarioInputs{
		CurrentPrice:     quote.Price,
		EPSGrowthPct:     epsGrowth,
		ConsensusScore:   consensusScore,
		VolatilityFactor: analysis.VolatilityFromRange(ratios, quote.Price),
	}, nil
}

// Recommendations derives the per-horizon action set.
func (a *StockAnalyzer) Recommendations(ctx context.Context, symbol string) (*models.RecommendationReport, error) {
	inputs, err := a.scenarioInputs(ctx, symbol)
	if err != nil {
		return nil, err
	}

	sets, err := a.buildAllScenarios(inputs)
	if err != nil {
		return nil, err
	}

	ratios, err := a.fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	card := analysis.GradeRatios(ratios)

	recs := analysis.Recommend(inputs.ConsensusScore, card.OverallScore, sets)
	return &models.RecommendationReport{
		Symbol:          symbol,
		ConsensusScore:  inputs.ConsensusScore,
		GradeScore:      card.OverallScore,
		Recommendations: recs,
	}, nil
}

// StockDetails assembles the aggregate single-symbol view. Sections
// whose providers fail are omitted rather than failing the whole view.
func (a *StockAnalyzer) StockDetails(ctx context.Context, symbol string) (*models.StockDetails, error) {
	quote, err := a.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("stock details %s: %w", symbol, err)
	}

	details := &models.StockDetails{
		Symbol: symbol,
		Quote:  quote,
	}

	if profile, perr := a.providers.Profile.CompanyProfile(ctx, symbol); perr == nil {
		details.Profile = profile
	}

	if report, serr := a.Sentiment(ctx, symbol); serr == nil {
		details.Sentiment = report
	}

	if ratios, ferr := a.fundamentals(ctx, symbol); ferr == nil {
		card := analysis.GradeRatios(ratios)
		details.ReportCard = &card

		epsGrowth := 0.0
		if ratios.EPSGrowth != nil {
			epsGrowth = *ratios.EPSGrowth
		}
		consensusScore := 50.0
		if details.Sentiment != nil {
			consensusScore = details.Sentiment.Consensus.AverageScore
		}
		inputs := analysis.ScenarioInputs{
			CurrentPrice:     quote.Price,
			EPSGrowthPct:     epsGrowth,
			ConsensusScore:   consensusScore,
			VolatilityFactor: analysis.VolatilityFromRange(ratios, quote.Price),
		}
		if sets, serr := a.buildAllScenarios(inputs); serr == nil {
			details.Scenarios = sets
			details.Recommendations = analysis.Recommend(consensusScore, card.OverallScore, sets)
		}
	}

	details.News = a.RecentNews(ctx, symbol, 10)

	if a.providers.Earnings != nil {
		if earnings, eerr := a.providers.Earnings.EarningsSurprises(ctx, symbol); eerr == nil {
			details.Earnings = earnings
		}
	}

	return details, nil
}

// Dashboard builds the watchlist overview concurrently, one row per
// symbol. Individual failures produce error rows, not a failed page.
func (a *StockAnalyzer) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	symbols := a.cfg.Watchlist
	entries := make([]models.DashboardEntry, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			entry := models.DashboardEntry{Symbol: sym}

			if q, err := a.Quote(ctx, sym); err == nil {
				entry.Quote = &q
			} else {
				entry.Err = err.Error()
			}

			if report, err := a.Sentiment(ctx, sym); err == nil {
				entry.Sentiment = report.Consensus.Sentiment
				entry.Score = report.Consensus.AverageScore
			}

			entries[i] = entry
		}(i, sym)
	}
	wg.Wait()

	return &models.Dashboard{
		Entries:      entries,
		News:         a.RecentNews(ctx, "", 10),
		MarketStatus: MarketStatus(time.Now()),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// MarketStatus reports whether US regular trading hours are in session.
func MarketStatus(now time.Time) string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return "unknown"
	}
	et := now.In(loc)

	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return "closed"
	}

	open := time.Date(et.Year(), et.Month(), et.Day(), 9, 30, 0, 0, loc)
	end := time.Date(et.Year(), et.Month(), et.Day(), 16, 0, 0, 0, loc)
	if et.Before(open) || !et.Before(end) {
		return "closed"
	}
	return "open"
}

// Search looks up tickers by free-text query.
func (a *StockAnalyzer) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if a.providers.Searcher == nil {
		return nil, fmt.Errorf("search not configured")
	}
	return a.providers.Searcher.SearchSymbols(ctx, query)
}

// Calendar returns earnings events for the next two weeks by default.
func (a *StockAnalyzer) Calendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	if a.providers.Calendar == nil {
		return nil, fmt.Errorf("calendar not configured")
	}

	if from.IsZero() {
		from = time.Now()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 14)
	}

	key := cache.Key("calendar", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if a.cache != nil {
		var cached []models.EarningsEvent
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	events, err := a.providers.Calendar.EarningsCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		_ = a.cache.Set(ctx, key, events, a.cfg.CacheTTL)
	}
	return events, nil
}

// RecentNews returns streamed articles for a symbol, topped up from the
// REST provider when the stream buffer has too few.
func (a *StockAnalyzer) RecentNews(ctx context.Context, symbol string, limit int) []*models.NewsArticle {
	if limit <= 0 {
		limit = 20
	}

	var out []*models.NewsArticle
	if a.buffer != nil {
		out = a.buffer.Recent(symbol, limit)
	}
	if len(out) >= limit || symbol == "" {
		return out
	}

	now := time.Now()
	rest, err := a.providers.News.CompanyNews(ctx, symbol, now.AddDate(0, 0, -a.cfg.NewsWindowDays), now)
	if err != nil {
		return out
	}

	seen := make(map[string]struct{}, len(out))
	for _, art := range out {
		seen[art.ID] = struct{}{}
	}
	for i := range rest {
		if _, dup := seen[rest[i].ID]; dup {
			continue
		}
		out = append(out, &rest[i])
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// History returns persisted snapshots for a symbol.
func (a *StockAnalyzer) History(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.AnalysisSnapshot, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history backend not configured")
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return a.history.Query(ctx, symbol, from, to, limit)
}
