package service

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// QuoteProvider returns a real-time price quote.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// ProfileProvider returns basic company information.
type ProfileProvider interface {
	CompanyProfile(ctx context.Context, symbol string) (models.CompanyProfile, error)
}

// NewsProvider returns company news within a date window.
type NewsProvider interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)
}

// FundamentalsProvider returns the raw financial ratios for grading.
type FundamentalsProvider interface {
	BasicFinancials(ctx context.Context, symbol string) (models.FinancialRatios, error)
}

// InsiderProvider returns the aggregated insider trading signal.
type InsiderProvider interface {
	InsiderSentiment(ctx context.Context, symbol string, from, to time.Time) (models.InsiderSentiment, error)
}

// EarningsProvider returns recent earnings surprises.
type EarningsProvider interface {
	EarningsSurprises(ctx context.Context, symbol string) ([]models.EarningsSurprise, error)
}

// NewsSentimentProvider returns a provider-native sentiment score in [-1, 1]
// averaged over recent articles (Alpha Vantage NEWS_SENTIMENT).
type NewsSentimentProvider interface {
	NewsSentiment(ctx context.Context, symbol string, limit int) (score, relevance float64, analyzed int, err error)
}

// SentimentClassifier runs the classification model over a batch of texts.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) (models.ClassifiedBatch, error)
}

// SocialFeed returns recent social posts mentioning a symbol.
type SocialFeed interface {
	RecentPosts(ctx context.Context, symbol string, limit int) ([]models.Tweet, error)
}

// SymbolSearcher looks up tickers by free-text query.
type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// EarningsCalendarProvider returns upcoming earnings events.
type EarningsCalendarProvider interface {
	EarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error)
}
