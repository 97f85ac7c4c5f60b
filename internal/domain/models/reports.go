package models

import "time"

// SentimentReport is the full multi-source sentiment result for one symbol.
type SentimentReport struct {
	Symbol      string         `json:"symbol"`
	Consensus   Consensus      `json:"consensus"`
	Signals     []SourceSignal `json:"signals"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// MetricsReport bundles raw ratios with the derived report card.
type MetricsReport struct {
	Symbol     string          `json:"symbol"`
	Ratios     FinancialRatios `json:"ratios"`
	ReportCard ReportCard      `json:"report_card"`
}

// RecommendationReport carries the per-horizon recommendations plus the
// inputs they were derived from.
type RecommendationReport struct {
	Symbol          string                       `json:"symbol"`
	ConsensusScore  float64                      `json:"consensus_score"`
	GradeScore      float64                      `json:"grade_score"`
	Recommendations map[Timeframe]Recommendation `json:"recommendations"`
}

// StockDetails is the aggregate single-symbol view.
type StockDetails struct {
	Symbol          string                       `json:"symbol"`
	Quote           Quote                        `json:"quote"`
	Profile         CompanyProfile               `json:"profile"`
	Sentiment       *SentimentReport             `json:"sentiment,omitempty"`
	ReportCard      *ReportCard                  `json:"report_card,omitempty"`
	Scenarios       map[Timeframe]ScenarioSet    `json:"scenarios,omitempty"`
	Recommendations map[Timeframe]Recommendation `json:"recommendations,omitempty"`
	News            []*NewsArticle               `json:"news"`
	Earnings        []EarningsSurprise           `json:"earnings,omitempty"`
}

// DashboardEntry is one watchlist row.
type DashboardEntry struct {
	Symbol    string         `json:"symbol"`
	Quote     *Quote         `json:"quote,omitempty"`
	Sentiment SentimentLabel `json:"sentiment,omitempty"`
	Score     float64        `json:"score,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// Dashboard is the watchlist overview.
type Dashboard struct {
	Entries      []DashboardEntry `json:"entries"`
	News         []*NewsArticle   `json:"news"`
	MarketStatus string           `json:"market_status"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
