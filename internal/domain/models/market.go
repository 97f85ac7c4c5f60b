package models

import "time"

// Quote is a real-time price quote.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prev_close"`
	Timestamp     int64   `json:"t"`
}

// CompanyProfile is basic company information.
type CompanyProfile struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
	Currency  string  `json:"currency"`
	WebURL    string  `json:"web_url,omitempty"`
	Logo      string  `json:"logo,omitempty"`
}

// NewsArticle is a single news item from any provider.
type NewsArticle struct {
	ID        string    `json:"id,omitempty"`
	Symbol    string    `json:"symbol"`
	Headline  string    `json:"headline"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"datetime"`
}

// FinancialRatios bundles the raw fundamentals fed into the grading engine.
// Pointers distinguish "missing from provider" from a genuine zero.
type FinancialRatios struct {
	PERatio       *float64 `json:"pe_ratio"`
	EPS           *float64 `json:"eps"`
	EPSGrowth     *float64 `json:"eps_growth"`
	RevenueGrowth *float64 `json:"revenue_growth"`
	ProfitMargin  *float64 `json:"profit_margin"`
	ROE           *float64 `json:"roe"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
	MarketCap     *float64 `json:"market_cap"`
	High52W       *float64 `json:"52w_high"`
	Low52W        *float64 `json:"52w_low"`
}

// InsiderSentiment is the aggregated monthly share purchase ratio signal.
type InsiderSentiment struct {
	Symbol         string  `json:"symbol"`
	MSPR           float64 `json:"mspr"`
	NetShareChange float64 `json:"net_shares_change"`
	Months         int     `json:"months_analyzed"`
}

// EarningsSurprise is one reported quarter vs estimate.
type EarningsSurprise struct {
	Symbol   string  `json:"symbol"`
	Period   string  `json:"period"`
	Estimate float64 `json:"estimate"`
	Actual   float64 `json:"actual"`
	Surprise float64 `json:"surprise"`
}

// SymbolMatch is a ticker lookup result.
type SymbolMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
}

// EarningsEvent is an upcoming earnings calendar entry.
type EarningsEvent struct {
	Symbol      string  `json:"symbol"`
	Date        string  `json:"date"`
	Hour        string  `json:"hour,omitempty"`
	EPSEstimate float64 `json:"eps_estimate"`
	EPSActual   float64 `json:"eps_actual,omitempty"`
	Quarter     int     `json:"quarter,omitempty"`
	Year        int     `json:"year,omitempty"`
}

// Tweet is a social post mentioning a symbol.
type Tweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	Retweets  int       `json:"retweets"`
}

// ClassifiedBatch is the output of a sentiment classification run over a
// batch of texts. Ratios sum to 1 over the classified items.
type ClassifiedBatch struct {
	PositiveRatio float64        `json:"positive_ratio"`
	NegativeRatio float64        `json:"negative_ratio"`
	NeutralRatio  float64        `json:"neutral_ratio"`
	Dominant      SentimentLabel `json:"overall_sentiment"`
	Confidence    float64        `json:"confidence"`
	Analyzed      int            `json:"analyzed"`
}
