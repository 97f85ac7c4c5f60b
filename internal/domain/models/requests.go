package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type SentimentRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type ScenariosRequest struct {
	Symbol    string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1M" validate:"oneof=1W 1M 3M 6M 1Y"`
}

type MetricsRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type RecommendationsRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type StockRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type CalendarRequest struct {
	From string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=1,max=12"`
}

type RecentNewsRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type HistoryRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
