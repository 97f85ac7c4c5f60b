package models

import "time"

// SentimentLabel is the categorical verdict attached to a score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// AgreementLevel buckets cross-source score variance.
type AgreementLevel string

const (
	AgreementStrong   AgreementLevel = "strong"
	AgreementModerate AgreementLevel = "moderate"
	AgreementWeak     AgreementLevel = "weak"
)

// SourceSignal is one provider's sentiment-relevant measurement normalized
// to the common 0-100 scale. Built once per request, never mutated.
type SourceSignal struct {
	Provider   string         `json:"provider"`
	RawValue   float64        `json:"raw_value"`
	Score      float64        `json:"score"`
	Sentiment  SentimentLabel `json:"sentiment"`
	SampleSize int            `json:"sample_size"`
	Err        string         `json:"error,omitempty"`

	// Provider-specific extras carried through to the response.
	PositiveRatio float64 `json:"positive_ratio,omitempty"`
	NegativeRatio float64 `json:"negative_ratio,omitempty"`
	NeutralRatio  float64 `json:"neutral_ratio,omitempty"`
	Relevance     float64 `json:"relevance_score,omitempty"`
	MSPR          float64 `json:"mspr,omitempty"`
	NetChange     float64 `json:"net_shares_change,omitempty"`
}

// Failed reports whether the source errored and must be excluded.
func (s SourceSignal) Failed() bool { return s.Err != "" }

// Consensus is the aggregate verdict over the non-errored signals.
type Consensus struct {
	Sentiment    SentimentLabel `json:"sentiment"`
	Unanimous    bool           `json:"unanimous"`
	AverageScore float64        `json:"average_score"`
	Variance     float64        `json:"variance"`
	Agreement    AgreementLevel `json:"agreement_level"`
	Confidence   float64        `json:"confidence"`
	Sources      int            `json:"sources"`
}

// Timeframe is one of the fixed projection horizons.
type Timeframe string

const (
	TF1W Timeframe = "1W"
	TF1M Timeframe = "1M"
	TF3M Timeframe = "3M"
	TF6M Timeframe = "6M"
	TF1Y Timeframe = "1Y"
)

// Scenario is one probability-weighted price projection.
type Scenario struct {
	PriceTarget       float64  `json:"price_target"`
	Probability       int      `json:"probability"`
	ExpectedReturnPct float64  `json:"expected_return_pct"`
	Factors           []string `json:"factors"`
	Rationale         string   `json:"rationale"`
}

// ScenarioSet is the bull/base/bear triple for one timeframe.
type ScenarioSet struct {
	Timeframe Timeframe `json:"timeframe"`
	Bull      Scenario  `json:"bull_case"`
	Base      Scenario  `json:"base_case"`
	Bear      Scenario  `json:"bear_case"`
}

// Grade is a scored letter grade for one fundamentals category.
type Grade struct {
	Letter      string  `json:"grade"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// ReportCard holds the four category grades plus the overall grade.
type ReportCard struct {
	Valuation       Grade   `json:"valuation"`
	Profitability   Grade   `json:"profitability"`
	Growth          Grade   `json:"growth"`
	FinancialHealth Grade   `json:"financial_health"`
	OverallLetter   string  `json:"overall_grade"`
	OverallScore    float64 `json:"overall_score"`
}

// Recommendation is the per-horizon action derived from consensus, grade
// and the projected base-case return.
type Recommendation struct {
	Action            string  `json:"action"`
	Confidence        float64 `json:"confidence"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
	Reasoning         string  `json:"reasoning"`
}

// AnalysisSnapshot is the persisted record of one completed sentiment
// aggregation. It is what the snapshot processor routes to Kafka or
// ClickHouse.
type AnalysisSnapshot struct {
	Symbol    string            `json:"symbol"`
	Timestamp time.Time         `json:"ts"`
	Sentiment SentimentLabel    `json:"sentiment"`
	Score     float64           `json:"score"`
	Variance  float64           `json:"variance"`
	Agreement AgreementLevel    `json:"agreement_level"`
	Confidence float64          `json:"confidence"`
	Sources   []string          `json:"sources"`
	Errors    map[string]string `json:"errors,omitempty"`
}
