package analysis

import (
	"StockPulse/internal/domain/models"
)

// Label thresholds: symmetric 20-point neutral band around 50.
const (
	positiveThreshold = 60.0
	negativeThreshold = 40.0
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScoreFromRatios normalizes a classification batch to 0-100:
// 50 + (positive - negative) * 50, clamped.
func ScoreFromRatios(positive, negative float64) float64 {
	return clamp(50+(positive-negative)*50, 0, 100)
}

// ScoreFromScalar normalizes a provider-native scalar in [-1, 1] to 0-100.
func ScoreFromScalar(v float64) float64 {
	return clamp((v+1)/2*100, 0, 100)
}

// ScoreFromMSPR normalizes the monthly share purchase ratio. MSPR is
// unbounded in practice; it saturates at +/-1 before scaling so the result
// stays in [0, 100].
func ScoreFromMSPR(mspr float64) float64 {
	return 50 + clamp(mspr, -1, 1)*50
}

// LabelForScore buckets a normalized score into a sentiment label.
func LabelForScore(score float64) models.SentimentLabel {
	switch {
	case score >= positiveThreshold:
		return models.SentimentPositive
	case score <= negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ClassifierSignal builds the SourceSignal for a text-classification batch.
func ClassifierSignal(provider string, batch models.ClassifiedBatch) models.SourceSignal {
	score := ScoreFromRatios(batch.PositiveRatio, batch.NegativeRatio)
	return models.SourceSignal{
		Provider:      provider,
		RawValue:      batch.PositiveRatio - batch.NegativeRatio,
		Score:         score,
		Sentiment:     LabelForScore(score),
		SampleSize:    batch.Analyzed,
		PositiveRatio: batch.PositiveRatio,
		NegativeRatio: batch.NegativeRatio,
		NeutralRatio:  batch.NeutralRatio,
	}
}

// ScalarSignal builds the SourceSignal for a provider-native [-1,1] score.
func ScalarSignal(provider string, raw, relevance float64, samples int) models.SourceSignal {
	score := ScoreFromScalar(raw)
	return models.SourceSignal{
		Provider:   provider,
		RawValue:   raw,
		Score:      score,
		Sentiment:  LabelForScore(score),
		SampleSize: samples,
		Relevance:  relevance,
	}
}

// InsiderSignal builds the SourceSignal for the insider trading ratio.
func InsiderSignal(provider string, ins models.InsiderSentiment) models.SourceSignal {
	score := ScoreFromMSPR(ins.MSPR)
	return models.SourceSignal{
		Provider:   provider,
		RawValue:   ins.MSPR,
		Score:      score,
		Sentiment:  LabelForScore(score),
		SampleSize: ins.Months,
		MSPR:       ins.MSPR,
		NetChange:  ins.NetShareChange,
	}
}

// FailedSignal marks a source that could not produce a measurement.
// It is excluded from aggregation, never defaulted to neutral.
func FailedSignal(provider string, err error) models.SourceSignal {
	return models.SourceSignal{Provider: provider, Err: err.Error()}
}
