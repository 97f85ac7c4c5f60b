package analysis

import (
	"StockPulse/internal/domain/models"
)

// Agreement thresholds over population variance of normalized scores.
const (
	strongVarianceMax   = 100.0
	moderateVarianceMax = 300.0
)

// Confidence tiers for the consensus label.
const (
	confidenceUnanimous = 1.0
	confidenceMajority  = 0.66
	confidenceSplit     = 0.5
)

// Aggregate reduces a signal set to a single Consensus. Errored signals are
// filtered; aggregation over the remainder is commutative, so arrival order
// never changes the result. An empty remainder is ErrInsufficientSignals.
func Aggregate(signals []models.SourceSignal) (models.Consensus, error) {
	usable := make([]models.SourceSignal, 0, len(signals))
	for _, s := range signals {
		if !s.Failed() {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return models.Consensus{}, ErrInsufficientSignals
	}

	var sum float64
	for _, s := range usable {
		sum += s.Score
	}
	mean := sum / float64(len(usable))

	var sqDev float64
	for _, s := range usable {
		d := s.Score - mean
		sqDev += d * d
	}
	variance := sqDev / float64(len(usable))

	sentiment, unanimous, majority := vote(usable)

	confidence := confidenceSplit
	switch {
	case unanimous:
		confidence = confidenceUnanimous
	case majority:
		confidence = confidenceMajority
	}

	return models.Consensus{
		Sentiment:    sentiment,
		Unanimous:    unanimous,
		AverageScore: mean,
		Variance:     variance,
		Agreement:    agreementLevel(variance),
		Confidence:   confidence,
		Sources:      len(usable),
	}, nil
}

func agreementLevel(variance float64) models.AgreementLevel {
	switch {
	case variance < strongVarianceMax:
		return models.AgreementStrong
	case variance < moderateVarianceMax:
		return models.AgreementModerate
	default:
		return models.AgreementWeak
	}
}

// vote picks the majority label. Count ties break toward the label with the
// higher cumulative score sum; a residual tie falls back to neutral.
func vote(signals []models.SourceSignal) (label models.SentimentLabel, unanimous, majority bool) {
	counts := map[models.SentimentLabel]int{}
	scoreSums := map[models.SentimentLabel]float64{}
	for _, s := range signals {
		counts[s.Sentiment]++
		scoreSums[s.Sentiment] += s.Score
	}

	if len(counts) == 1 {
		return signals[0].Sentiment, true, true
	}

	ordered := []models.SentimentLabel{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative}
	best := models.SentimentNeutral
	bestCount := -1
	tied := false
	for _, l := range ordered {
		c, ok := counts[l]
		if !ok {
			continue
		}
		switch {
		case c > bestCount:
			best, bestCount, tied = l, c, false
		case c == bestCount:
			tied = true
			if scoreSums[l] > scoreSums[best] {
				best = l
			}
		}
	}

	// A strict majority needs more votes than any other label.
	return best, false, !tied
}
