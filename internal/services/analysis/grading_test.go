package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestGradeValuationTiers(t *testing.T) {
	cases := []struct {
		pe     float64
		letter string
		score  float64
	}{
		{12, "A", 95},
		{18, "B", 85},
		{22, "C", 75},
		{30, "D", 65},
		{40, "F", 50},
	}
	for _, tc := range cases {
		card := GradeRatios(models.FinancialRatios{PERatio: f(tc.pe)})
		assert.Equal(t, tc.letter, card.Valuation.Letter, "pe=%v", tc.pe)
		assert.Equal(t, tc.score, card.Valuation.Score, "pe=%v", tc.pe)
	}
}

func TestGradeValuationMissingIsNeutral(t *testing.T) {
	card := GradeRatios(models.FinancialRatios{})
	assert.Equal(t, 50.0, card.Valuation.Score)
}

func TestGradeProfitabilityJointThresholds(t *testing.T) {
	// A needs ROE > 20 AND margin > 15.
	card := GradeRatios(models.FinancialRatios{ROE: f(25), ProfitMargin: f(18)})
	assert.Equal(t, "A", card.Profitability.Letter)

	// Strong ROE alone cannot reach A when margin misses its bar.
	card = GradeRatios(models.FinancialRatios{ROE: f(25), ProfitMargin: f(12)})
	assert.Equal(t, "B", card.Profitability.Letter)

	// Either metric at or below zero is an immediate F.
	card = GradeRatios(models.FinancialRatios{ROE: f(25), ProfitMargin: f(-1)})
	assert.Equal(t, "F", card.Profitability.Letter)
}

func TestGradeGrowthJointThresholds(t *testing.T) {
	card := GradeRatios(models.FinancialRatios{EPSGrowth: f(22), RevenueGrowth: f(21)})
	assert.Equal(t, "A", card.Growth.Letter)

	card = GradeRatios(models.FinancialRatios{EPSGrowth: f(12), RevenueGrowth: f(11)})
	assert.Equal(t, "C", card.Growth.Letter)

	card = GradeRatios(models.FinancialRatios{EPSGrowth: f(0), RevenueGrowth: f(30)})
	assert.Equal(t, "F", card.Growth.Letter)
}

func TestGradeHealthTiers(t *testing.T) {
	cases := []struct {
		de     float64
		letter string
	}{
		{0.2, "A"},
		{0.4, "B"},
		{0.8, "C"},
		{1.5, "D"},
		{2.5, "F"},
	}
	for _, tc := range cases {
		card := GradeRatios(models.FinancialRatios{DebtToEquity: f(tc.de)})
		assert.Equal(t, tc.letter, card.FinancialHealth.Letter, "de=%v", tc.de)
	}
}

func TestGradeMissingSingleMetricUsesTheOther(t *testing.T) {
	// Margin absent: ROE alone decides the tier.
	card := GradeRatios(models.FinancialRatios{ROE: f(25)})
	assert.Equal(t, "A", card.Profitability.Letter)

	card = GradeRatios(models.FinancialRatios{ROE: f(8)})
	assert.Equal(t, "D", card.Profitability.Letter)
}

func TestGradeValuationMonotonic(t *testing.T) {
	prev := -1.0
	for pe := 50.0; pe >= 1; pe -= 0.5 {
		card := GradeRatios(models.FinancialRatios{PERatio: f(pe)})
		assert.GreaterOrEqual(t, card.Valuation.Score, prev, "pe=%v", pe)
		prev = card.Valuation.Score
	}
}

func TestGradeOverall(t *testing.T) {
	card := GradeRatios(models.FinancialRatios{
		PERatio:       f(12),  // 95
		ROE:           f(25),  // with margin 18 -> 95
		ProfitMargin:  f(18),
		EPSGrowth:     f(22),  // with revenue 21 -> 95
		RevenueGrowth: f(21),
		DebtToEquity:  f(0.2), // 95
	})
	assert.Equal(t, 95.0, card.OverallScore)
	assert.Equal(t, "A", card.OverallLetter)

	card = GradeRatios(models.FinancialRatios{})
	assert.Equal(t, 50.0, card.OverallScore)
	assert.Equal(t, "F", card.OverallLetter)
}
