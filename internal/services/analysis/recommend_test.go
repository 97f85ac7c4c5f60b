package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

// scenarioSetWithReturn builds a minimal set whose base case carries the
// given expected return.
func scenarioSetWithReturn(tf models.Timeframe, ret float64) map[models.Timeframe]models.ScenarioSet {
	return map[models.Timeframe]models.ScenarioSet{
		tf: {Timeframe: tf, Base: models.Scenario{ExpectedReturnPct: ret, Probability: 50}},
	}
}

func TestNormalizeReturn(t *testing.T) {
	assert.Equal(t, 50.0, NormalizeReturn(0))
	assert.Equal(t, 100.0, NormalizeReturn(10))
	assert.Equal(t, 100.0, NormalizeReturn(42))
	assert.Equal(t, 0.0, NormalizeReturn(-10))
	assert.Equal(t, 75.0, NormalizeReturn(5))
}

func TestRecommendStrongBuyBoundary(t *testing.T) {
	// 0.4*85 + 0.4*85 + 0.2*60 = 80 exactly -> Strong Buy.
	recs := Recommend(85, 85, scenarioSetWithReturn(models.TF1M, 2))
	rec := recs[models.TF1M]
	assert.Equal(t, "Strong Buy", rec.Action)

	// A hair below the boundary drops to Buy.
	recs = Recommend(84.99, 85, scenarioSetWithReturn(models.TF1M, 2))
	assert.Equal(t, "Buy", recs[models.TF1M].Action)
}

func TestRecommendHoldNearMidpointHasLowConfidence(t *testing.T) {
	// 0.4*50 + 0.4*50 + 0.2*50 = 50 -> Hold at zero confidence.
	recs := Recommend(50, 50, scenarioSetWithReturn(models.TF3M, 0))
	rec := recs[models.TF3M]
	assert.Equal(t, "Hold", rec.Action)
	assert.InDelta(t, 0, rec.Confidence, 1e-9)

	recs = Recommend(52, 49, scenarioSetWithReturn(models.TF3M, 0.2))
	rec = recs[models.TF3M]
	assert.Equal(t, "Hold", rec.Action)
	assert.Less(t, rec.Confidence, 0.05)
}

func TestRecommendActionLadder(t *testing.T) {
	cases := []struct {
		consensus, grade, ret float64
		action                string
	}{
		{90, 90, 10, "Strong Buy"}, // ds = 92
		{70, 70, 2, "Buy"},         // ds = 68
		{50, 55, 0, "Hold"},        // ds = 52
		{30, 40, -4, "Sell"},       // ds = 34
		{10, 20, -10, "Strong Sell"}, // ds = 12
	}
	for _, tc := range cases {
		recs := Recommend(tc.consensus, tc.grade, scenarioSetWithReturn(models.TF1Y, tc.ret))
		assert.Equal(t, tc.action, recs[models.TF1Y].Action,
			"consensus=%v grade=%v ret=%v", tc.consensus, tc.grade, tc.ret)
	}
}

func TestRecommendCoversEveryHorizon(t *testing.T) {
	sets := make(map[models.Timeframe]models.ScenarioSet)
	for _, tf := range Timeframes() {
		set, err := BuildScenarios(ScenarioInputs{
			CurrentPrice: 100, EPSGrowthPct: 8, ConsensusScore: 70, Timeframe: tf,
		})
		require.NoError(t, err)
		sets[tf] = set
	}

	recs := Recommend(70, 80, sets)
	require.Len(t, recs, len(Timeframes()))
	for tf, rec := range recs {
		assert.Equal(t, sets[tf].Base.ExpectedReturnPct, rec.ExpectedReturnPct)
		assert.GreaterOrEqual(t, rec.Confidence, 0.0)
		assert.LessOrEqual(t, rec.Confidence, 1.0)
		assert.NotEmpty(t, rec.Reasoning)
	}
}
