package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func TestBuildScenariosBaseCase(t *testing.T) {
	set, err := BuildScenarios(ScenarioInputs{
		CurrentPrice:   195.50,
		EPSGrowthPct:   12.5,
		ConsensusScore: 73.75,
		Timeframe:      models.TF1M,
	})
	require.NoError(t, err)

	// base_multiplier for 1M = 1 + 0.125 * 30/365
	wantBase := 195.50 * (1 + 0.125*30.0/365.0)
	assert.InDelta(t, wantBase, set.Base.PriceTarget, 1e-9)
	assert.InDelta(t, (wantBase-195.50)/195.50*100, set.Base.ExpectedReturnPct, 1e-9)

	// bull applies half the positive sentiment adjustment on top
	adj := (73.75 - 50) / 50
	assert.InDelta(t, wantBase*(1+0.5*adj), set.Bull.PriceTarget, 1e-9)
	assert.Greater(t, set.Bull.PriceTarget, set.Base.PriceTarget)
	assert.LessOrEqual(t, set.Bear.PriceTarget, set.Base.PriceTarget)
}

func TestBuildScenariosRoundTrip(t *testing.T) {
	cases := []ScenarioInputs{
		{CurrentPrice: 195.50, EPSGrowthPct: 12.5, ConsensusScore: 73.75, Timeframe: models.TF1M},
		{CurrentPrice: 10, EPSGrowthPct: -40, ConsensusScore: 20, VolatilityFactor: 0.3, Timeframe: models.TF1Y},
		{CurrentPrice: 0.5, EPSGrowthPct: 200, ConsensusScore: 95, VolatilityFactor: 0.05, Timeframe: models.TF1W},
	}
	for _, in := range cases {
		set, err := BuildScenarios(in)
		require.NoError(t, err)
		for _, s := range []models.Scenario{set.Bull, set.Base, set.Bear} {
			recomputed := (s.PriceTarget - in.CurrentPrice) / in.CurrentPrice * 100
			assert.InEpsilon(t, recomputed+1000, s.ExpectedReturnPct+1000, 1e-6)
			assert.Greater(t, s.PriceTarget, 0.0)
		}
	}
}

func TestBuildScenariosProbabilitiesSumTo100(t *testing.T) {
	for _, tf := range Timeframes() {
		set, err := BuildScenarios(ScenarioInputs{
			CurrentPrice: 42, EPSGrowthPct: 3, ConsensusScore: 55, Timeframe: tf,
		})
		require.NoError(t, err)
		assert.Equal(t, 100, set.Bull.Probability+set.Base.Probability+set.Bear.Probability)
	}
}

func TestBuildScenariosBullNeverPenalized(t *testing.T) {
	// Negative sentiment must not drag the bull case below the base case.
	set, err := BuildScenarios(ScenarioInputs{
		CurrentPrice: 100, EPSGrowthPct: 5, ConsensusScore: 10, Timeframe: models.TF3M,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, set.Bull.PriceTarget, set.Base.PriceTarget)
	assert.Less(t, set.Bear.PriceTarget, set.Base.PriceTarget)
}

func TestBuildScenariosBearFloored(t *testing.T) {
	set, err := BuildScenarios(ScenarioInputs{
		CurrentPrice: 100, EPSGrowthPct: -90, ConsensusScore: 0,
		VolatilityFactor: 0.5, Timeframe: models.TF1Y,
	})
	require.NoError(t, err)
	assert.Greater(t, set.Bear.PriceTarget, 0.0)
}

func TestBuildScenariosInvalidInputs(t *testing.T) {
	var invalid *InvalidInputError

	_, err := BuildScenarios(ScenarioInputs{CurrentPrice: 0, Timeframe: models.TF1M})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "current_price", invalid.Field)

	_, err = BuildScenarios(ScenarioInputs{CurrentPrice: 10, Timeframe: "2M"})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "timeframe", invalid.Field)

	_, err = BuildScenarios(ScenarioInputs{CurrentPrice: 10, VolatilityFactor: -0.1, Timeframe: models.TF1M})
	assert.ErrorAs(t, err, &invalid)
}

func TestTimeframeScale(t *testing.T) {
	s, err := TimeframeScale(models.TF1Y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)

	s, err = TimeframeScale(models.TF1W)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/365.0, s, 1e-12)

	_, err = TimeframeScale("5D")
	assert.Error(t, err)
}

func TestVolatilityFromRange(t *testing.T) {
	high, low := 150.0, 90.0
	v := VolatilityFromRange(models.FinancialRatios{High52W: &high, Low52W: &low}, 120)
	assert.InDelta(t, 0.05, v, 1e-9)

	assert.Zero(t, VolatilityFromRange(models.FinancialRatios{}, 120))
	assert.Zero(t, VolatilityFromRange(models.FinancialRatios{High52W: &low, Low52W: &high}, 120))
}
