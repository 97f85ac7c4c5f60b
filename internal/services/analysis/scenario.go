package analysis

import (
	"fmt"
	"math"

	"StockPulse/internal/domain/models"
)

// Scenario probabilities are fixed design constants; they always sum to 100.
const (
	bullProbability = 25
	baseProbability = 50
	bearProbability = 25
)

// Weight of the sentiment adjustment on the bull/bear targets.
const sentimentWeight = 0.5

// Bear targets are floored at this fraction of the current price so the
// projection can never reach zero or below.
const bearFloorFraction = 0.05

// timeframeDays maps each horizon to its day count; the scaling multiplier
// is days/365.
var timeframeDays = map[models.Timeframe]int{
	models.TF1W: 7,
	models.TF1M: 30,
	models.TF3M: 90,
	models.TF6M: 180,
	models.TF1Y: 365,
}

// Timeframes lists the supported horizons in ascending order.
func Timeframes() []models.Timeframe {
	return []models.Timeframe{models.TF1W, models.TF1M, models.TF3M, models.TF6M, models.TF1Y}
}

// TimeframeScale returns days/365 for a horizon, or an error for an unknown one.
func TimeframeScale(tf models.Timeframe) (float64, error) {
	d, ok := timeframeDays[tf]
	if !ok {
		return 0, invalidInput("timeframe", fmt.Sprintf("unknown %q", tf))
	}
	return float64(d) / 365.0, nil
}

// ScenarioInputs are the drivers for one projection.
type ScenarioInputs struct {
	CurrentPrice     float64
	EPSGrowthPct     float64
	ConsensusScore   float64
	VolatilityFactor float64
	Timeframe        models.Timeframe
}

// BuildScenarios produces the bull/base/bear triple for one timeframe.
// Expected returns are always recomputed from the resulting targets so they
// round-trip exactly.
func BuildScenarios(in ScenarioInputs) (models.ScenarioSet, error) {
	if in.CurrentPrice <= 0 {
		return models.ScenarioSet{}, invalidInput("current_price", "must be positive")
	}
	if in.VolatilityFactor < 0 {
		return models.ScenarioSet{}, invalidInput("volatility_factor", "must be non-negative")
	}
	scale, err := TimeframeScale(in.Timeframe)
	if err != nil {
		return models.ScenarioSet{}, err
	}

	adj := (in.ConsensusScore - 50) / 50 // [-1, +1]
	baseMul := 1 + in.EPSGrowthPct/100*scale

	bullTarget := in.CurrentPrice * baseMul * (1 + sentimentWeight*math.Max(0, adj) + in.VolatilityFactor)
	baseTarget := in.CurrentPrice * baseMul
	bearTarget := in.CurrentPrice * baseMul * (1 - sentimentWeight*math.Max(0, -adj) - in.VolatilityFactor)
	if floor := in.CurrentPrice * bearFloorFraction; bearTarget < floor {
		bearTarget = floor
	}

	label := LabelForScore(in.ConsensusScore)

	set := models.ScenarioSet{
		Timeframe: in.Timeframe,
		Bull: scenario(bullTarget, in.CurrentPrice, bullProbability,
			[]string{
				fmt.Sprintf("EPS growth exceeds the %.1f%% estimate", in.EPSGrowthPct),
				fmt.Sprintf("Sentiment consensus is %s (%.1f/100)", label, in.ConsensusScore),
				fmt.Sprintf("Volatility factor %.2f works in the stock's favor", in.VolatilityFactor),
			},
			fmt.Sprintf("Optimistic case over %s: %.1f%% EPS growth with %s sentiment lifting the target.",
				in.Timeframe, in.EPSGrowthPct, label)),
		Base: scenario(baseTarget, in.CurrentPrice, baseProbability,
			[]string{
				fmt.Sprintf("EPS growth meets the %.1f%% estimate", in.EPSGrowthPct),
				"Sentiment remains stable",
				"Normal market conditions",
			},
			fmt.Sprintf("Most likely case over %s: %.1f%% EPS growth scaled to the horizon, no sentiment adjustment.",
				in.Timeframe, in.EPSGrowthPct)),
		Bear: scenario(bearTarget, in.CurrentPrice, bearProbability,
			[]string{
				fmt.Sprintf("EPS growth falls short of the %.1f%% estimate", in.EPSGrowthPct),
				fmt.Sprintf("Sentiment (%.1f/100) deteriorates", in.ConsensusScore),
				fmt.Sprintf("Volatility factor %.2f cuts against the position", in.VolatilityFactor),
			},
			fmt.Sprintf("Conservative case over %s: headwinds from sentiment and a %.2f volatility drag.",
				in.Timeframe, in.VolatilityFactor)),
	}
	return set, nil
}

func scenario(target, price float64, probability int, factors []string, rationale string) models.Scenario {
	return models.Scenario{
		PriceTarget:       target,
		Probability:       probability,
		ExpectedReturnPct: (target - price) / price * 100,
		Factors:           factors,
		Rationale:         rationale,
	}
}

// VolatilityFromRange derives a volatility factor from the 52-week range
// when the market provider supplies no explicit figure. A full-range stock
// (high = 2x low) maps to roughly 0.1; missing inputs yield zero.
func VolatilityFromRange(ratios models.FinancialRatios, price float64) float64 {
	if ratios.High52W == nil || ratios.Low52W == nil || price <= 0 {
		return 0
	}
	high, low := *ratios.High52W, *ratios.Low52W
	if high <= low || low <= 0 {
		return 0
	}
	return clamp((high-low)/price*0.1, 0, 0.5)
}
