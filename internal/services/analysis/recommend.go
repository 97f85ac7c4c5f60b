package analysis

import (
	"fmt"
	"math"

	"StockPulse/internal/domain/models"
)

// Decision-score weights: consensus and fundamentals dominate, the projected
// return breaks the balance.
const (
	weightConsensus = 0.4
	weightGrade     = 0.4
	weightReturn    = 0.2
)

// Action breakpoints over the decision score.
const (
	strongBuyMin = 80.0
	buyMin       = 65.0
	holdMin      = 45.0
	sellMin      = 30.0
)

// horizonStyle labels each timeframe for reasoning text.
var horizonStyle = map[models.Timeframe]string{
	models.TF1W: "Short-term trading",
	models.TF1M: "Swing trading",
	models.TF3M: "Medium-term investment",
	models.TF6M: "Position trading",
	models.TF1Y: "Long-term investment",
}

// NormalizeReturn maps an expected return percentage onto the 0-100 decision
// scale: clamp(return*5 + 50, 0, 100). A +10% projection saturates the scale.
func NormalizeReturn(returnPct float64) float64 {
	return clamp(returnPct*5+50, 0, 100)
}

// Recommend derives one Recommendation per horizon from the consensus score,
// the overall grade score and each horizon's base-case expected return.
func Recommend(consensusScore, gradeScore float64, scenarios map[models.Timeframe]models.ScenarioSet) map[models.Timeframe]models.Recommendation {
	recs := make(map[models.Timeframe]models.Recommendation, len(scenarios))
	for tf, set := range scenarios {
		baseReturn := set.Base.ExpectedReturnPct
		ds := weightConsensus*consensusScore +
			weightGrade*gradeScore +
			weightReturn*NormalizeReturn(baseReturn)

		action := actionFor(ds)
		confidence := clamp(math.Abs(ds-50)/50, 0, 1)

		recs[tf] = models.Recommendation{
			Action:            action,
			Confidence:        confidence,
			ExpectedReturnPct: baseReturn,
			Reasoning: fmt.Sprintf(
				"%s: sentiment consensus %.1f/100, fundamentals grade %.1f/100, projected %.1f%% base-case return over %s. %s",
				horizonStyle[tf], consensusScore, gradeScore, baseReturn, tf, actionNote(action)),
		}
	}
	return recs
}

func actionFor(decisionScore float64) string {
	switch {
	case decisionScore >= strongBuyMin:
		return "Strong Buy"
	case decisionScore >= buyMin:
		return "Buy"
	case decisionScore >= holdMin:
		return "Hold"
	case decisionScore >= sellMin:
		return "Sell"
	default:
		return "Strong Sell"
	}
}

func actionNote(action string) string {
	switch action {
	case "Strong Buy", "Buy":
		return "Positive outlook supported by fundamentals and sentiment."
	case "Hold":
		return "Mixed signals suggest maintaining the current position."
	default:
		return "Fundamentals or sentiment warrant caution."
	}
}
