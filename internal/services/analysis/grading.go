package analysis

import "StockPulse/internal/domain/models"

// Letter breakpoints shared by every category and the overall grade.
func letterFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeRatios maps raw fundamentals to the four category grades plus the
// overall grade. The function is total: a missing field falls back to the
// documented per-category default instead of failing.
func GradeRatios(r models.FinancialRatios) models.ReportCard {
	val := gradeValuation(r.PERatio)
	prof := gradeJoint(r.ROE, r.ProfitMargin,
		jointTiers{20, 15, 15, 10, 10, 5, 5, 0},
		"profitability")
	growth := gradeJoint(r.EPSGrowth, r.RevenueGrowth,
		jointTiers{20, 20, 15, 15, 10, 10, 5, 0},
		"growth")
	health := gradeHealth(r.DebtToEquity)

	overall := (val.Score + prof.Score + growth.Score + health.Score) / 4

	return models.ReportCard{
		Valuation:       val,
		Profitability:   prof,
		Growth:          growth,
		FinancialHealth: health,
		OverallLetter:   letterFor(overall),
		OverallScore:    overall,
	}
}

func grade(score float64, desc string) models.Grade {
	return models.Grade{Letter: letterFor(score), Score: score, Description: desc}
}

// Valuation: lower P/E scores higher. A missing P/E is neutral (50), not an F.
func gradeValuation(pe *float64) models.Grade {
	if pe == nil {
		return grade(50, "Valuation not assessable - P/E unavailable")
	}
	switch p := *pe; {
	case p < 15:
		return grade(95, "Undervalued - P/E significantly below market average")
	case p < 20:
		return grade(85, "Fair value - P/E near market average")
	case p < 25:
		return grade(75, "Market value - P/E at market average")
	case p < 35:
		return grade(65, "Overvalued - P/E above market average")
	default:
		return grade(50, "Significantly overvalued")
	}
}

// jointTiers holds the paired thresholds for a two-metric category; a tier
// is reached only when BOTH metrics clear it.
type jointTiers struct {
	a1, a2 float64 // A tier
	b1, b2 float64 // B tier
	c1, c2 float64 // C tier
	d1, d2 float64 // D tier
}

// gradeJoint scores a category driven by two metrics jointly. When one
// metric is missing the other is graded alone against its own thresholds;
// when both are missing the category is neutral (50).
func gradeJoint(m1, m2 *float64, t jointTiers, name string) models.Grade {
	if m1 == nil && m2 == nil {
		return grade(50, "Not assessable - inputs unavailable")
	}
	ok := func(v *float64, th float64) bool { return v == nil || *v > th }
	negative := (m1 != nil && *m1 <= 0) || (m2 != nil && *m2 <= 0)

	switch {
	case negative:
		return grade(40, "Weak "+name)
	case ok(m1, t.a1) && ok(m2, t.a2):
		return grade(95, "Excellent "+name)
	case ok(m1, t.b1) && ok(m2, t.b2):
		return grade(85, "Strong "+name)
	case ok(m1, t.c1) && ok(m2, t.c2):
		return grade(75, "Adequate "+name)
	case ok(m1, t.d1) && ok(m2, t.d2):
		return grade(60, "Below average "+name)
	default:
		return grade(40, "Weak "+name)
	}
}

// Financial health: lower debt/equity is better. Missing D/E is neutral.
func gradeHealth(de *float64) models.Grade {
	if de == nil {
		return grade(50, "Not assessable - debt/equity unavailable")
	}
	switch d := *de; {
	case d < 0.3:
		return grade(95, "Excellent financial health - low debt")
	case d < 0.5:
		return grade(85, "Good financial health")
	case d < 1.0:
		return grade(75, "Moderate debt levels")
	case d < 2.0:
		return grade(60, "High debt levels")
	default:
		return grade(40, "Very high debt - financial risk")
	}
}
