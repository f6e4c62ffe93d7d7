// Package scoring turns raw KPI answers into 0..100 scores and aggregates
// them into category and overall figures. All functions are pure: same
// inputs, same outputs, no errors.
package scoring

import (
	"math"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
)

// ScoreQuestion converts a raw answer into a 0..100 score for the given
// formula and target. A nil or non-finite answer means the question was not
// (usably) answered and yields nil, which excludes it from aggregation.
//
// #BUSINESS_RULE: A degenerate target (<= 0) scores 0 rather than failing,
// so a misconfigured question can never block a submission.
func ScoreQuestion(actual *float64, target float64, formula framework.Formula) *float64 {
	if actual == nil {
		return nil
	}
	a := *actual
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return nil
	}

	var score float64
	switch formula {
	case framework.FormulaRawPercent:
		score = clamp(a, 0.0, 100.0)
	case framework.FormulaHIB:
		if target <= 0 {
			score = 0.0
		} else {
			score = clamp(a/target*100.0, 0.0, 100.0)
		}
	case framework.FormulaLIB:
		switch {
		case target <= 0:
			score = 0.0
		case a == 0:
			// Zero of a lower-is-better metric is a perfect result.
			score = 100.0
		default:
			score = clamp(target/a*100.0, 0.0, 100.0)
		}
	default:
		// Unknown formulas score 0 so they are visible in dashboards
		// instead of silently vanishing.
		score = 0.0
	}
	return &score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
