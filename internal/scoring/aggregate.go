package scoring

import (
	"sort"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// WeightedScore is one answered question's score with its framework weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// Aggregate computes per-category weighted means and the overall score.
// The overall score is the flat weighted mean across every answered question
// in every category, NOT a mean of category means, so categories with more
// answered weight pull harder on the total.
// A category (or survey) with no answered weight scores 0.
func Aggregate(byCategory map[int][]WeightedScore) (float64, map[int]float64) {
	perCategory := make(map[int]float64, len(byCategory))
	var overallSum, totalWeight float64

	// Float addition is order-sensitive, so the categories are summed in a
	// fixed order to keep recomputation bit-identical.
	cids := make([]int, 0, len(byCategory))
	for cid := range byCategory {
		cids = append(cids, cid)
	}
	sort.Ints(cids)

	for _, cid := range cids {
		items := byCategory[cid]
		var catSum, catWeight float64
		for _, it := range items {
			w := it.Weight / 100.0
			catSum += it.Score * w
			catWeight += w
			overallSum += it.Score * w
			totalWeight += w
		}
		if catWeight > 0 {
			perCategory[cid] = catSum / catWeight
		} else {
			perCategory[cid] = 0.0
		}
	}

	if totalWeight <= 0 {
		return 0.0, perCategory
	}
	return overallSum / totalWeight, perCategory
}

// ScoredAnswer pairs a framework question position with its raw answer and
// computed score. Score is nil exactly when RawValue is nil or non-finite.
type ScoredAnswer struct {
	QuestionID    int
	CategoryIndex int
	RawValue      *float64
	Score         *float64
}

// SurveyResult is the full scoring outcome for one submission.
type SurveyResult struct {
	Overall        float64
	CategoryScores []float64
	Answers        []ScoredAnswer
}

// ComputeSurvey scores a complete submission for a hierarchy level. answers
// maps 1-based framework question positions to raw values; nil values and
// missing positions both mean unanswered. Positions outside the framework
// are rejected.
func ComputeSurvey(level models.UserRole, answers map[int]*float64) (SurveyResult, error) {
	flat, err := framework.Flatten(level)
	if err != nil {
		return SurveyResult{}, err
	}
	for id := range answers {
		if id < 1 || id > len(flat) {
			return SurveyResult{}, models.ErrUnknownQuestion
		}
	}

	cats, _ := framework.CategoriesFor(level)
	result := SurveyResult{
		CategoryScores: make([]float64, len(cats)),
		Answers:        make([]ScoredAnswer, 0, len(flat)),
	}

	byCategory := make(map[int][]WeightedScore, len(cats))
	for _, fq := range flat {
		raw := answers[fq.ID]
		score := ScoreQuestion(raw, fq.Target, fq.Formula)
		result.Answers = append(result.Answers, ScoredAnswer{
			QuestionID:    fq.ID,
			CategoryIndex: fq.CategoryIndex,
			RawValue:      raw,
			Score:         score,
		})
		if score != nil {
			byCategory[fq.CategoryIndex] = append(byCategory[fq.CategoryIndex], WeightedScore{
				Score:  *score,
				Weight: fq.Weight,
			})
		}
	}

	overall, perCategory := Aggregate(byCategory)
	result.Overall = overall
	for ci := range result.CategoryScores {
		result.CategoryScores[ci] = perCategory[ci]
	}
	return result, nil
}
