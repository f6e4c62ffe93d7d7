package scoring

import (
	"math"
	"testing"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

func f(v float64) *float64 { return &v }

func TestScoreQuestion(t *testing.T) {
	tests := []struct {
		name     string
		actual   *float64
		target   float64
		formula  framework.Formula
		expected *float64
	}{
		{"nil actual is unanswered", nil, 100, framework.FormulaHIB, nil},
		{"NaN actual is unanswered", f(math.NaN()), 100, framework.FormulaHIB, nil},
		{"Inf actual is unanswered", f(math.Inf(1)), 100, framework.FormulaHIB, nil},

		{"raw percent passes through", f(80), 100, framework.FormulaRawPercent, f(80)},
		{"raw percent clamps high", f(150), 100, framework.FormulaRawPercent, f(100)},
		{"raw percent clamps low", f(-10), 100, framework.FormulaRawPercent, f(0)},
		{"raw percent ignores target", f(80), 0, framework.FormulaRawPercent, f(80)},

		{"HIB below target", f(50), 200, framework.FormulaHIB, f(25)},
		{"HIB at target", f(200), 200, framework.FormulaHIB, f(100)},
		{"HIB above target clamps", f(400), 200, framework.FormulaHIB, f(100)},
		{"HIB negative actual clamps to zero", f(-5), 100, framework.FormulaHIB, f(0)},
		{"HIB zero target scores zero", f(50), 0, framework.FormulaHIB, f(0)},
		{"HIB negative target scores zero", f(50), -10, framework.FormulaHIB, f(0)},

		{"LIB zero actual is perfect", f(0), 24, framework.FormulaLIB, f(100)},
		{"LIB at target", f(24), 24, framework.FormulaLIB, f(100)},
		{"LIB double target halves", f(48), 24, framework.FormulaLIB, f(50)},
		{"LIB below target clamps", f(12), 24, framework.FormulaLIB, f(100)},
		{"LIB negative actual clamps to zero", f(-3), 24, framework.FormulaLIB, f(0)},
		{"LIB zero target scores zero", f(0), 0, framework.FormulaLIB, f(0)},

		{"unknown formula scores zero", f(80), 100, framework.Formula("MAGIC"), f(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuestion(tt.actual, tt.target, tt.formula)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("ScoreQuestion() = %v, want %v", got, tt.expected)
			}
			if got != nil && math.Abs(*got-*tt.expected) > 1e-9 {
				t.Errorf("ScoreQuestion() = %v, want %v", *got, *tt.expected)
			}
		})
	}
}

func TestScoreQuestion_HIBMonotonic(t *testing.T) {
	prev := -1.0
	for a := 0.0; a <= 300; a += 10 {
		got := ScoreQuestion(f(a), 200, framework.FormulaHIB)
		if *got < prev {
			t.Fatalf("HIB score decreased: actual %v scored %v, previous %v", a, *got, prev)
		}
		prev = *got
	}
}

func TestAggregate_WeightedMean(t *testing.T) {
	overall, perCat := Aggregate(map[int][]WeightedScore{
		0: {{Score: 80, Weight: 50}},
		1: {{Score: 60, Weight: 50}},
	})
	if math.Abs(overall-70) > 1e-9 {
		t.Errorf("overall = %v, want 70", overall)
	}
	if math.Abs(perCat[0]-80) > 1e-9 || math.Abs(perCat[1]-60) > 1e-9 {
		t.Errorf("perCat = %v, want {0:80 1:60}", perCat)
	}
}

// The overall score must weigh every answered question directly, not average
// the category means.
func TestAggregate_FlatNotMeanOfMeans(t *testing.T) {
	overall, perCat := Aggregate(map[int][]WeightedScore{
		0: {{Score: 100, Weight: 10}, {Score: 0, Weight: 10}},
		1: {{Score: 100, Weight: 10}},
	})
	if math.Abs(perCat[0]-50) > 1e-9 || math.Abs(perCat[1]-100) > 1e-9 {
		t.Fatalf("perCat = %v, want {0:50 1:100}", perCat)
	}
	want := 200.0 / 3.0
	if math.Abs(overall-want) > 1e-9 {
		t.Errorf("overall = %v, want %v (a mean of means would give 75)", overall, want)
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	overall, perCat := Aggregate(nil)
	if overall != 0 || len(perCat) != 0 {
		t.Errorf("Aggregate(nil) = %v, %v; want 0 and empty map", overall, perCat)
	}

	overall, perCat = Aggregate(map[int][]WeightedScore{2: {}})
	if overall != 0 {
		t.Errorf("overall = %v, want 0", overall)
	}
	if got := perCat[2]; got != 0 {
		t.Errorf("empty category score = %v, want 0", got)
	}
}

func TestAggregate_Recompute(t *testing.T) {
	// Map iteration order is randomized, so the overall sum must not depend
	// on it: recomputing from the same inputs has to be bit-identical.
	byCategory := map[int][]WeightedScore{}
	for cid := 0; cid < 5; cid++ {
		for q := 0; q < 10; q++ {
			byCategory[cid] = append(byCategory[cid], WeightedScore{
				Score:  float64((cid*31+q*17)%101) + 0.3,
				Weight: 10.0,
			})
		}
	}

	firstOverall, firstPerCat := Aggregate(byCategory)
	for i := 0; i < 200; i++ {
		overall, perCat := Aggregate(byCategory)
		if overall != firstOverall {
			t.Fatalf("run %d: overall differs: %v vs %v", i, overall, firstOverall)
		}
		for cid, want := range firstPerCat {
			if perCat[cid] != want {
				t.Fatalf("run %d: category %d differs: %v vs %v", i, cid, perCat[cid], want)
			}
		}
	}
}

func TestComputeSurvey_Deterministic(t *testing.T) {
	answers := map[int]*float64{}
	for id := 1; id <= 50; id++ {
		answers[id] = f(float64((id * 7) % 120))
	}

	first, err := ComputeSurvey(models.UserRoleBranch, answers)
	if err != nil {
		t.Fatalf("ComputeSurvey() error = %v", err)
	}
	for i := 0; i < 200; i++ {
		again, err := ComputeSurvey(models.UserRoleBranch, answers)
		if err != nil {
			t.Fatalf("ComputeSurvey() error = %v", err)
		}
		if again.Overall != first.Overall {
			t.Fatalf("overall differs across runs: %v vs %v", again.Overall, first.Overall)
		}
		for ci := range first.CategoryScores {
			if again.CategoryScores[ci] != first.CategoryScores[ci] {
				t.Fatalf("category %d differs across runs", ci)
			}
		}
	}
}

func TestComputeSurvey_UnansweredExcluded(t *testing.T) {
	// Two RAW_PERCENT Branch questions with equal weight; everything else
	// unanswered. Positions 2 and 3 are on-time delivery and picking
	// accuracy.
	answers := map[int]*float64{
		2: f(80),
		3: f(60),
		4: nil,
	}
	result, err := ComputeSurvey(models.UserRoleBranch, answers)
	if err != nil {
		t.Fatalf("ComputeSurvey() error = %v", err)
	}
	if math.Abs(result.Overall-70) > 1e-9 {
		t.Errorf("overall = %v, want 70", result.Overall)
	}
	if math.Abs(result.CategoryScores[0]-70) > 1e-9 {
		t.Errorf("category 0 = %v, want 70", result.CategoryScores[0])
	}
	for ci := 1; ci < len(result.CategoryScores); ci++ {
		if result.CategoryScores[ci] != 0 {
			t.Errorf("category %d = %v, want 0 (no answers)", ci, result.CategoryScores[ci])
		}
	}
	if len(result.Answers) != 50 {
		t.Fatalf("len(Answers) = %d, want 50", len(result.Answers))
	}
	answered := 0
	for _, a := range result.Answers {
		if a.Score != nil {
			answered++
		}
	}
	if answered != 2 {
		t.Errorf("answered = %d, want 2", answered)
	}
}

func TestComputeSurvey_AllUnanswered(t *testing.T) {
	result, err := ComputeSurvey(models.UserRoleZone, nil)
	if err != nil {
		t.Fatalf("ComputeSurvey() error = %v", err)
	}
	if result.Overall != 0 {
		t.Errorf("overall = %v, want 0", result.Overall)
	}
}

func TestComputeSurvey_RejectsUnknownQuestions(t *testing.T) {
	_, err := ComputeSurvey(models.UserRoleBranch, map[int]*float64{51: f(10)})
	if err != models.ErrUnknownQuestion {
		t.Errorf("error = %v, want ErrUnknownQuestion", err)
	}
	_, err = ComputeSurvey(models.UserRoleBranch, map[int]*float64{0: f(10)})
	if err != models.ErrUnknownQuestion {
		t.Errorf("error = %v, want ErrUnknownQuestion", err)
	}
	_, err = ComputeSurvey(models.UserRoleAdmin, nil)
	if err != models.ErrInvalidLevel {
		t.Errorf("error = %v, want ErrInvalidLevel", err)
	}
}
