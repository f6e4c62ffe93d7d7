// Package framework holds the fixed logistics operations health assessment
// catalog: for each hierarchy level, the categories and questions a user at
// that level answers. The catalog is compiled in rather than stored in the
// database so that question positions stay stable across deployments.
package framework

import (
	"strings"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// Formula selects how a raw answer is turned into a 0..100 score
type Formula string

const (
	// FormulaRawPercent uses the answer directly as a percentage.
	FormulaRawPercent Formula = "RAW_PERCENT"
	// FormulaHIB scores higher answers better, relative to the target.
	FormulaHIB Formula = "HIB"
	// FormulaLIB scores lower answers better, relative to the target.
	FormulaLIB Formula = "LIB"
)

// IsValid checks if the Formula is a valid value
func (f Formula) IsValid() bool {
	switch f {
	case FormulaRawPercent, FormulaHIB, FormulaLIB:
		return true
	}
	return false
}

// QuestionDef describes one KPI question within a category
type QuestionDef struct {
	Text    string  `json:"text"`
	Weight  float64 `json:"weight"`
	Formula Formula `json:"formula"`
	Target  float64 `json:"target"`
}

// CategoryDef groups questions under a weighted category
type CategoryDef struct {
	Name      string        `json:"name"`
	Weight    float64       `json:"weight"`
	Questions []QuestionDef `json:"questions"`
}

// FlatQuestion is a question paired with its durable 1-based position in the
// flattened framework for a level. Responses and exports reference questions
// by this position, so it must never change for an existing question.
type FlatQuestion struct {
	ID            int    `json:"id"`
	CategoryIndex int    `json:"category_index"`
	CategoryName  string `json:"category_name"`
	QuestionDef
}

// Levels returns the hierarchy levels that have a framework, in hierarchy
// order from widest to narrowest.
func Levels() []models.UserRole {
	return []models.UserRole{
		models.UserRoleZone,
		models.UserRoleRegion,
		models.UserRoleCity,
		models.UserRoleBranch,
	}
}

// CategoriesFor returns the category definitions for the given level.
// Callers must not mutate the returned slice.
func CategoriesFor(level models.UserRole) ([]CategoryDef, error) {
	cats, ok := catalog[level]
	if !ok {
		return nil, models.ErrInvalidLevel
	}
	return cats, nil
}

// QuestionCount returns the number of questions at the given level, or 0 for
// an unknown level.
func QuestionCount(level models.UserRole) int {
	n := 0
	for _, cat := range catalog[level] {
		n += len(cat.Questions)
	}
	return n
}

// Flatten returns every question at the given level paired with its durable
// position ID.
func Flatten(level models.UserRole) ([]FlatQuestion, error) {
	cats, err := CategoriesFor(level)
	if err != nil {
		return nil, err
	}
	flat := make([]FlatQuestion, 0, QuestionCount(level))
	id := 1
	for ci, cat := range cats {
		for _, q := range cat.Questions {
			flat = append(flat, FlatQuestion{
				ID:            id,
				CategoryIndex: ci,
				CategoryName:  cat.Name,
				QuestionDef:   q,
			})
			id++
		}
	}
	return flat, nil
}

// QuestionByID resolves a durable question position back to its definition
// and its category index.
func QuestionByID(level models.UserRole, id int) (QuestionDef, int, error) {
	cats, err := CategoriesFor(level)
	if err != nil {
		return QuestionDef{}, 0, err
	}
	if id < 1 {
		return QuestionDef{}, 0, models.ErrUnknownQuestion
	}
	pos := id - 1
	for ci, cat := range cats {
		if pos < len(cat.Questions) {
			return cat.Questions[pos], ci, nil
		}
		pos -= len(cat.Questions)
	}
	return QuestionDef{}, 0, models.ErrUnknownQuestion
}

// InferDefaultTarget derives a target from the question text when a category
// author did not state one explicitly. The keyword checks run in a fixed
// order; changing them would reprice historical questions.
func InferDefaultTarget(text string, formula Formula) float64 {
	low := strings.ToLower(text)
	if formula == FormulaRawPercent {
		return 100.0
	}
	if formula == FormulaLIB {
		switch {
		case strings.Contains(low, "min"):
			return 30.0
		case strings.Contains(low, "hrs"), strings.Contains(low, "hour"):
			return 24.0
		case strings.Contains(low, "days"), strings.Contains(low, "day"):
			return 7.0
		case strings.Contains(low, "count"):
			return 5.0
		}
		return 1.0
	}
	if strings.Contains(low, "turnover") {
		return 10.0
	}
	return 100.0
}
