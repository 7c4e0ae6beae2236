package enums

import (
	"fmt"
	"strings"
)

// ArticleCategory is the editorial taxonomy used to group articles.
type ArticleCategory string

const (
	ArticleCategoryTactics       ArticleCategory = "TACTICS"
	ArticleCategoryTechnique     ArticleCategory = "TECHNIQUE"
	ArticleCategoryFitness       ArticleCategory = "FITNESS"
	ArticleCategoryNutrition     ArticleCategory = "NUTRITION"
	ArticleCategoryPsychology    ArticleCategory = "PSYCHOLOGY"
	ArticleCategoryTrainingPlans ArticleCategory = "TRAINING_PLANS"
	ArticleCategoryMatchAnalysis ArticleCategory = "MATCH_ANALYSIS"
	ArticleCategoryParentGuide   ArticleCategory = "PARENT_GUIDE"
	ArticleCategoryNews          ArticleCategory = "NEWS"
)

var validArticleCategories = []ArticleCategory{
	ArticleCategoryTactics,
	ArticleCategoryTechnique,
	ArticleCategoryFitness,
	ArticleCategoryNutrition,
	ArticleCategoryPsychology,
	ArticleCategoryTrainingPlans,
	ArticleCategoryMatchAnalysis,
	ArticleCategoryParentGuide,
	ArticleCategoryNews,
}

// String implements fmt.Stringer.
func (c ArticleCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ArticleCategory.
func (c ArticleCategory) IsValid() bool {
	for _, candidate := range validArticleCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseArticleCategory converts raw input into an ArticleCategory.
func ParseArticleCategory(value string) (ArticleCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validArticleCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid article category %q", value)
}
