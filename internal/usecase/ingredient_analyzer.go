package usecase

import (
	"fmt"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// harmfulCategories maps a harmful-ingredient category to its known member
// substances. Matching is substring containment against each ingredient
// token, so compound phrasings like "methylparaben (preservative)" still hit.
var harmfulCategories = []struct {
	category string
	members  []string
}{
	{"parabens", []string{"methylparaben", "propylparaben", "butylparaben"}},
	{"sulfates", []string{"sodium lauryl sulfate", "sodium laureth sulfate"}},
	{"phthalates", []string{"dibutyl phthalate", "diethyl phthalate"}},
	{"formaldehyde", []string{"quaternium-15", "dmdm hydantoin", "imidazolidinyl urea"}},
}

// commonAllergens are known allergen substances and fragrance terms
var commonAllergens = []string{
	"fragrance", "parfum", "essential oils", "lanolin",
	"propylene glycol", "methylisothiazolinone",
}

// beneficialCategories maps a benefit category to its known member substances
var beneficialCategories = []struct {
	category string
	members  []string
}{
	{"hydrating", []string{"hyaluronic acid", "glycerin", "ceramides", "squalane"}},
	{"antioxidants", []string{"vitamin c", "vitamin e", "niacinamide", "green tea"}},
	{"exfoliating", []string{"salicylic acid", "glycolic acid", "lactic acid"}},
	{"soothing", []string{"aloe vera", "centella asiatica", "chamomile", "allantoin"}},
}

// IngredientAnalyzer classifies raw ingredient lists against fixed rule tables
type IngredientAnalyzer struct{}

// NewIngredientAnalyzer creates a new ingredient analyzer
func NewIngredientAnalyzer() *IngredientAnalyzer {
	return &IngredientAnalyzer{}
}

// Analyze splits a raw comma-separated ingredient string into lowercase
// tokens and classifies them. Empty or whitespace-only input yields an
// analysis with all fields empty; this never fails, so classification can
// never abort catalog normalization.
func (a *IngredientAnalyzer) Analyze(ingredients string) domain.IngredientAnalysis {
	if strings.TrimSpace(ingredients) == "" {
		return emptyAnalysis()
	}

	tokens := make([]string, 0)
	for _, part := range strings.Split(ingredients, ",") {
		tokens = append(tokens, strings.ToLower(strings.TrimSpace(part)))
	}

	var harmful []string
	for _, group := range harmfulCategories {
		for _, member := range group.members {
			if anyTokenContains(tokens, member) {
				harmful = append(harmful, member)
			}
		}
	}

	var allergens []string
	for _, allergen := range commonAllergens {
		if anyTokenContains(tokens, allergen) {
			allergens = append(allergens, allergen)
		}
	}

	var benefits []string
	for _, group := range beneficialCategories {
		var found []string
		for _, member := range group.members {
			if anyTokenContains(tokens, member) {
				found = append(found, member)
			}
		}
		if len(found) > 0 {
			benefits = append(benefits, fmt.Sprintf("%s: %s", titleCase(group.category), strings.Join(found, ", ")))
		}
	}

	return domain.IngredientAnalysis{
		Ingredients:        tokens,
		PotentiallyHarmful: harmful,
		KeyBenefits:        benefits,
		CommonAllergens:    allergens,
	}
}

// emptyAnalysis returns the all-empty fallback analysis
func emptyAnalysis() domain.IngredientAnalysis {
	return domain.IngredientAnalysis{
		Ingredients:        []string{},
		PotentiallyHarmful: []string{},
		KeyBenefits:        []string{},
		CommonAllergens:    []string{},
	}
}

// anyTokenContains reports whether the substance occurs as a substring of
// any ingredient token. Tokens are already lowercase.
func anyTokenContains(tokens []string, substance string) bool {
	for _, token := range tokens {
		if strings.Contains(token, substance) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of a category label
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
