package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// ComparisonService produces similarity/difference reports between two
// catalog products. It never fails on missing optional fields; only an
// unknown product id is an error, surfaced by the caller's lookup.
type ComparisonService struct{}

// NewComparisonService creates a new comparison service
func NewComparisonService() *ComparisonService {
	return &ComparisonService{}
}

// Compare builds the report for two products
func (s *ComparisonService) Compare(p1, p2 *domain.Product) *domain.Comparison {
	similarities := []string{}
	differences := map[string][]string{
		p1.Name: {},
		p2.Name: {},
	}

	if p1.Brand == p2.Brand {
		similarities = append(similarities, fmt.Sprintf("Same brand: %s", p1.Brand))
	} else {
		differences[p1.Name] = append(differences[p1.Name], fmt.Sprintf("Brand: %s", p1.Brand))
		differences[p2.Name] = append(differences[p2.Name], fmt.Sprintf("Brand: %s", p2.Brand))
	}

	// Shared tags are a similarity; disjoint tag sets produce no fact at all
	if len(p1.SkinTypes) > 0 && len(p2.SkinTypes) > 0 {
		if common := intersectOrdered(p1.SkinTypes, p2.SkinTypes); len(common) > 0 {
			similarities = append(similarities, fmt.Sprintf("Suitable for %s skin", strings.Join(common, ", ")))
		}
	}

	if len(p1.SkincareConcerns) > 0 && len(p2.SkincareConcerns) > 0 {
		if common := intersectOrdered(p1.SkincareConcerns, p2.SkincareConcerns); len(common) > 0 {
			similarities = append(similarities, fmt.Sprintf("Addresses %s", strings.Join(common, ", ")))
		}
	}

	if p1.Formulation == p2.Formulation {
		similarities = append(similarities, fmt.Sprintf("Same formulation: %s", p1.Formulation))
	} else {
		differences[p1.Name] = append(differences[p1.Name], fmt.Sprintf("Formulation: %s", p1.Formulation))
		differences[p2.Name] = append(differences[p2.Name], fmt.Sprintf("Formulation: %s", p2.Formulation))
	}

	var overlap float64
	if p1.Ingredients != "" && p2.Ingredients != "" {
		overlap = jaccardOverlap(p1.IngredientAnalysis.Ingredients, p2.IngredientAnalysis.Ingredients)

		if common := intersectOrdered(p1.IngredientAnalysis.KeyBenefits, p2.IngredientAnalysis.KeyBenefits); len(common) > 0 {
			similarities = append(similarities, fmt.Sprintf("Shared beneficial ingredients: %s", strings.Join(common, ", ")))
		}
	}

	return &domain.Comparison{
		Similarities:      similarities,
		Differences:       differences,
		PriceDifference:   math.Abs(p1.Price - p2.Price),
		RatingDifference:  math.Abs(ratingOrZero(p1) - ratingOrZero(p2)),
		IngredientOverlap: overlap,
	}
}

// ratingOrZero treats an absent rating as 0 for difference computation
func ratingOrZero(p *domain.Product) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// intersectOrdered returns the elements of a that also occur in b, keeping
// a's order and dropping duplicates
func intersectOrdered(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, item := range b {
		set[item] = true
	}

	var common []string
	seen := make(map[string]bool)
	for _, item := range a {
		if set[item] && !seen[item] {
			common = append(common, item)
			seen[item] = true
		}
	}
	return common
}

// jaccardOverlap computes |intersection| / |union| over two token lists
// treated as sets. Symmetric by construction; 1.0 for identical non-empty
// sets, 0 when the union is empty.
func jaccardOverlap(tokens1, tokens2 []string) float64 {
	set1 := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set1[t] = true
	}

	union := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		union[t] = true
	}
	intersection := 0
	counted := make(map[string]bool)
	for _, t := range tokens2 {
		union[t] = true
		if set1[t] && !counted[t] {
			intersection++
			counted[t] = true
		}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}
