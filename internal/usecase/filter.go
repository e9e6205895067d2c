package usecase

import (
	"log"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// FilterEngine evaluates structured constraints against normalized products,
// producing a boolean mask aligned to catalog order
type FilterEngine struct {
	enableDebugLogging bool
}

// NewFilterEngine creates a new filter engine
func NewFilterEngine(enableDebugLogging bool) *FilterEngine {
	return &FilterEngine{enableDebugLogging: enableDebugLogging}
}

// ApplyConstraints computes the inclusion mask for the given constraints.
// The mask starts all-true and is narrowed conjunctively by each present
// constraint. Unsatisfiable bounds (an inverted price range, a rating floor
// above the scale) are applied as-is and empty the mask. A constraint that
// cannot be evaluated at all is skipped with the mask restored to its state
// before that constraint; the remaining constraints still apply.
func (f *FilterEngine) ApplyConstraints(products []domain.Product, constraints *domain.Constraints) []bool {
	mask := make([]bool, len(products))
	for i := range mask {
		mask[i] = true
	}
	if constraints == nil {
		return mask
	}

	type constraint struct {
		name  string
		apply func([]bool) error
	}

	steps := []constraint{
		{"price_range", func(m []bool) error {
			if constraints.PriceRange == nil {
				return nil
			}
			lo, hi := constraints.PriceRange.Min, constraints.PriceRange.Max
			for i, p := range products {
				m[i] = m[i] && p.Price >= lo && p.Price <= hi
			}
			return nil
		}},
		{"skin_type", func(m []bool) error {
			if constraints.SkinType == "" {
				return nil
			}
			for i, p := range products {
				m[i] = m[i] && containsTag(p.SkinTypes, constraints.SkinType)
			}
			return nil
		}},
		{"concerns", func(m []bool) error {
			if constraints.Concerns == "" {
				return nil
			}
			for i, p := range products {
				m[i] = m[i] && containsTag(p.SkincareConcerns, constraints.Concerns)
			}
			return nil
		}},
		{"brand", func(m []bool) error {
			if constraints.Brand == "" {
				return nil
			}
			brand := strings.ToLower(constraints.Brand)
			for i, p := range products {
				m[i] = m[i] && p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), brand)
			}
			return nil
		}},
		{"rating_min", func(m []bool) error {
			if constraints.RatingMin == nil {
				return nil
			}
			threshold := *constraints.RatingMin
			for i, p := range products {
				// Products without a rating never satisfy a rating floor
				m[i] = m[i] && p.Rating != nil && *p.Rating >= threshold
			}
			return nil
		}},
	}

	for _, step := range steps {
		next := make([]bool, len(mask))
		copy(next, mask)
		if err := step.apply(next); err != nil {
			log.Printf("[FILTER] Skipping constraint %s: %v", step.name, err)
			continue
		}
		mask = next
	}

	// Ingredient exclusions are negative filters over the raw ingredient
	// text, independent of the structured constraints above
	for _, excluded := range constraints.ExcludedIngredients {
		needle := strings.ToLower(strings.TrimSpace(excluded))
		if needle == "" {
			continue
		}
		for i, p := range products {
			if strings.Contains(strings.ToLower(p.Ingredients), needle) {
				mask[i] = false
			}
		}
	}

	if f.enableDebugLogging {
		kept := 0
		for _, ok := range mask {
			if ok {
				kept++
			}
		}
		log.Printf("[FILTER] %d of %d products pass constraints", kept, len(products))
	}

	return mask
}

// containsTag performs an exact membership test against a tag set
func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
