package domain

// Product represents a normalized catalog product. Every field is populated
// at load time; malformed source data degrades to zero values rather than
// failing normalization.
type Product struct {
	ID                 string             `json:"pid"`
	Name               string             `json:"name"`
	Brand              string             `json:"brand"`
	Price              float64            `json:"price"`
	Category           string             `json:"category,omitempty"`
	Description        string             `json:"description,omitempty"`
	Rating             *float64           `json:"rating,omitempty"`
	Reviews            *int               `json:"reviews,omitempty"`
	Ingredients        string             `json:"ingredients,omitempty"`
	SkinTypes          []string           `json:"skinTypes,omitempty"`
	SkincareConcerns   []string           `json:"skincareConcerns,omitempty"`
	Formulation        string             `json:"formulation,omitempty"`
	IngredientAnalysis IngredientAnalysis `json:"ingredientAnalysis"`
}

// IngredientAnalysis is the rule-table classification of a product's
// ingredient list.
type IngredientAnalysis struct {
	Ingredients        []string `json:"ingredientsList"`
	PotentiallyHarmful []string `json:"potentiallyHarmful"`
	KeyBenefits        []string `json:"keyBenefits"`
	CommonAllergens    []string `json:"commonAllergens"`
}

// PriceRange is an inclusive [Min, Max] price filter.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Constraints narrows a product search. All fields are optional and combine
// conjunctively; ExcludedIngredients drops any product whose raw ingredient
// text contains one of the strings (case-insensitive).
type Constraints struct {
	PriceRange          *PriceRange `json:"priceRange,omitempty"`
	SkinType            string      `json:"skinType,omitempty"`
	Concerns            string      `json:"concerns,omitempty"`
	Brand               string      `json:"brand,omitempty"`
	RatingMin           *float64    `json:"ratingMin,omitempty"`
	ExcludedIngredients []string    `json:"excludedIngredients,omitempty"`
}

// SearchRequest represents a product search request
type SearchRequest struct {
	Query       string       `json:"query" binding:"required"`
	Constraints *Constraints `json:"constraints,omitempty"`
	Limit       int          `json:"limit,omitempty"`
}

// SearchResult holds the ranked products for a search
type SearchResult struct {
	Products []Product `json:"products"`
	Source   string    `json:"source"` // "Index" or "Cache"
}

// CompareRequest asks for a comparison of two catalog products by id
type CompareRequest struct {
	ProductID1 string `json:"productId1" binding:"required"`
	ProductID2 string `json:"productId2" binding:"required"`
}

// Comparison is a human-readable similarity/difference report between two
// products. Differences is keyed by product name, one entry per compared
// product.
type Comparison struct {
	Similarities      []string            `json:"similarities"`
	Differences       map[string][]string `json:"differences"`
	PriceDifference   float64             `json:"priceDifference"`
	RatingDifference  float64             `json:"ratingDifference"`
	IngredientOverlap float64             `json:"ingredientOverlap"`
}

// ChatMessage is one turn of a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the conversation plus optional explicit filters.
// When Constraints or ExcludedIngredients are set they take precedence over
// anything extracted from the message text.
type ChatRequest struct {
	Messages            []ChatMessage `json:"messages" binding:"required"`
	Constraints         *Constraints  `json:"constraints,omitempty"`
	ExcludedIngredients []string      `json:"excludedIngredients,omitempty"`
}

// ChatResponse is the formatted answer plus any structured payload that
// produced it
type ChatResponse struct {
	Response   string      `json:"response"`
	Products   []Product   `json:"products,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty"`
}
