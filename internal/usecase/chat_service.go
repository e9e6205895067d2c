package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// ChatService turns free-text shopping messages into recommendations or
// product comparisons, with a human-readable reply
type ChatService struct {
	recommender *RecommenderService
	comparer    *ComparisonService
	extractor   *QueryExtractor
}

// NewChatService creates a new chat service
func NewChatService(recommender *RecommenderService, comparer *ComparisonService, extractor *QueryExtractor) *ChatService {
	return &ChatService{
		recommender: recommender,
		comparer:    comparer,
		extractor:   extractor,
	}
}

// HandleChat routes the latest message to comparison or retrieval.
// Explicit constraints/exclusions on the request take precedence over
// anything extracted from the message text.
func (s *ChatService) HandleChat(ctx context.Context, request *domain.ChatRequest) (*domain.ChatResponse, error) {
	if request == nil || len(request.Messages) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	message := request.Messages[len(request.Messages)-1].Content
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrInvalidRequest
	}

	if id1, id2, ok := s.extractor.ExtractComparison(message); ok {
		p1, err := s.recommender.ProductByID(id1)
		if err != nil {
			return nil, err
		}
		p2, err := s.recommender.ProductByID(id2)
		if err != nil {
			return nil, err
		}
		comparison := s.comparer.Compare(p1, p2)
		return &domain.ChatResponse{
			Response:   formatComparisonResponse(comparison),
			Comparison: comparison,
		}, nil
	}

	// Work on a copy so the caller's constraints are never mutated
	var constraints *domain.Constraints
	if request.Constraints != nil {
		copied := *request.Constraints
		constraints = &copied
	} else {
		constraints = s.extractor.ExtractConstraints(message)
	}
	excluded := request.ExcludedIngredients
	if len(excluded) == 0 && constraints != nil {
		excluded = constraints.ExcludedIngredients
	}
	if len(excluded) == 0 {
		excluded = s.extractor.ExtractExclusions(message)
	}
	if len(excluded) > 0 {
		if constraints == nil {
			constraints = &domain.Constraints{}
		}
		constraints.ExcludedIngredients = excluded
	}

	result, err := s.recommender.Search(ctx, &domain.SearchRequest{
		Query:       message,
		Constraints: constraints,
	})
	if err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		Response: formatProductResponse(result.Products, excluded),
		Products: result.Products,
	}, nil
}

// formatProductResponse renders a recommendation list as conversational text
func formatProductResponse(products []domain.Product, excluded []string) string {
	if len(products) == 0 {
		return "I couldn't find any products matching your criteria. Could you try with different requirements?"
	}

	top := products[0]
	var b strings.Builder
	fmt.Fprintf(&b, "I found some products that match your needs. The top recommendation is %s by %s ($%.2f). ",
		top.Name, top.Brand, top.Price)

	if top.Rating != nil {
		fmt.Fprintf(&b, "It has a rating of %g/5", *top.Rating)
		if top.Reviews != nil {
			fmt.Fprintf(&b, " based on %d reviews", *top.Reviews)
		}
		b.WriteString(". ")
	}

	if len(top.SkinTypes) > 0 {
		fmt.Fprintf(&b, "It's suitable for %s skin types. ", strings.Join(top.SkinTypes, ", "))
	}

	if len(excluded) > 0 {
		fmt.Fprintf(&b, "As requested, this product doesn't contain %s. ", strings.Join(excluded, ", "))
	}

	if len(products) > 1 {
		b.WriteString("\n\nAlternative options include: ")
		for _, p := range products[1:] {
			fmt.Fprintf(&b, "\n- %s by %s ($%.2f)", p.Name, p.Brand, p.Price)
		}
	}

	return b.String()
}

// formatComparisonResponse renders a comparison report as conversational text
func formatComparisonResponse(c *domain.Comparison) string {
	var b strings.Builder
	b.WriteString("Here's how these products compare:\n\n")

	if len(c.Similarities) > 0 {
		b.WriteString("Similarities:\n")
		for _, similarity := range c.Similarities {
			fmt.Fprintf(&b, "- %s\n", similarity)
		}
	}

	b.WriteString("\nDifferences:\n")
	for product, diffs := range c.Differences {
		if len(diffs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", product)
		for _, diff := range diffs {
			fmt.Fprintf(&b, "- %s\n", diff)
		}
	}

	fmt.Fprintf(&b, "\nPrice difference: $%.2f", c.PriceDifference)
	if c.RatingDifference > 0 {
		fmt.Fprintf(&b, "\nRating difference: %.1f stars", c.RatingDifference)
	}
	if c.IngredientOverlap > 0 {
		fmt.Fprintf(&b, "\nIngredient similarity: %.1f%%", c.IngredientOverlap*100)
	}

	return b.String()
}
