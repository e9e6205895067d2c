package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dermalens/backend/internal/domain"
)

func newTestChatService(t *testing.T) *ChatService {
	t.Helper()

	analyzer := NewIngredientAnalyzer()
	products := []domain.Product{
		{ID: "p1", Name: "Dew Gel", Brand: "Acme", Price: 12, SkinTypes: []string{"dry"},
			Rating: ratingOf(4.4), Ingredients: "Water, Glycerin"},
		{ID: "p2", Name: "Matte Foam", Brand: "Acme", Price: 22, SkinTypes: []string{"oily"},
			Ingredients: "Water, Salicylic Acid, Fragrance"},
		{ID: "p3", Name: "Velvet Cream", Brand: "Zed", Price: 35, SkinTypes: []string{"dry"},
			Ingredients: "Water, Ceramides"},
	}
	for i := range products {
		products[i].IngredientAnalysis = analyzer.Analyze(products[i].Ingredients)
	}

	// All inputs embed identically, so ranking degrades to catalog order and
	// only the constraint filters decide what comes back
	embedder := &fakeEmbedder{fallback: []float64{1, 0, 0}}
	recommender := newTestRecommender(t, products, embedder)

	return NewChatService(recommender, NewComparisonService(), NewQueryExtractor(false))
}

func TestHandleChat(t *testing.T) {
	ctx := context.Background()

	userMessage := func(content string) *domain.ChatRequest {
		return &domain.ChatRequest{Messages: []domain.ChatMessage{{Role: "user", Content: content}}}
	}

	t.Run("rejects empty conversations", func(t *testing.T) {
		svc := newTestChatService(t)

		for _, request := range []*domain.ChatRequest{
			nil,
			{},
			{Messages: []domain.ChatMessage{}},
			userMessage("   "),
		} {
			if _, err := svc.HandleChat(ctx, request); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("HandleChat(%+v) error = %v, want ErrInvalidRequest", request, err)
			}
		}
	})

	t.Run("recommends products for a shopping message", func(t *testing.T) {
		svc := newTestChatService(t)

		response, err := svc.HandleChat(ctx, userMessage("serum for oily skin"))
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		if len(response.Products) != 1 || response.Products[0].ID != "p2" {
			t.Fatalf("Products = %+v, want only p2", response.Products)
		}
		if !strings.Contains(response.Response, "Matte Foam") {
			t.Errorf("Response = %q, want the top recommendation named", response.Response)
		}
		if response.Comparison != nil {
			t.Error("Comparison should be empty for a recommendation reply")
		}
	})

	t.Run("extracted price caps narrow results", func(t *testing.T) {
		svc := newTestChatService(t)

		response, err := svc.HandleChat(ctx, userMessage("dry skin cream under $20"))
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		// p1 is the only dry-skin product under $20
		if len(response.Products) != 1 || response.Products[0].ID != "p1" {
			t.Errorf("Products = %+v, want only p1", response.Products)
		}
	})

	t.Run("explicit constraints take precedence over extraction", func(t *testing.T) {
		svc := newTestChatService(t)

		request := userMessage("serum for oily skin")
		request.Constraints = &domain.Constraints{Brand: "Zed"}

		response, err := svc.HandleChat(ctx, request)
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		// The explicit brand filter replaces the extracted oily-skin filter
		if len(response.Products) != 1 || response.Products[0].ID != "p3" {
			t.Errorf("Products = %+v, want only p3", response.Products)
		}
	})

	t.Run("extracted exclusions drop matching products and are echoed", func(t *testing.T) {
		svc := newTestChatService(t)

		response, err := svc.HandleChat(ctx, userMessage("a cleanser without fragrance"))
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		for _, p := range response.Products {
			if p.ID == "p2" {
				t.Error("p2 contains fragrance and should have been excluded")
			}
		}
		if !strings.Contains(response.Response, "doesn't contain fragrance") {
			t.Errorf("Response = %q, want exclusion note", response.Response)
		}
	})

	t.Run("exclusions on explicit constraints are not overwritten by extraction", func(t *testing.T) {
		svc := newTestChatService(t)

		request := userMessage("a cleanser without ceramides")
		request.Constraints = &domain.Constraints{ExcludedIngredients: []string{"fragrance"}}

		response, err := svc.HandleChat(ctx, request)
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		// The explicit fragrance exclusion wins over the extracted one, so p2
		// is dropped while the ceramide product p3 survives
		sawP3 := false
		for _, p := range response.Products {
			if p.ID == "p2" {
				t.Error("p2 contains fragrance and should have been excluded")
			}
			if p.ID == "p3" {
				sawP3 = true
			}
		}
		if !sawP3 {
			t.Errorf("Products = %+v, want p3 included", response.Products)
		}
		if !strings.Contains(response.Response, "doesn't contain fragrance") {
			t.Errorf("Response = %q, want the explicit exclusion echoed", response.Response)
		}
	})

	t.Run("caller constraints are not mutated", func(t *testing.T) {
		svc := newTestChatService(t)

		request := userMessage("a toner without fragrance")
		request.Constraints = &domain.Constraints{Brand: "Acme"}

		if _, err := svc.HandleChat(ctx, request); err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		if request.Constraints.ExcludedIngredients != nil {
			t.Errorf("request.Constraints.ExcludedIngredients = %v, want untouched nil",
				request.Constraints.ExcludedIngredients)
		}
	})

	t.Run("no matches produce a retry prompt", func(t *testing.T) {
		svc := newTestChatService(t)

		request := userMessage("anything at all")
		request.Constraints = &domain.Constraints{Brand: "NoSuchBrand"}

		response, err := svc.HandleChat(ctx, request)
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}
		if len(response.Products) != 0 {
			t.Errorf("Products = %+v, want empty", response.Products)
		}
		if !strings.Contains(response.Response, "couldn't find any products") {
			t.Errorf("Response = %q, want retry prompt", response.Response)
		}
	})

	t.Run("routes comparison messages", func(t *testing.T) {
		svc := newTestChatService(t)

		response, err := svc.HandleChat(ctx, userMessage("compare p1 and p2"))
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}

		if response.Comparison == nil {
			t.Fatal("expected a comparison payload")
		}
		if response.Comparison.PriceDifference != 10 {
			t.Errorf("PriceDifference = %v, want 10", response.Comparison.PriceDifference)
		}
		if !strings.Contains(response.Response, "Price difference: $10.00") {
			t.Errorf("Response = %q, want formatted price difference", response.Response)
		}
		if len(response.Products) != 0 {
			t.Error("Products should be empty for a comparison reply")
		}
	})

	t.Run("comparison with unknown id surfaces not-found", func(t *testing.T) {
		svc := newTestChatService(t)

		_, err := svc.HandleChat(ctx, userMessage("compare p1 and p999"))
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("only the latest message is interpreted", func(t *testing.T) {
		svc := newTestChatService(t)

		request := &domain.ChatRequest{Messages: []domain.ChatMessage{
			{Role: "user", Content: "compare p1 and p2"},
			{Role: "assistant", Content: "Here's how these products compare..."},
			{Role: "user", Content: "now something for oily skin"},
		}}

		response, err := svc.HandleChat(ctx, request)
		if err != nil {
			t.Fatalf("HandleChat() error = %v", err)
		}
		if response.Comparison != nil {
			t.Error("earlier comparison turn should not drive the reply")
		}
		if len(response.Products) != 1 || response.Products[0].ID != "p2" {
			t.Errorf("Products = %+v, want only p2", response.Products)
		}
	})
}

func TestFormatProductResponse(t *testing.T) {
	reviews := 88

	products := []domain.Product{
		{ID: "p1", Name: "Dew Gel", Brand: "Acme", Price: 12.5,
			Rating: ratingOf(4.4), Reviews: &reviews, SkinTypes: []string{"dry", "normal"}},
		{ID: "p3", Name: "Velvet Cream", Brand: "Zed", Price: 35},
	}

	t.Run("names the top product with price and rating", func(t *testing.T) {
		got := formatProductResponse(products, nil)

		for _, want := range []string{
			"Dew Gel by Acme ($12.50)",
			"rating of 4.4/5",
			"based on 88 reviews",
			"suitable for dry, normal skin types",
			"Velvet Cream by Zed ($35.00)",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("response missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("mentions requested exclusions", func(t *testing.T) {
		got := formatProductResponse(products, []string{"parabens", "sulfates"})
		if !strings.Contains(got, "doesn't contain parabens, sulfates") {
			t.Errorf("response missing exclusion note:\n%s", got)
		}
	})

	t.Run("single result has no alternatives section", func(t *testing.T) {
		got := formatProductResponse(products[:1], nil)
		if strings.Contains(got, "Alternative options") {
			t.Errorf("unexpected alternatives section:\n%s", got)
		}
	})
}

func TestFormatComparisonResponse(t *testing.T) {
	comparison := &domain.Comparison{
		Similarities: []string{"Same brand: Acme"},
		Differences: map[string][]string{
			"Dew Gel":    {"Formulation: Gel"},
			"Matte Foam": {"Formulation: Foam"},
		},
		PriceDifference:   10,
		RatingDifference:  0.5,
		IngredientOverlap: 0.25,
	}

	got := formatComparisonResponse(comparison)

	for _, want := range []string{
		"Same brand: Acme",
		"Formulation: Gel",
		"Formulation: Foam",
		"Price difference: $10.00",
		"Rating difference: 0.5 stars",
		"Ingredient similarity: 25.0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("response missing %q:\n%s", want, got)
		}
	}
}
