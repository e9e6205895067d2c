package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dermalens/backend/internal/domain"
)

// Package-level compiled regex patterns for cache key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// RecommenderConfig holds configuration for the recommender service
type RecommenderConfig struct {
	CacheTTL           time.Duration
	DefaultLimit       int
	EnableDebugLogging bool
}

// RecommenderService answers product searches by combining vector similarity
// over the catalog with structured constraint filtering. The catalog and its
// embedding index are built once at startup and are immutable afterwards, so
// concurrent searches need no locking; the result cache is the only shared
// mutable state and locks internally.
type RecommenderService struct {
	products     []domain.Product
	vectors      [][]float64
	embedder     domain.Embedder
	filterEngine *FilterEngine
	cache        domain.CacheRepository
	cacheTTL     time.Duration
	defaultLimit int
	debugLogging bool
}

// NewRecommenderService normalizes nothing itself; it receives the normalized
// catalog and builds the embedding index with a single batched encode call.
// An embedding failure here is fatal to process readiness.
func NewRecommenderService(
	ctx context.Context,
	embedder domain.Embedder,
	cache domain.CacheRepository,
	products []domain.Product,
	config RecommenderConfig,
) (*RecommenderService, error) {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 3
	}

	svc := &RecommenderService{
		products:     products,
		embedder:     embedder,
		filterEngine: NewFilterEngine(config.EnableDebugLogging),
		cache:        cache,
		cacheTTL:     cacheTTL,
		defaultLimit: defaultLimit,
		debugLogging: config.EnableDebugLogging,
	}

	if len(products) == 0 {
		log.Printf("[EMBED] Catalog is empty, skipping index build")
		return svc, nil
	}

	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = synthesisText(p)
	}

	log.Printf("[EMBED] Building embedding index for %d products", len(products))
	vectors, err := embedder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: index build: %v", domain.ErrEmbeddingAPIFailure, err)
	}
	if len(vectors) != len(products) {
		return nil, fmt.Errorf("%w: index build returned %d vectors for %d products",
			domain.ErrEmbeddingAPIFailure, len(vectors), len(products))
	}
	svc.vectors = vectors
	log.Printf("[EMBED] Index ready (dimension %d)", len(vectors[0]))

	return svc, nil
}

// synthesisText builds the single string embedded per product
func synthesisText(p domain.Product) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s %s %s",
		p.Name, p.Brand, p.Description,
		strings.Join(p.SkinTypes, " "),
		strings.Join(p.SkincareConcerns, " ")))
}

// Size returns the number of products in the catalog
func (s *RecommenderService) Size() int {
	return len(s.products)
}

// ProductByID looks up a product by its catalog id
func (s *RecommenderService) ProductByID(id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, id)
}

// Search retrieves the top products for a query under the given constraints.
// Flow: check cache -> encode query -> similarity + filter mask -> rank -> cache
func (s *RecommenderService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil || strings.TrimSpace(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if request.Limit < 0 {
		return nil, domain.ErrInvalidRequest
	}

	limit := request.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}

	if len(s.products) == 0 {
		return &domain.SearchResult{Products: []domain.Product{}, Source: "Index"}, nil
	}

	cacheKey := s.generateCacheKey(request, limit)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		return cached, nil
	}

	vectors, err := s.embedder.Encode(ctx, []string{request.Query})
	if err != nil {
		return nil, fmt.Errorf("%w: query encode: %v", domain.ErrEmbeddingAPIFailure, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: query encode returned %d vectors", domain.ErrEmbeddingAPIFailure, len(vectors))
	}

	similarities, err := s.similarities(vectors[0])
	if err != nil {
		return nil, err
	}
	mask := s.filterEngine.ApplyConstraints(s.products, request.Constraints)

	ranked := rankTop(s.products, similarities, mask, limit)

	if s.debugLogging {
		log.Printf("[MATCH] Query %q returned %d of %d products", request.Query, len(ranked), len(s.products))
	}

	result := &domain.SearchResult{Products: ranked, Source: "Index"}
	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		log.Printf("[CACHE] Failed to store search result: %v", err)
	}

	return result, nil
}

// similarities computes the dot product of each product vector against the
// query vector, aligned to catalog order. Vectors arrive unit-scaled from the
// embedding provider, so the dot product is a relative ranking score. A query
// vector whose dimension differs from the index is malformed provider output
// and fails the request rather than ranking on wrong scores.
func (s *RecommenderService) similarities(query []float64) ([]float64, error) {
	scores := make([]float64, len(s.vectors))
	for i, vec := range s.vectors {
		if len(vec) != len(query) {
			return nil, fmt.Errorf("%w: query dimension %d does not match index dimension %d",
				domain.ErrEmbeddingAPIFailure, len(query), len(vec))
		}
		var dot float64
		for j := range vec {
			dot += vec[j] * query[j]
		}
		scores[i] = dot
	}
	return scores, nil
}

// rankTop selects up to n products by descending similarity. Products whose
// mask bit is false are forced to -Inf and dropped entirely rather than
// padding short result sets with non-matches. Equal scores keep ascending
// catalog order.
func rankTop(products []domain.Product, similarities []float64, mask []bool, n int) []domain.Product {
	scores := make([]float64, len(similarities))
	copy(scores, similarities)
	for i, ok := range mask {
		if !ok {
			scores[i] = math.Inf(-1)
		}
	}

	indices := make([]int, len(products))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	results := make([]domain.Product, 0, n)
	for _, idx := range indices {
		if len(results) >= n {
			break
		}
		if math.IsInf(scores[idx], -1) {
			break
		}
		results = append(results, products[idx])
	}
	return results
}

// generateCacheKey creates a normalized cache key from a search request.
// Format: "search:{normalized_query}:{constraint_fingerprint}:{limit}"
func (s *RecommenderService) generateCacheKey(request *domain.SearchRequest, limit int) string {
	normalized := normalizeForCacheKey(request.Query)
	return fmt.Sprintf("search:%s:%s:%d", normalized, constraintFingerprint(request.Constraints), limit)
}

// normalizeForCacheKey normalizes a string for use as a cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// constraintFingerprint renders constraints into a stable key fragment
func constraintFingerprint(c *domain.Constraints) string {
	if c == nil {
		return "none"
	}
	var b strings.Builder
	if c.PriceRange != nil {
		fmt.Fprintf(&b, "p%.2f-%.2f", c.PriceRange.Min, c.PriceRange.Max)
	}
	if c.SkinType != "" {
		fmt.Fprintf(&b, "s%s", normalizeForCacheKey(c.SkinType))
	}
	if c.Concerns != "" {
		fmt.Fprintf(&b, "c%s", normalizeForCacheKey(c.Concerns))
	}
	if c.Brand != "" {
		fmt.Fprintf(&b, "b%s", normalizeForCacheKey(c.Brand))
	}
	if c.RatingMin != nil {
		fmt.Fprintf(&b, "r%.1f", *c.RatingMin)
	}
	for _, excluded := range c.ExcludedIngredients {
		fmt.Fprintf(&b, "x%s", normalizeForCacheKey(excluded))
	}
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}
