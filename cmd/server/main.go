package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dermalens/backend/config"
	httpDelivery "github.com/dermalens/backend/internal/delivery/http"
	"github.com/dermalens/backend/internal/infrastructure/cache"
	"github.com/dermalens/backend/internal/infrastructure/catalog"
	"github.com/dermalens/backend/internal/infrastructure/embedding"
	"github.com/dermalens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting DermaLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s", cfg.Catalog.Path)

	// Initialize infrastructure dependencies
	embeddingClient := embedding.NewClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		embeddingClient.SetDebug(true)
		log.Printf("Embedding client debug mode enabled")
	}

	resultCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Load and normalize the catalog, then build the embedding index.
	// The server does not start listening until both complete, so every
	// request served sees a fully built, immutable catalog and index.
	ctx := context.Background()

	loader := catalog.NewLoader(cfg.Catalog.Path)
	rows, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	normalizer := usecase.NewNormalizer(usecase.NewIngredientAnalyzer())
	products := normalizer.NormalizeAll(rows)
	log.Printf("Normalized %d products", len(products))

	recommender, err := usecase.NewRecommenderService(
		ctx,
		embeddingClient,
		resultCache,
		products,
		usecase.RecommenderConfig{
			CacheTTL:           cfg.Cache.TTL,
			DefaultLimit:       cfg.Search.DefaultLimit,
			EnableDebugLogging: cfg.Search.EnableDebugLogging,
		},
	)
	if err != nil {
		log.Fatalf("Failed to build embedding index: %v", err)
	}

	comparer := usecase.NewComparisonService()
	extractor := usecase.NewQueryExtractor(cfg.Search.EnableDebugLogging)
	chatService := usecase.NewChatService(recommender, comparer, extractor)

	log.Printf("Search: default_limit=%d, debug=%v", cfg.Search.DefaultLimit, cfg.Search.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommender, comparer, chatService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
