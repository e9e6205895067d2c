package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching search results
type CacheRepository interface {
	Get(ctx context.Context, key string) (*SearchResult, error)
	Set(ctx context.Context, key string, value *SearchResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Embedder defines the interface for the external text embedding capability.
// Encode is deterministic for identical inputs and returns one fixed-length
// vector per input string, in input order.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// CatalogSource defines the interface for loading raw catalog rows
type CatalogSource interface {
	Load(ctx context.Context) ([]RawProductRow, error)
}

// RawProductRow is one unnormalized catalog row as read from the source.
// Absent columns are empty strings; normalization handles all coercion.
type RawProductRow struct {
	PID         string
	Name        string
	Brand       string
	Price       string
	Category    string
	Description string
	Rating      string
	Reviews     string
	Ingredients string
}
