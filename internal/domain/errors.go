package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id is not present in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrEmbeddingAPIFailure is returned when the embedding provider fails or
	// returns malformed output
	ErrEmbeddingAPIFailure = errors.New("embedding API request failed")

	// ErrCatalogLoadFailure is returned when the catalog source cannot be read
	ErrCatalogLoadFailure = errors.New("catalog load failed")
)
