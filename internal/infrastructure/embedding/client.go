package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dermalens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with an OpenAI-compatible embeddings API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new embeddings API client
func NewClient(apiKey, baseURL, model string) *Client {
	// Hosted embedding APIs commonly allow ~3000 requests per minute;
	// 10/sec with a burst of 20 stays well inside that
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// embeddingRequest is the wire format of the embeddings endpoint
type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embeddingResponse is the OpenAI-compatible response shape
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Encode returns one embedding vector per input text, in input order.
// Failures are surfaced to the caller, not retried: a query-time failure
// fails that request, a build-time failure is fatal to readiness.
func (c *Client) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if c.debug {
		log.Printf("[EMBED] Encode called with %d texts", len(texts))
	}

	payload, err := json.Marshal(embeddingRequest{Input: texts, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/embeddings", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "DermaLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrEmbeddingAPIFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[EMBED] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrEmbeddingAPIFailure, resp.StatusCode)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrEmbeddingAPIFailure, err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
			domain.ErrEmbeddingAPIFailure, len(parsed.Data), len(texts))
	}

	// The API documents index-ordered responses; order by index anyway
	vectors := make([][]float64, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrEmbeddingAPIFailure, item.Index)
		}
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", domain.ErrEmbeddingAPIFailure, item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", domain.ErrEmbeddingAPIFailure, i)
		}
	}

	if c.debug {
		log.Printf("[EMBED] Encoded %d texts (dimension %d)", len(vectors), len(vectors[0]))
	}

	return vectors, nil
}
