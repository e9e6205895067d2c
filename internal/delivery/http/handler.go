package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommender *usecase.RecommenderService
	comparer    *usecase.ComparisonService
	chat        *usecase.ChatService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	recommender *usecase.RecommenderService,
	comparer *usecase.ComparisonService,
	chat *usecase.ChatService,
) *Handler {
	return &Handler{
		recommender: recommender,
		comparer:    comparer,
		chat:        chat,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	catalogSize := 0
	if h.recommender != nil {
		catalogSize = h.recommender.Size()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "dermalens-backend",
		"version":     "1.0.0",
		"catalogSize": catalogSize,
	})
}

// SearchProducts handles product search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.recommender.Search(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompareProducts handles pairwise product comparison requests
func (h *Handler) CompareProducts(c *gin.Context) {
	var request domain.CompareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	p1, err := h.recommender.ProductByID(request.ProductID1)
	if err != nil {
		respondWithError(c, err)
		return
	}
	p2, err := h.recommender.ProductByID(request.ProductID2)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.comparer.Compare(p1, p2))
}

// Chat handles conversational shopping requests
func (h *Handler) Chat(c *gin.Context) {
	var request domain.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	response, err := h.chat.HandleChat(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// respondWithError maps domain errors onto HTTP status codes
func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmbeddingAPIFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
