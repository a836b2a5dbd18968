package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mealmetric/backend/internal/domain"
	"github.com/mealmetric/backend/internal/usecase"
)

const minQueryLength = 2

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	resolver *usecase.CalorieService
	batch    *usecase.BatchOrchestrator
}

// NewHandler creates a new HTTP handler.
func NewHandler(resolver *usecase.CalorieService, batch *usecase.BatchOrchestrator) *Handler {
	return &Handler{
		resolver: resolver,
		batch:    batch,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mealmetric-backend",
		"version": "1.0.0",
	})
}

type resolveRequest struct {
	DishName string  `json:"dishName" binding:"required"`
	Servings float64 `json:"servings" binding:"required"`
}

// ResolveCalories handles single-dish calorie resolution.
func (h *Handler) ResolveCalories(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dishName and servings are required"})
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), req.DishName, req.Servings)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type batchRequest struct {
	Items []domain.BatchItem `json:"items" binding:"required"`
}

// ResolveBatch handles multi-dish calorie resolution with partial-failure
// semantics.
func (h *Handler) ResolveBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items is required"})
		return
	}

	result, err := h.batch.ResolveBatch(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchFoods handles food candidate search.
func (h *Handler) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	if len(query) < minQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}

	opts := domain.SearchOptions{
		PageSize:   intQuery(c, "pageSize", 10),
		PageNumber: intQuery(c, "pageNumber", 0),
		DataType:   c.Query("dataType"),
	}

	candidates, err := h.resolver.Search(c.Request.Context(), query, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(candidates),
		"results": candidates,
	})
}

// GetFoodDetails handles single-food detail lookup.
func (h *Handler) GetFoodDetails(c *gin.Context) {
	candidate, err := h.resolver.FoodDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// Status reports provider info, connection health, and cache statistics.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.resolver.Status(c.Request.Context()))
}

// FlushCache clears cached entries, optionally restricted to keys
// containing the given pattern.
func (h *Handler) FlushCache(c *gin.Context) {
	cleared, all := h.resolver.FlushCache(c.Query("pattern"))
	if all {
		c.JSON(http.StatusOK, gin.H{"cleared": "all"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// respondError maps domain errors to HTTP statuses with stable user-facing
// messages. Upstream detail is logged, never surfaced.
func respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
		return
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	if pe, ok := domain.AsProviderError(err); ok {
		log.Printf("[HTTP] provider failure: %v", pe)
		status := http.StatusBadGateway
		switch pe.Kind {
		case domain.ProviderErrorRateLimited:
			status = http.StatusTooManyRequests
		case domain.ProviderErrorUnknown:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": pe.Kind.UserMessage()})
		return
	}

	log.Printf("[HTTP] unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
