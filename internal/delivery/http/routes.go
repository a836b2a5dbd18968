package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mealmetric/backend/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health and introspection endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		calories := v1.Group("/calories")
		{
			calories.POST("/resolve", handler.ResolveCalories)
			calories.POST("/batch", handler.ResolveBatch)
		}

		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:id", handler.GetFoodDetails)
		}

		v1.GET("/status", handler.Status)
		v1.DELETE("/cache", handler.FlushCache)
	}

	return router
}
