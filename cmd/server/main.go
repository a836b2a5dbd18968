package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mealmetric/backend/config"
	httpDelivery "github.com/mealmetric/backend/internal/delivery/http"
	"github.com/mealmetric/backend/internal/infrastructure/cache"
	"github.com/mealmetric/backend/internal/infrastructure/fdc"
	"github.com/mealmetric/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MealMetric Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// The cache is created once here and shared by every service in the
	// process; it is torn down at shutdown.
	resultCache := cache.New(cache.TierTTLs{
		Result:  cfg.Cache.ResultTTL,
		Search:  cfg.Cache.SearchTTL,
		Details: cfg.Cache.DetailsTTL,
	})
	defer resultCache.Close()
	log.Printf("Cache TTLs: results=%s searches=%s details=%s",
		cfg.Cache.ResultTTL, cfg.Cache.SearchTTL, cfg.Cache.DetailsTTL)

	provider := fdc.NewClient(cfg.FDC.APIKey, cfg.FDC.BaseURL, cfg.RateLimit.UpstreamPerHour)
	if cfg.FDC.APIKey != "" {
		log.Printf("Provider configured: %s (%s)", provider.ProviderInfo().Name, cfg.FDC.BaseURL)
	} else {
		log.Printf("WARNING: no FoodData Central API key configured - upstream calls will fail")
	}

	// Usecase layer
	resolver := usecase.NewCalorieService(resultCache, provider)
	batch := usecase.NewBatchOrchestrator(resolver)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, batch)

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
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
