package domain

import (
	"context"
	"time"
)

// NutritionProvider is the capability set over an external food database.
// Implementations hold no shared mutable state between each other.
type NutritionProvider interface {
	// SearchFoods returns candidates ranked by provider relevance, descending.
	SearchFoods(ctx context.Context, query string, opts SearchOptions) ([]FoodCandidate, error)

	// GetFoodDetails returns a single candidate with its full nutrient map.
	GetFoodDetails(ctx context.Context, foodID string) (*FoodCandidate, error)

	// CalculateCalories computes totals for a candidate and serving count.
	// Fails with ValidationError if the candidate has no resolved calorie
	// value or servings is not positive.
	CalculateCalories(candidate *FoodCandidate, servings float64) (*CalorieResult, error)

	// ProviderInfo describes the data source. No side effects.
	ProviderInfo() ProviderInfo

	// ValidateConnection performs a minimal live query and reports health.
	// Never returns an error to the caller.
	ValidateConnection(ctx context.Context) bool
}

// CacheTier selects the TTL class applied to a cached value.
type CacheTier int

const (
	// TierResult holds computed calorie results (default 1h).
	TierResult CacheTier = iota
	// TierSearch holds raw search-result lists (default 15m).
	TierSearch
	// TierDetails holds food-detail lookups (default 24h).
	TierDetails
)

// ResultCache is a process-local tiered key/value store with TTL expiry.
// Reads and writes to a single key are atomic with respect to concurrent
// access; there is no single-flight de-duplication across callers.
type ResultCache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, tier CacheTier)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration)
	FlushAll() int
	FlushByPattern(substring string) int
	Stats() CacheStats
}
