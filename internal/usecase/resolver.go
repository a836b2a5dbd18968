package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mealmetric/backend/internal/domain"
)

const (
	maxDishNameLength = 200
	maxServings       = 50.0
	searchPageSize    = 10
)

// CalorieService resolves dish names to calorie figures. Flow per lookup:
// validate -> check cache -> provider search -> best match -> compute -> cache.
type CalorieService struct {
	cache    domain.ResultCache
	provider domain.NutritionProvider
}

// NewCalorieService creates a calorie resolution service with its
// dependencies. The cache is shared across services in the process and owned
// by the caller.
func NewCalorieService(cache domain.ResultCache, provider domain.NutritionProvider) *CalorieService {
	return &CalorieService{
		cache:    cache,
		provider: provider,
	}
}

// Resolve returns the calorie figure for a dish name and serving count.
// Issues at most one upstream search per cache miss and none on a hit;
// failures are never cached.
func (s *CalorieService) Resolve(ctx context.Context, dishName string, servings float64) (*domain.CalorieResult, error) {
	name, err := validateRequest(dishName, servings)
	if err != nil {
		return nil, err
	}

	cacheKey := calorieCacheKey(name, servings)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if result, ok := cached.(*domain.CalorieResult); ok {
			return result, nil
		}
	}

	candidates, err := s.provider.SearchFoods(ctx, name, domain.SearchOptions{PageSize: searchPageSize})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &domain.NotFoundError{Query: name}
	}

	best := SelectBestMatch(name, candidates)
	if !best.HasCalories() {
		// The fallback rule can select a candidate without calorie data;
		// that counts as not found.
		return nil, &domain.NotFoundError{Query: name}
	}

	result, err := s.provider.CalculateCalories(best, servings)
	if err != nil {
		return nil, err
	}

	result.DishName = name
	result.SearchResultCount = len(candidates)
	result.MatchScore = best.MatchScore

	s.cache.Set(ctx, cacheKey, result, domain.TierResult)
	log.Printf("[RESOLVER] %q x%g -> %d kcal (%d results)", name, servings, result.TotalCalories, len(candidates))

	return result, nil
}

// Search queries the provider directly, caching raw candidate lists under
// the search tier. Minimum query length is enforced by the delivery layer.
func (s *CalorieService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.FoodCandidate, error) {
	query = strings.TrimSpace(query)

	cacheKey := fmt.Sprintf("search:%s:%d:%d", strings.ToLower(query), opts.PageSize, opts.PageNumber)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if candidates, ok := cached.([]domain.FoodCandidate); ok {
			return candidates, nil
		}
	}

	candidates, err := s.provider.SearchFoods(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, candidates, domain.TierSearch)
	return candidates, nil
}

// FoodDetails fetches a single candidate with its full nutrient map,
// caching under the details tier.
func (s *CalorieService) FoodDetails(ctx context.Context, foodID string) (*domain.FoodCandidate, error) {
	cacheKey := "details:" + foodID
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if candidate, ok := cached.(*domain.FoodCandidate); ok {
			return candidate, nil
		}
	}

	candidate, err := s.provider.GetFoodDetails(ctx, foodID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, candidate, domain.TierDetails)
	return candidate, nil
}

// Status reports provider identity, connection health, and cache counters.
func (s *CalorieService) Status(ctx context.Context) domain.ServiceStatus {
	return domain.ServiceStatus{
		Provider:          s.provider.ProviderInfo(),
		ConnectionHealthy: s.provider.ValidateConnection(ctx),
		Cache:             s.cache.Stats(),
	}
}

// FlushCache clears cached entries. An empty pattern clears everything and
// reports all=true; otherwise cleared is the number of keys removed.
func (s *CalorieService) FlushCache(pattern string) (cleared int, all bool) {
	if pattern == "" {
		return s.cache.FlushAll(), true
	}
	return s.cache.FlushByPattern(pattern), false
}

// validateRequest checks the input constraints and returns the trimmed
// dish name.
func validateRequest(dishName string, servings float64) (string, error) {
	name := strings.TrimSpace(dishName)
	if name == "" {
		return "", domain.NewValidationError("dish name is required")
	}
	if utf8.RuneCountInString(name) > maxDishNameLength {
		return "", domain.NewValidationError(fmt.Sprintf("dish name exceeds %d characters", maxDishNameLength))
	}
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return "", domain.NewValidationError("servings must be a positive number")
	}
	if servings > maxServings {
		return "", domain.NewValidationError(fmt.Sprintf("servings cannot exceed %g", maxServings))
	}
	return name, nil
}

// calorieCacheKey builds the lookup key from the normalized dish name and
// the serving count.
func calorieCacheKey(name string, servings float64) string {
	return fmt.Sprintf("calories:%s:%g", strings.ToLower(name), servings)
}
