package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Nutrient is a single nutrient entry from a provider's nutrient map.
type Nutrient struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ServingSize describes the serving a candidate's nutrient values refer to.
type ServingSize struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// FoodCandidate is a single food record returned by a provider search,
// before best-match selection. Produced fresh per search call; never persisted.
type FoodCandidate struct {
	ID                 string              `json:"id"`
	Description        string              `json:"description"`
	DataType           string              `json:"dataType,omitempty"`
	CaloriesPerServing *float64            `json:"caloriesPerServing,omitempty"`
	Nutrients          map[string]Nutrient `json:"nutrients,omitempty"`
	ServingSize        *ServingSize        `json:"servingSize,omitempty"`
	BrandOwner         string              `json:"brandOwner,omitempty"`
	MatchScore         *float64            `json:"matchScore,omitempty"`
}

// HasCalories reports whether the candidate carries a resolved calorie value.
func (c *FoodCandidate) HasCalories() bool {
	return c.CaloriesPerServing != nil
}

// EnergyNutrient derives a calorie value from the candidate's nutrient map
// by name, preferring kcal entries over other energy units. Returns false
// when no energy-type entry exists.
func (c *FoodCandidate) EnergyNutrient() (float64, bool) {
	// Sorted iteration keeps the result stable when several non-kcal
	// energy entries exist.
	names := make([]string, 0, len(c.Nutrients))
	for name := range c.Nutrients {
		names = append(names, name)
	}
	sort.Strings(names)

	var fallback *float64
	for _, name := range names {
		if !strings.Contains(strings.ToLower(name), "energy") {
			continue
		}
		n := c.Nutrients[name]
		rounded := math.Round(n.Value)
		if strings.EqualFold(n.Unit, "kcal") {
			return rounded, true
		}
		if fallback == nil {
			fallback = &rounded
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return 0, false
}

// CalorieResult is the unit returned to callers and the unit cached.
// Immutable once constructed.
type CalorieResult struct {
	DishName           string    `json:"dishName"`
	Servings           float64   `json:"servings"`
	CaloriesPerServing int       `json:"caloriesPerServing"`
	TotalCalories      int       `json:"totalCalories"`
	Source             string    `json:"source"`
	SearchResultCount  int       `json:"searchResultCount"`
	MatchScore         *float64  `json:"matchScore,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// BatchItem is a single dish request within a batch.
type BatchItem struct {
	DishName string  `json:"dishName"`
	Servings float64 `json:"servings"`
}

// BatchFailure records one item that could not be resolved.
type BatchFailure struct {
	Item  BatchItem `json:"item"`
	Error string    `json:"error"`
}

// BatchSummary counts outcomes of a batch call.
type BatchSummary struct {
	TotalRequested int `json:"totalRequested"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

// BatchResult aggregates per-item outcomes of a batch call.
// len(Results) + len(Failures) always equals Summary.TotalRequested.
type BatchResult struct {
	Results  []*CalorieResult `json:"results"`
	Failures []BatchFailure   `json:"errors"`
	Summary  BatchSummary     `json:"summary"`
}

// SearchOptions control a provider search.
type SearchOptions struct {
	PageSize   int
	PageNumber int
	DataType   string
	SortBy     string
	SortOrder  string
}

// ProviderInfo is a static descriptor of a nutrition data source.
type ProviderInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	RateLimit string `json:"rateLimit"`
}

// CacheStats reports cache hit/miss counters and the current key count.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Keys   int    `json:"keys"`
}

// ServiceStatus is the health/introspection payload.
type ServiceStatus struct {
	Provider          ProviderInfo `json:"providerInfo"`
	ConnectionHealthy bool         `json:"connectionHealthy"`
	Cache             CacheStats   `json:"cacheStats"`
}
