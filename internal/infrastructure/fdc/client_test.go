package fdc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mealmetric/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com", 1000)

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestProviderInfo(t *testing.T) {
	client := NewClient("key", "https://api.example.com", 3600)

	info := client.ProviderInfo()
	assert.Equal(t, "USDA FoodData Central", info.Name)
	assert.Equal(t, "v1", info.Version)
	assert.Equal(t, "3600 requests/hour", info.RateLimit)
}

func TestProviderInfo_DefaultQuota(t *testing.T) {
	client := NewClient("key", "https://api.example.com", 0)
	assert.Equal(t, "1000 requests/hour", client.ProviderInfo().RateLimit)
}

func TestSearchFoods_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/foods/search", r.URL.Path)
		assert.Equal(t, "chicken soup", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalHits": 2,
			"foods": [
				{
					"fdcId": 123,
					"description": "Chicken soup, canned",
					"dataType": "Branded",
					"score": 98.5,
					"foodNutrients": [
						{"nutrientId": 1008, "nutrientName": "Energy", "unitName": "KCAL", "value": 75.2}
					]
				},
				{
					"fdcId": 456,
					"description": "Soup base",
					"foodNutrients": []
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 1000)

	candidates, err := client.SearchFoods(context.Background(), "chicken soup", domain.SearchOptions{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "123", first.ID)
	assert.Equal(t, "Chicken soup, canned", first.Description)
	require.NotNil(t, first.CaloriesPerServing)
	assert.Equal(t, float64(75), *first.CaloriesPerServing)
	require.NotNil(t, first.MatchScore)
	assert.Equal(t, 98.5, *first.MatchScore)

	assert.Nil(t, candidates[1].CaloriesPerServing)
}

func TestSearchFoods_EmptyListIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalHits": 0, "foods": []}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, 1000)

	candidates, err := client.SearchFoods(context.Background(), "nonexistentdish123", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSearchFoods_ForwardsOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("pageSize"))
		assert.Equal(t, "2", q.Get("pageNumber"))
		assert.Equal(t, "Branded", q.Get("dataType"))
		assert.Equal(t, "dataType.keyword", q.Get("sortBy"))
		w.Write([]byte(`{"foods": []}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, 1000)

	_, err := client.SearchFoods(context.Background(), "milk", domain.SearchOptions{
		PageSize:   5,
		PageNumber: 2,
		DataType:   "Branded",
		SortBy:     "dataType.keyword",
	})
	require.NoError(t, err)
}

func TestSearchFoods_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   domain.ProviderErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ProviderErrorUnauthorized},
		{"forbidden", http.StatusForbidden, domain.ProviderErrorForbidden},
		{"rate limited", http.StatusTooManyRequests, domain.ProviderErrorRateLimited},
		{"server error", http.StatusInternalServerError, domain.ProviderErrorUnavailable},
		{"bad gateway", http.StatusBadGateway, domain.ProviderErrorUnavailable},
		{"teapot", http.StatusTeapot, domain.ProviderErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient("key", server.URL, 1000)

			_, err := client.SearchFoods(context.Background(), "milk", domain.SearchOptions{})
			require.Error(t, err)

			pe, ok := domain.AsProviderError(err)
			require.True(t, ok, "expected ProviderError, got %v", err)
			assert.Equal(t, tt.kind, pe.Kind)
		})
	}
}

func TestSearchFoods_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient("key", server.URL, 1000)

	_, err := client.SearchFoods(context.Background(), "milk", domain.SearchOptions{})
	require.Error(t, err)

	pe, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ProviderErrorUnavailable, pe.Kind)
}

func TestGetFoodDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/food/123", r.URL.Path)
		w.Write([]byte(`{
			"fdcId": 123,
			"description": "Cheddar cheese",
			"dataType": "Foundation",
			"foodNutrients": [
				{"nutrient": {"id": 1008, "name": "Energy", "number": "208", "unitName": "kcal"}, "amount": 402.7},
				{"nutrient": {"id": 1003, "name": "Protein", "number": "203", "unitName": "g"}, "amount": 24.9}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, 1000)

	candidate, err := client.GetFoodDetails(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "123", candidate.ID)
	assert.Equal(t, "Cheddar cheese", candidate.Description)
	require.NotNil(t, candidate.CaloriesPerServing)
	assert.Equal(t, float64(403), *candidate.CaloriesPerServing)
	assert.Len(t, candidate.Nutrients, 2)
	assert.Equal(t, 24.9, candidate.Nutrients["Protein"].Value)
}

func TestGetFoodDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("key", server.URL, 1000)

	_, err := client.GetFoodDetails(context.Background(), "999")
	require.Error(t, err)

	nf, ok := domain.AsNotFoundError(err)
	require.True(t, ok, "expected NotFoundError, got %v", err)
	assert.Equal(t, "999", nf.Query)
}

func TestCalculateCalories(t *testing.T) {
	client := NewClient("key", "https://api.example.com", 1000)
	kcal := 285.4

	result, err := client.CalculateCalories(&domain.FoodCandidate{
		Description:        "Pizza, cheese",
		CaloriesPerServing: &kcal,
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, 285, result.CaloriesPerServing)
	assert.Equal(t, 570, result.TotalCalories)
	assert.Equal(t, "USDA FoodData Central", result.Source)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCalculateCalories_InvalidInput(t *testing.T) {
	client := NewClient("key", "https://api.example.com", 1000)
	kcal := 100.0

	_, err := client.CalculateCalories(&domain.FoodCandidate{Description: "No data"}, 1)
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok, "candidate without calories must be rejected")

	_, err = client.CalculateCalories(&domain.FoodCandidate{CaloriesPerServing: &kcal}, 0)
	_, ok = domain.AsValidationError(err)
	assert.True(t, ok, "non-positive servings must be rejected")

	_, err = client.CalculateCalories(nil, 1)
	_, ok = domain.AsValidationError(err)
	assert.True(t, ok, "nil candidate must be rejected")
}

func TestValidateConnection(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": []}`))
	}))
	defer healthy.Close()

	client := NewClient("key", healthy.URL, 1000)
	assert.True(t, client.ValidateConnection(context.Background()))

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	client = NewClient("key", broken.URL, 1000)
	assert.False(t, client.ValidateConnection(context.Background()))
}
