package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mealmetric/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	providerName    = "USDA FoodData Central"
	providerVersion = "v1"

	defaultPageSize = 10
	maxPageSize     = 50
)

// errUpstreamNotFound marks a 404 from the API so callers can attach the
// query or food id they were asking about.
var errUpstreamNotFound = errors.New("upstream returned 404")

// Client talks to the USDA FoodData Central API. It implements
// domain.NutritionProvider.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	hourlyQuota int
}

// NewClient creates a FoodData Central client. hourlyQuota is the upstream
// request quota (USDA grants 1000/hour per key); zero falls back to that.
func NewClient(apiKey, baseURL string, hourlyQuota int) *Client {
	if hourlyQuota <= 0 {
		hourlyQuota = 1000
	}
	// rate.Limit is requests per second; allow a small burst for batches.
	limiter := rate.NewLimiter(rate.Limit(float64(hourlyQuota)/3600.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		hourlyQuota: hourlyQuota,
	}
}

// SearchFoods queries the search endpoint and returns candidates in the
// provider's relevance order. An empty result set is not an error.
func (c *Client) SearchFoods(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.FoodCandidate, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("pageSize", strconv.Itoa(pageSize))
	if opts.PageNumber > 0 {
		params.Add("pageNumber", strconv.Itoa(opts.PageNumber))
	}
	if opts.DataType != "" {
		params.Add("dataType", opts.DataType)
	}
	if opts.SortBy != "" {
		params.Add("sortBy", opts.SortBy)
	}
	if opts.SortOrder != "" {
		params.Add("sortOrder", opts.SortOrder)
	}

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, "search", reqURL)
	if err != nil {
		if errors.Is(err, errUpstreamNotFound) {
			return nil, &domain.NotFoundError{Query: query}
		}
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnknown,
			Op:   "search",
			Err:  fmt.Errorf("decode response: %w", err),
		}
	}

	candidates := make([]domain.FoodCandidate, 0, len(searchResp.Foods))
	for i := range searchResp.Foods {
		candidates = append(candidates, *toCandidate(&searchResp.Foods[i]))
	}

	log.Printf("[FDC] search %q returned %d foods", query, len(candidates))
	return candidates, nil
}

// GetFoodDetails fetches a single food record with its full nutrient map.
func (c *Client) GetFoodDetails(ctx context.Context, foodID string) (*domain.FoodCandidate, error) {
	params := url.Values{}
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(foodID), params.Encode())

	body, err := c.doRequest(ctx, "details", reqURL)
	if err != nil {
		if errors.Is(err, errUpstreamNotFound) {
			return nil, &domain.NotFoundError{Query: foodID}
		}
		return nil, err
	}

	var food wireFood
	if err := json.Unmarshal(body, &food); err != nil {
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnknown,
			Op:   "details",
			Err:  fmt.Errorf("decode response: %w", err),
		}
	}

	return toCandidate(&food), nil
}

// CalculateCalories computes totals for a candidate and serving count.
// Pure: no network access.
func (c *Client) CalculateCalories(candidate *domain.FoodCandidate, servings float64) (*domain.CalorieResult, error) {
	if candidate == nil || !candidate.HasCalories() {
		return nil, domain.NewValidationError("candidate has no resolved calorie value")
	}
	if servings <= 0 {
		return nil, domain.NewValidationError("servings must be positive")
	}

	perServing := int(math.Round(*candidate.CaloriesPerServing))
	if perServing < 0 {
		perServing = 0
	}

	return &domain.CalorieResult{
		DishName:           candidate.Description,
		Servings:           servings,
		CaloriesPerServing: perServing,
		TotalCalories:      int(math.Round(float64(perServing) * servings)),
		Source:             providerName,
		MatchScore:         candidate.MatchScore,
		Timestamp:          time.Now().UTC(),
	}, nil
}

// ProviderInfo describes this data source.
func (c *Client) ProviderInfo() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:      providerName,
		Version:   providerVersion,
		RateLimit: fmt.Sprintf("%d requests/hour", c.hourlyQuota),
	}
}

// ValidateConnection probes the search endpoint with a minimal query.
// Returns false on any failure.
func (c *Client) ValidateConnection(ctx context.Context) bool {
	_, err := c.SearchFoods(ctx, "apple", domain.SearchOptions{PageSize: 1})
	if err != nil {
		log.Printf("[FDC] connection check failed: %v", err)
		return false
	}
	return true
}

// doRequest executes a rate-limited GET and returns the response body, or a
// ProviderError classified by what went wrong. Transient failures are not
// retried here; retry policy belongs to the transport layer.
func (c *Client) doRequest(ctx context.Context, op, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnavailable,
			Op:   op,
			Err:  fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnknown,
			Op:   op,
			Err:  fmt.Errorf("create request: %w", err),
		}
	}
	req.Header.Set("User-Agent", "MealMetric/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport failures both surface as unavailable.
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnavailable,
			Op:   op,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{
			Kind: domain.ProviderErrorUnavailable,
			Op:   op,
			Err:  fmt.Errorf("read response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			upstreamRequests.WithLabelValues(op, "not_found").Inc()
			return nil, errUpstreamNotFound
		}
		kind := domain.ProviderKindFromStatus(resp.StatusCode)
		upstreamRequests.WithLabelValues(op, kind.String()).Inc()
		log.Printf("[FDC] %s failed: status=%d kind=%s body=%s", op, resp.StatusCode, kind, truncate(body, 256))
		return nil, &domain.ProviderError{
			Kind: kind,
			Op:   op,
			Err:  fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	upstreamRequests.WithLabelValues(op, "ok").Inc()
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
