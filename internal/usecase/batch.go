package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealmetric/backend/internal/domain"
)

const maxBatchSize = 10

// BatchOrchestrator fans a batch of dish requests out over the calorie
// service, isolating per-item failures.
type BatchOrchestrator struct {
	resolver *CalorieService
}

// NewBatchOrchestrator creates a batch orchestrator backed by the given
// resolver.
func NewBatchOrchestrator(resolver *CalorieService) *BatchOrchestrator {
	return &BatchOrchestrator{resolver: resolver}
}

// ResolveBatch resolves each item sequentially. A failing item becomes a
// failure record instead of aborting the batch, so
// len(Results)+len(Failures) always equals the number of items requested.
func (o *BatchOrchestrator) ResolveBatch(ctx context.Context, items []domain.BatchItem) (*domain.BatchResult, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("batch must contain at least one item")
	}
	if len(items) > maxBatchSize {
		return nil, domain.NewValidationError(fmt.Sprintf("batch cannot exceed %d items", maxBatchSize))
	}

	result := &domain.BatchResult{
		Results:  make([]*domain.CalorieResult, 0, len(items)),
		Failures: make([]domain.BatchFailure, 0),
	}

	for _, item := range items {
		resolved, err := o.resolver.Resolve(ctx, item.DishName, item.Servings)
		if err != nil {
			result.Failures = append(result.Failures, domain.BatchFailure{
				Item:  item,
				Error: userMessage(err),
			})
			continue
		}
		result.Results = append(result.Results, resolved)
	}

	result.Summary = domain.BatchSummary{
		TotalRequested: len(items),
		Successful:     len(result.Results),
		Failed:         len(result.Failures),
	}

	return result, nil
}

// userMessage converts an error into the message surfaced in a failure
// record. Provider errors get their stable per-kind message; validation and
// not-found errors are surfaced verbatim.
func userMessage(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind.UserMessage()
	}
	return err.Error()
}
