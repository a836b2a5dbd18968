package usecase

import (
	"strings"

	"github.com/mealmetric/backend/internal/domain"
)

// SelectBestMatch picks one candidate from a provider-ranked list. The
// precedence is a tie-break favoring availability of calorie data over
// semantic closeness, stopping at the first rule that yields a result:
//
//  1. exact case-insensitive description match that has a calorie value
//  2. first candidate with a calorie value > 0
//  3. first candidate with an energy nutrient > 0 (value attached)
//  4. the first candidate, even without a usable calorie value
//
// Given a fixed list, the selection is deterministic. Returns nil only for
// an empty list.
func SelectBestMatch(dishName string, candidates []domain.FoodCandidate) *domain.FoodCandidate {
	if len(candidates) == 0 {
		return nil
	}

	query := strings.TrimSpace(dishName)

	for i := range candidates {
		c := &candidates[i]
		if strings.EqualFold(strings.TrimSpace(c.Description), query) && c.HasCalories() {
			return c
		}
	}

	for i := range candidates {
		c := &candidates[i]
		if c.HasCalories() && *c.CaloriesPerServing > 0 {
			return c
		}
	}

	for i := range candidates {
		c := &candidates[i]
		if kcal, ok := c.EnergyNutrient(); ok && kcal > 0 {
			derived := *c
			derived.CaloriesPerServing = &kcal
			return &derived
		}
	}

	// May carry no calorie value; the resolver rejects that as not found.
	return &candidates[0]
}
