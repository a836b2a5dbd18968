package usecase

import (
	"testing"

	"github.com/mealmetric/backend/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestSelectBestMatch_EmptyList(t *testing.T) {
	if got := SelectBestMatch("pizza", nil); got != nil {
		t.Errorf("expected nil for empty list, got %+v", got)
	}
}

func TestSelectBestMatch_ExactMatchPreferred(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Pizza, cheese, frozen", CaloriesPerServing: floatPtr(280)},
		{ID: "2", Description: "PIZZA", CaloriesPerServing: floatPtr(266)},
	}

	got := SelectBestMatch("pizza", candidates)
	if got == nil || got.ID != "2" {
		t.Fatalf("expected exact match candidate 2, got %+v", got)
	}
}

func TestSelectBestMatch_ExactMatchWithoutCaloriesSkipped(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "pizza"},
		{ID: "2", Description: "Pizza, cheese", CaloriesPerServing: floatPtr(280)},
	}

	// Rule 1 requires a resolved calorie value; candidate 1 fails it and
	// rule 2 picks candidate 2.
	got := SelectBestMatch("pizza", candidates)
	if got == nil || got.ID != "2" {
		t.Fatalf("expected candidate 2, got %+v", got)
	}
}

func TestSelectBestMatch_FirstWithCalories(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Macaroni salad"},
		{ID: "2", Description: "Macaroni and cheese, boxed", CaloriesPerServing: floatPtr(350)},
		{ID: "3", Description: "Macaroni, plain", CaloriesPerServing: floatPtr(200)},
	}

	got := SelectBestMatch("mac and cheese", candidates)
	if got == nil || got.ID != "2" {
		t.Fatalf("expected first candidate with calories, got %+v", got)
	}
}

func TestSelectBestMatch_ZeroCaloriesNotSelectedByRuleTwo(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Water", CaloriesPerServing: floatPtr(0)},
		{ID: "2", Description: "Sparkling water", CaloriesPerServing: floatPtr(5)},
	}

	got := SelectBestMatch("water with bubbles", candidates)
	if got == nil || got.ID != "2" {
		t.Fatalf("expected candidate 2, got %+v", got)
	}
}

func TestSelectBestMatch_DerivesFromEnergyNutrient(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Lentil soup"},
		{
			ID:          "2",
			Description: "Lentil soup, canned",
			Nutrients: map[string]domain.Nutrient{
				"Energy":  {Value: 120.4, Unit: "kcal"},
				"Protein": {Value: 8, Unit: "g"},
			},
		},
	}

	got := SelectBestMatch("lentil soup with carrots", candidates)
	if got == nil || got.ID != "2" {
		t.Fatalf("expected candidate 2, got %+v", got)
	}
	if !got.HasCalories() || *got.CaloriesPerServing != 120 {
		t.Errorf("expected derived calorie value 120, got %+v", got.CaloriesPerServing)
	}
}

func TestSelectBestMatch_DerivedValueDoesNotMutateInput(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{
			ID:          "1",
			Description: "Broth",
			Nutrients:   map[string]domain.Nutrient{"Energy": {Value: 15, Unit: "kcal"}},
		},
	}

	SelectBestMatch("broth", candidates)
	if candidates[0].CaloriesPerServing != nil {
		t.Error("selection must not mutate the input candidate list")
	}
}

func TestSelectBestMatch_FallbackToFirst(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Mystery dish"},
		{ID: "2", Description: "Another mystery"},
	}

	got := SelectBestMatch("mystery", candidates)
	if got == nil || got.ID != "1" {
		t.Fatalf("expected fallback to first candidate, got %+v", got)
	}
	if got.HasCalories() {
		t.Error("fallback candidate should carry no calorie value")
	}
}

func TestSelectBestMatch_Deterministic(t *testing.T) {
	candidates := []domain.FoodCandidate{
		{ID: "1", Description: "Chicken soup"},
		{ID: "2", Description: "Chicken noodle soup", CaloriesPerServing: floatPtr(95)},
		{ID: "3", Description: "chicken noodle soup", CaloriesPerServing: floatPtr(110)},
	}

	first := SelectBestMatch("Chicken Noodle Soup", candidates)
	for i := 0; i < 20; i++ {
		got := SelectBestMatch("Chicken Noodle Soup", candidates)
		if got.ID != first.ID {
			t.Fatalf("selection not deterministic: run %d picked %s, first run picked %s", i, got.ID, first.ID)
		}
	}
}
