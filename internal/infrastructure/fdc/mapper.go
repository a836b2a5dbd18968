package fdc

import (
	"math"
	"strconv"
	"strings"

	"github.com/mealmetric/backend/internal/domain"
)

// Energy nutrient identifiers in FoodData Central responses. The modern API
// carries numeric id 1008 (kcal); the legacy nutrient number "208" still
// appears on older records.
const (
	nutrientIDEnergy     = 1008
	nutrientNumberEnergy = "208"
)

// wireFood is a food record as FoodData Central returns it, for both the
// search and detail endpoints.
type wireFood struct {
	FdcID           int64           `json:"fdcId"`
	Description     string          `json:"description"`
	DataType        string          `json:"dataType,omitempty"`
	BrandOwner      string          `json:"brandOwner,omitempty"`
	Score           *float64        `json:"score,omitempty"`
	ServingSize     *float64        `json:"servingSize,omitempty"`
	ServingSizeUnit string          `json:"servingSizeUnit,omitempty"`
	FoodNutrients   []wireNutrient  `json:"foodNutrients,omitempty"`
	LabelNutrients  *labelNutrients `json:"labelNutrients,omitempty"`
}

// labelNutrients carries the per-serving label values branded foods report.
type labelNutrients struct {
	Calories *labelValue `json:"calories,omitempty"`
}

type labelValue struct {
	Value float64 `json:"value"`
}

// wireNutrient is a single nutrient entry. Search responses inline the
// nutrient fields; detail responses nest them under "nutrient" with the
// value in "amount". Both shapes are accepted.
type wireNutrient struct {
	NutrientID     int64         `json:"nutrientId,omitempty"`
	NutrientName   string        `json:"nutrientName,omitempty"`
	NutrientNumber string        `json:"nutrientNumber,omitempty"`
	UnitName       string        `json:"unitName,omitempty"`
	Value          *float64      `json:"value,omitempty"`
	Amount         *float64      `json:"amount,omitempty"`
	Nutrient       *nutrientMeta `json:"nutrient,omitempty"`
}

// nutrientMeta is the nested nutrient descriptor of the detail endpoint.
type nutrientMeta struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	UnitName string `json:"unitName"`
}

func (n *wireNutrient) id() int64 {
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return n.NutrientID
}

func (n *wireNutrient) name() string {
	if n.Nutrient != nil {
		return n.Nutrient.Name
	}
	return n.NutrientName
}

func (n *wireNutrient) number() string {
	if n.Nutrient != nil {
		return n.Nutrient.Number
	}
	return n.NutrientNumber
}

func (n *wireNutrient) unit() string {
	if n.Nutrient != nil {
		return n.Nutrient.UnitName
	}
	return n.UnitName
}

func (n *wireNutrient) value() (float64, bool) {
	if n.Value != nil {
		return *n.Value, true
	}
	if n.Amount != nil {
		return *n.Amount, true
	}
	return 0, false
}

// searchResponse is the envelope of /v1/foods/search.
type searchResponse struct {
	Foods       []wireFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// toCandidate converts a wire food record to the domain model, resolving
// its calorie value per the extraction policy: explicit label calories
// first, then the energy nutrient.
func toCandidate(food *wireFood) *domain.FoodCandidate {
	candidate := &domain.FoodCandidate{
		ID:          strconv.FormatInt(food.FdcID, 10),
		Description: food.Description,
		DataType:    food.DataType,
		BrandOwner:  food.BrandOwner,
		MatchScore:  food.Score,
		Nutrients:   make(map[string]domain.Nutrient, len(food.FoodNutrients)),
	}

	if food.ServingSize != nil {
		candidate.ServingSize = &domain.ServingSize{
			Amount: *food.ServingSize,
			Unit:   food.ServingSizeUnit,
		}
	}

	for i := range food.FoodNutrients {
		n := &food.FoodNutrients[i]
		v, ok := n.value()
		if !ok || n.name() == "" {
			continue
		}
		candidate.Nutrients[n.name()] = domain.Nutrient{Value: v, Unit: n.unit()}
	}

	if food.LabelNutrients != nil && food.LabelNutrients.Calories != nil {
		kcal := math.Round(food.LabelNutrients.Calories.Value)
		candidate.CaloriesPerServing = &kcal
	} else if kcal, ok := extractEnergy(food.FoodNutrients); ok {
		candidate.CaloriesPerServing = &kcal
	}

	return candidate
}

// extractEnergy finds the energy nutrient by id 1008, legacy number "208",
// or a name containing "energy", preferring kcal entries over kJ. The value
// is rounded to the nearest integer calorie.
func extractEnergy(nutrients []wireNutrient) (float64, bool) {
	var fallback *float64

	for i := range nutrients {
		n := &nutrients[i]
		v, ok := n.value()
		if !ok {
			continue
		}
		if !isEnergyNutrient(n) {
			continue
		}
		rounded := math.Round(v)
		if strings.EqualFold(n.unit(), "kcal") {
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

func isEnergyNutrient(n *wireNutrient) bool {
	if n.id() == nutrientIDEnergy || n.number() == nutrientNumberEnergy {
		return true
	}
	return strings.Contains(strings.ToLower(n.name()), "energy")
}
