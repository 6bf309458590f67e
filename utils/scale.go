package utils

import (
	"math"

	"github.com/mcthoma1/food-ai/models"
)

// DefaultServingGrams is assumed when a food reports no gram-based serving
// size.
const DefaultServingGrams = 100.0

// clampAmount maps negative and non-finite user input to zero. Bad grams or
// servings never error; they scale everything to nothing.
func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// tenth keeps one decimal place, whole keeps none. math.Round rounds halves
// away from zero, which is the contract for every displayed and persisted
// number here. Nil in, nil out: absence survives scaling.
func tenth(v *float64, ratio float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*ratio*10) / 10
	return &r
}

func whole(v *float64, ratio float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v * ratio)
	return &r
}

// ScaleFacts scales a per-100g facts record to the given gram amount.
// Calories come back as whole kcal while macro grams keep one decimal; the
// asymmetry is deliberate and matches what the log stores. Serving metadata
// and the source string pass through untouched. A nil base behaves like an
// empty record.
func ScaleFacts(base *models.NutritionFacts, grams float64) models.NutritionFacts {
	var f models.NutritionFacts
	if base != nil {
		f = *base
	}
	ratio := clampAmount(grams) / 100

	return models.NutritionFacts{
		Calories: whole(f.Calories, ratio),
		Protein:  tenth(f.Protein, ratio),
		Fat:      tenth(f.Fat, ratio),
		Carbs:    tenth(f.Carbs, ratio),
		Sugars:   tenth(f.Sugars, ratio),
		Fiber:    tenth(f.Fiber, ratio),
		Sodium:   whole(f.Sodium, ratio), // whole mg, like kcal

		Source:       f.Source,
		ServingSize:  f.ServingSize,
		ServingUnit:  f.ServingUnit,
		ServingGrams: f.ServingGrams,
	}
}

// ScaleByServings converts servings to grams and defers to ScaleFacts.
// Foods without a usable gram-based serving size count 100 g per serving.
func ScaleByServings(base *models.NutritionFacts, servings float64) models.NutritionFacts {
	per := DefaultServingGrams
	if base != nil && base.ServingGrams != nil {
		if g := *base.ServingGrams; g > 0 && !math.IsInf(g, 0) {
			per = g
		}
	}
	return ScaleFacts(base, clampAmount(servings)*per)
}

// ScaleQuantity dispatches on the tagged quantity mode.
func ScaleQuantity(base *models.NutritionFacts, q models.Quantity) models.NutritionFacts {
	if q.Mode == models.QuantityServings {
		return ScaleByServings(base, q.Value)
	}
	return ScaleFacts(base, q.Value)
}
