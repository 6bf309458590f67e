package models

// NutritionFacts holds nutrient values normalized to a 100 g reference
// quantity, the basis FDC reports for most non-branded foods. A nil field
// means the source never reported that nutrient; zero means it reported zero.
type NutritionFacts struct {
	Calories *float64 `json:"calories,omitempty"` // kcal
	Protein  *float64 `json:"protein,omitempty"`  // g
	Fat      *float64 `json:"fat,omitempty"`      // g
	Carbs    *float64 `json:"carbs,omitempty"`    // g
	Sugars   *float64 `json:"sugars,omitempty"`   // g
	Fiber    *float64 `json:"fiber,omitempty"`    // g
	Sodium   *float64 `json:"sodium,omitempty"`   // mg
	Source   string   `json:"source,omitempty"`   // description from FDC

	// Serving metadata when the source provides it. ServingGrams is set
	// only when the reported unit denotes grams.
	ServingSize  *float64 `json:"servingSize,omitempty"`
	ServingUnit  string   `json:"servingUnit,omitempty"`
	ServingGrams *float64 `json:"servingGrams,omitempty"`
}

// Detection is one dish candidate from a recognition provider.
// Confidence is a fraction in [0,1], never a percentage.
type Detection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// QuantityMode tags how the user sized an item on the review step.
type QuantityMode int

const (
	QuantityGrams QuantityMode = iota
	QuantityServings
)

// Quantity carries an amount together with its mode, so a grams value can
// never be misread as servings.
type Quantity struct {
	Mode  QuantityMode
	Value float64
}
