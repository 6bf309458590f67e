package models

// EntryItem is the nutrition snapshot of one confirmed food. Calories are
// always present (unknown logs as zero); the rest keep the absent-stays-
// absent rule from scaling.
type EntryItem struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Sugars   *float64 `json:"sugars,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`
}

// Entry is one persisted log record. Entries are immutable once written and
// the collection reads newest first. TotalKcal is fixed at creation as the
// rounded sum of the item calories.
type Entry struct {
	ID        string      `json:"id"`
	Date      string      `json:"date"` // YYYY-MM-DD, device-local day
	Items     []EntryItem `json:"items"`
	TotalKcal int         `json:"totalKcal"`
}
