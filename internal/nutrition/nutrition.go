package nutrition

// Meal is a single entry in a one-day nutrition plan.
type Meal struct {
	Recipe   string `json:"recipe"`
	Purpose  string `json:"purpose"`
	PrepTime string `json:"prep_time"`
}

// MealPlan holds the per-meal entries for a single day.
type MealPlan struct {
	Breakfast Meal `json:"breakfast"`
	Lunch     Meal `json:"lunch"`
	Dinner    Meal `json:"dinner"`
	Snack     Meal `json:"snack"`
}

// Plan is a one-day nutrition plan. A plan is only meaningful relative to
// the mood analysis it was generated from; a newer mood analysis invalidates
// any plan still on display.
type Plan struct {
	MealPlan    MealPlan `json:"meal_plan"`
	GroceryList []string `json:"grocery_list,omitempty"`
	Summary     string   `json:"summary,omitempty"`
}
