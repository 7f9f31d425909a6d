package render

import (
	"strings"
	"testing"

	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"
)

func TestSchedule(t *testing.T) {
	t.Run("NilView", func(t *testing.T) {
		if got := Schedule(nil, nil); got != NoSchedule() {
			t.Errorf("Nil view should render the no-schedule message, got %q", got)
		}
	})

	t.Run("EmptyItems", func(t *testing.T) {
		got := Schedule(&schedule.View{}, nil)
		if !strings.Contains(got, "No schedule items available.") {
			t.Errorf("Expected empty-items note, got:\n%s", got)
		}
	})

	t.Run("ItemsWithCompletions", func(t *testing.T) {
		view := &schedule.View{
			Items: []schedule.Item{
				{Time: "09:00", Activity: "Deep work", DurationMinutes: 90, ActivityType: "work"},
				{Time: "14:30", Activity: "Walk", DurationMinutes: 20, ActivityType: "break"},
			},
			DaySummary: "A focused day",
		}
		completions := schedule.NewCompletionSet()
		completions.Toggle("Deep work")

		got := Schedule(view, completions)
		if !strings.Contains(got, "9:00 AM") || !strings.Contains(got, "2:30 PM") {
			t.Errorf("Expected 12-hour times, got:\n%s", got)
		}
		if !strings.Contains(got, "completed") {
			t.Errorf("Expected completed status, got:\n%s", got)
		}
		if !strings.Contains(got, "pending") {
			t.Errorf("Expected pending status, got:\n%s", got)
		}
		if !strings.Contains(got, "A focused day") {
			t.Errorf("Expected day summary, got:\n%s", got)
		}
	})

	t.Run("OptionalSections", func(t *testing.T) {
		view := &schedule.View{
			UnscheduledTasks: []string{"File expenses"},
			MoodBased: &schedule.Recommendations{
				EnergyManagement: "Front-load hard work",
				BreakActivities:  []string{"Short walk"},
			},
			AdaptabilityNotes: "Afternoon is flexible",
		}
		got := Schedule(view, nil)
		for _, want := range []string{"File expenses", "Front-load hard work", "Short walk", "Afternoon is flexible"} {
			if !strings.Contains(got, want) {
				t.Errorf("Expected %q in output, got:\n%s", want, got)
			}
		}
	})

	t.Run("UnknownTypeDisplaysRawValue", func(t *testing.T) {
		view := &schedule.View{
			Items: []schedule.Item{{Time: "10:00", Activity: "Nap", DurationMinutes: 20, ActivityType: "rest"}},
		}
		got := Schedule(view, nil)
		if !strings.Contains(got, "rest") {
			t.Errorf("Raw activity type should still be shown, got:\n%s", got)
		}
	})
}

func TestMood(t *testing.T) {
	got := Mood(&mood.Analysis{
		MoodTags:        []string{"tired", "hopeful"},
		Energy:          "Low",
		ConfidenceScore: "High",
		Cravings:        []string{"carbs"},
	})
	for _, want := range []string{"tired, hopeful", "Low", "High", "carbs"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, got)
		}
	}

	if got := Mood(nil); got != "No mood analysis available." {
		t.Errorf("Unexpected nil rendering: %q", got)
	}
}

func TestNutrition(t *testing.T) {
	got := Nutrition(&nutrition.Plan{
		MealPlan: nutrition.MealPlan{
			Breakfast: nutrition.Meal{Recipe: "Oatmeal", Purpose: "Steady energy", PrepTime: "10 min"},
			Snack:     nutrition.Meal{Recipe: "Apple"},
		},
		GroceryList: []string{"oats", "apples"},
		Summary:     "Light and steady",
	})
	for _, want := range []string{"Oatmeal", "Steady energy", "10 min", "Apple", "oats", "Light and steady"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Lunch") {
		t.Errorf("Empty meals should be omitted, got:\n%s", got)
	}
}
