package mentor

import (
	"mood-scheduler/internal/config"
	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/schedule"
)

// MoodRequest asks the service to classify free-text mood input.
type MoodRequest struct {
	MoodText string `json:"mood_text"`
}

// ScheduleRequest asks for a goal-driven daily schedule.
type ScheduleRequest struct {
	MoodText       string                `json:"mood_text"`
	DailyGoals     []string              `json:"daily_goals,omitempty"`
	CalendarEvents []schedule.FixedEvent `json:"calendar_events,omitempty"`
	Preferences    *config.Preferences   `json:"preferences,omitempty"`
}

// Task is a unit of work for a constrained custom schedule.
type Task struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        string `json:"priority"`
}

// TimeRange bounds a custom schedule. Times are free-form strings the
// service normalizes itself.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CustomScheduleRequest asks for a schedule built around explicit tasks and
// fixed events rather than daily goals.
type CustomScheduleRequest struct {
	Tasks           []Task                `json:"tasks"`
	TimeRange       *TimeRange            `json:"time_range,omitempty"`
	FixedEvents     []schedule.FixedEvent `json:"fixed_events,omitempty"`
	UserPreferences *config.Preferences   `json:"user_preferences,omitempty"`
	MoodText        string                `json:"mood_text,omitempty"`
}

// NutritionRequest asks for a one-day meal plan derived from a mood analysis.
type NutritionRequest struct {
	MoodData           *mood.Analysis `json:"mood_data"`
	MedicalConditions  []string       `json:"medical_conditions,omitempty"`
	DietaryPreferences []string       `json:"dietary_preferences,omitempty"`
	Allergies          []string       `json:"allergies,omitempty"`
	Goals              string         `json:"goals,omitempty"`
}
