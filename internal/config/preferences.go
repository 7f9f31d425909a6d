package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preferences mirror the scheduler service's preference object. The values
// are sent verbatim with creation requests; the service owns all
// interpretation, including time parsing.
type Preferences struct {
	WorkStartTime          string            `yaml:"work_start_time" json:"work_start_time"`
	WorkEndTime            string            `yaml:"work_end_time" json:"work_end_time"`
	PreferredBreakDuration int               `yaml:"preferred_break_duration" json:"preferred_break_duration"`
	PreferredMealTimes     map[string]string `yaml:"preferred_meal_times" json:"preferred_meal_times"`
	ExerciseDuration       int               `yaml:"exercise_duration" json:"exercise_duration"`
	MindfulnessDuration    int               `yaml:"mindfulness_duration" json:"mindfulness_duration"`
}

// DefaultPreferences returns the defaults the service itself falls back to
// when a request carries no preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkStartTime:          "09:00",
		WorkEndTime:            "17:00",
		PreferredBreakDuration: 15,
		PreferredMealTimes: map[string]string{
			"breakfast": "08:00",
			"lunch":     "12:30",
			"dinner":    "18:30",
		},
		ExerciseDuration:    30,
		MindfulnessDuration: 10,
	}
}

// LoadPreferences reads scheduling preferences from a YAML file. An empty
// path or a missing file yields the defaults; a file that exists but cannot
// be parsed is an error.
func LoadPreferences(path string) (Preferences, error) {
	if path == "" {
		return DefaultPreferences(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("failed to read preferences file %s: %w", path, err)
	}

	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences file %s: %w", path, err)
	}
	return prefs, nil
}
