package telegram

import (
	"strings"
	"testing"

	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/schedule"
)

func testView() *schedule.View {
	payload := &schedule.Payload{
		Schedule: []schedule.Item{
			{Time: "09:00", Activity: "Deep work", DurationMinutes: 90, ActivityType: "work"},
			{Time: "14:30", Activity: "Walk", DurationMinutes: 20, ActivityType: "break"},
		},
		DaySummary: "A focused day",
	}
	env := &schedule.Envelope{Schedule: payload}
	view, ok := schedule.Normalize(env)
	if !ok {
		panic("test payload did not normalize")
	}
	return view
}

func TestFormatScheduleMarkdown(t *testing.T) {
	t.Run("NilView", func(t *testing.T) {
		got := formatScheduleMarkdown(nil, nil, nil)
		if got != "No schedule data available. Please create a schedule first." {
			t.Errorf("Unexpected empty-state message: %q", got)
		}
	})

	t.Run("FormatsTimesAndCompletions", func(t *testing.T) {
		view := testView()
		completions := schedule.NewCompletionSet()
		completions.Toggle("Deep work")

		got := formatScheduleMarkdown(view, completions, nil)

		if !strings.Contains(got, "9:00 AM") {
			t.Errorf("Expected 12-hour time in output, got:\n%s", got)
		}
		if !strings.Contains(got, "2:30 PM") {
			t.Errorf("Expected afternoon time in output, got:\n%s", got)
		}
		if !strings.Contains(got, "✅ *9:00 AM* — Deep work") {
			t.Errorf("Expected completed mark on Deep work, got:\n%s", got)
		}
		if !strings.Contains(got, "⬜ *2:30 PM* — Walk") {
			t.Errorf("Expected pending mark on Walk, got:\n%s", got)
		}
		if !strings.Contains(got, "A focused day") {
			t.Errorf("Expected day summary in output, got:\n%s", got)
		}
	})

	t.Run("IncludesMoodLine", func(t *testing.T) {
		analysis := &mood.Analysis{MoodTags: []string{"tired", "stressed"}, Energy: "Low"}
		got := formatScheduleMarkdown(testView(), nil, analysis)
		if !strings.Contains(got, "tired, stressed") {
			t.Errorf("Expected mood tags in output, got:\n%s", got)
		}
		if !strings.Contains(got, "energy: Low") {
			t.Errorf("Expected energy level in output, got:\n%s", got)
		}
	})
}

func TestScheduleKeyboard(t *testing.T) {
	view := testView()
	completions := schedule.NewCompletionSet()
	completions.Toggle("Walk")

	keyboard := scheduleKeyboard(view, completions)

	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(keyboard.InlineKeyboard))
	}

	first := keyboard.InlineKeyboard[0][0]
	if first.Text != "⬜ Deep work" {
		t.Errorf("Unexpected first label: %q", first.Text)
	}
	if first.CallbackData == nil || *first.CallbackData != "toggle|0" {
		t.Errorf("Unexpected first callback data: %v", first.CallbackData)
	}

	second := keyboard.InlineKeyboard[1][0]
	if second.Text != "✅ Walk" {
		t.Errorf("Unexpected second label: %q", second.Text)
	}
	if second.CallbackData == nil || *second.CallbackData != "toggle|1" {
		t.Errorf("Unexpected second callback data: %v", second.CallbackData)
	}
}
