package telegram

import (
	"fmt"
	"strings"

	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram callback data is capped at 64 bytes, so completion buttons carry
// the item index rather than the activity name.
const toggleCallbackPrefix = "toggle|"

func formatScheduleMarkdown(view *schedule.View, completions *schedule.CompletionSet, analysis *mood.Analysis) string {
	if view == nil {
		return "No schedule data available. Please create a schedule first."
	}

	var b strings.Builder
	b.WriteString("📅 *Your Schedule*\n\n")

	if analysis != nil && len(analysis.MoodTags) > 0 {
		b.WriteString(fmt.Sprintf("🧠 Mood: _%s_", strings.Join(analysis.MoodTags, ", ")))
		if analysis.Energy != "" {
			b.WriteString(fmt.Sprintf(" (energy: %s)", analysis.Energy))
		}
		b.WriteString("\n\n")
	}

	if view.DaySummary != "" {
		b.WriteString(fmt.Sprintf("_%s_\n\n", view.DaySummary))
	}
	if view.ScheduleSummary != "" {
		b.WriteString(fmt.Sprintf("_%s_\n\n", view.ScheduleSummary))
	}

	if len(view.Items) == 0 {
		b.WriteString("_No schedule items available._\n")
	}
	for _, item := range view.Items {
		displayTime, _ := schedule.FormatTime(item.Time)
		mark := "⬜"
		if completions != nil && completions.IsCompleted(item.Activity) {
			mark = "✅"
		}
		b.WriteString(fmt.Sprintf("%s *%s* — %s (%d min, %s)\n",
			mark, displayTime, item.Activity, item.DurationMinutes, item.ActivityType))
	}

	if len(view.UnscheduledTasks) > 0 {
		b.WriteString("\n📌 *Unscheduled Tasks*\n")
		for _, task := range view.UnscheduledTasks {
			b.WriteString("• " + task + "\n")
		}
	}

	if rec := view.MoodBased; rec != nil {
		b.WriteString("\n💡 *Mood-Based Recommendations*\n")
		if rec.EnergyManagement != "" {
			b.WriteString("Energy: " + rec.EnergyManagement + "\n")
		}
		appendBullets(&b, "Breaks", rec.BreakActivities)
		appendBullets(&b, "Meals", rec.RecommendedMeals)
		appendBullets(&b, "Mindfulness", rec.MindfulnessPractices)
	}

	if view.Recommendations != "" {
		b.WriteString("\n📋 " + view.Recommendations + "\n")
	}
	if view.AdaptabilityNotes != "" {
		b.WriteString("\n🔄 " + view.AdaptabilityNotes + "\n")
	}

	b.WriteString("\nTap an activity button to mark it complete, or /adjust to re-plan.")
	return b.String()
}

func appendBullets(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + ":\n")
	for _, item := range items {
		b.WriteString("• " + item + "\n")
	}
}

func formatMoodMarkdown(a *mood.Analysis) string {
	var b strings.Builder
	b.WriteString("🧠 *Mood Analysis*\n\n")
	if len(a.MoodTags) > 0 {
		b.WriteString("Tags: _" + strings.Join(a.MoodTags, ", ") + "_\n")
	}
	if a.Energy != "" {
		b.WriteString("Energy level: *" + a.Energy + "*\n")
	}
	if a.ConfidenceScore != "" {
		b.WriteString("Confidence: " + a.ConfidenceScore + "\n")
	}
	if len(a.Cravings) > 0 {
		b.WriteString("Cravings: " + strings.Join(a.Cravings, ", ") + "\n")
	}
	if a.PersonalizedTips != "" {
		b.WriteString("\n💡 " + a.PersonalizedTips + "\n")
	}
	return b.String()
}

func formatNutritionMarkdown(p *nutrition.Plan) string {
	var b strings.Builder
	b.WriteString("🥗 *One-Day Nutrition Plan*\n\n")

	meals := []struct {
		emoji string
		name  string
		meal  nutrition.Meal
	}{
		{"🍳", "Breakfast", p.MealPlan.Breakfast},
		{"🥪", "Lunch", p.MealPlan.Lunch},
		{"🍲", "Dinner", p.MealPlan.Dinner},
		{"🍎", "Snack", p.MealPlan.Snack},
	}
	for _, m := range meals {
		if m.meal.Recipe == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s *%s*: %s\n", m.emoji, m.name, m.meal.Recipe))
		if m.meal.Purpose != "" {
			b.WriteString("_" + m.meal.Purpose + "_\n")
		}
		if m.meal.PrepTime != "" {
			b.WriteString("Prep: " + m.meal.PrepTime + "\n")
		}
		b.WriteString("\n")
	}

	if len(p.GroceryList) > 0 {
		b.WriteString("🛒 *Grocery List*\n")
		for _, item := range p.GroceryList {
			b.WriteString("• " + item + "\n")
		}
	}
	if p.Summary != "" {
		b.WriteString("\n" + p.Summary + "\n")
	}
	return b.String()
}

// scheduleKeyboard builds one completion-toggle button per schedule item.
func scheduleKeyboard(view *schedule.View, completions *schedule.CompletionSet) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, item := range view.Items {
		label := "⬜ " + item.Activity
		if completions != nil && completions.IsCompleted(item.Activity) {
			label = "✅ " + item.Activity
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", toggleCallbackPrefix, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
