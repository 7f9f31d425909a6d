// Package render turns canonical schedule, mood and nutrition models into
// styled terminal output for the CLI front end.
package render

import (
	"fmt"
	"strings"

	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// One color per activity type, matching the service's display vocabulary.
	typeStyles = map[schedule.ActivityType]lipgloss.Style{
		schedule.ActivityWork:        lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		schedule.ActivityBreak:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		schedule.ActivityMeal:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		schedule.ActivityExercise:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		schedule.ActivityMindfulness: lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		schedule.ActivityTask:        lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		schedule.ActivityFixedEvent:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		schedule.ActivityOther:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// NoSchedule is the rendering for an absent schedule. An absent view is not
// an empty schedule and must never show a zero-item table.
func NoSchedule() string {
	return "No schedule data available. Please create a schedule first."
}

// Schedule renders the canonical view as a table followed by its optional
// sections. completions may be nil.
func Schedule(view *schedule.View, completions *schedule.CompletionSet) string {
	if view == nil {
		return NoSchedule()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Your Schedule"))
	b.WriteString("\n\n")

	if view.DaySummary != "" {
		b.WriteString(sectionStyle.Render("Day Summary"))
		b.WriteString("\n" + view.DaySummary + "\n\n")
	}
	if view.ScheduleSummary != "" {
		b.WriteString(sectionStyle.Render("Schedule Summary"))
		b.WriteString("\n" + view.ScheduleSummary + "\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-30s %-9s %-14s %s", "Time", "Activity", "Duration", "Type", "Status")))
	b.WriteString("\n")
	if len(view.Items) == 0 {
		b.WriteString(faintStyle.Render("No schedule items available."))
		b.WriteString("\n")
	}
	for _, item := range view.Items {
		displayTime, _ := schedule.FormatTime(item.Time)
		badge := typeStyles[item.ActivityType.VisualCategory()].Render(string(item.ActivityType))
		status := faintStyle.Render("pending")
		if completions != nil && completions.IsCompleted(item.Activity) {
			status = doneStyle.Render("completed")
		}
		b.WriteString(fmt.Sprintf("%-10s %-30s %-9s %-14s %s\n",
			displayTime, item.Activity, fmt.Sprintf("%d min", item.DurationMinutes), badge, status))
	}

	if len(view.UnscheduledTasks) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Unscheduled Tasks") + "\n")
		for _, task := range view.UnscheduledTasks {
			b.WriteString("  - " + task + "\n")
		}
	}

	if rec := view.MoodBased; rec != nil {
		b.WriteString("\n" + sectionStyle.Render("Recommendations Based on Your Mood") + "\n")
		if rec.EnergyManagement != "" {
			b.WriteString("Energy management: " + rec.EnergyManagement + "\n")
		}
		writeList(&b, "Break activities", rec.BreakActivities)
		writeList(&b, "Recommended meals", rec.RecommendedMeals)
		writeList(&b, "Mindfulness practices", rec.MindfulnessPractices)
	}

	if view.Recommendations != "" {
		b.WriteString("\n" + sectionStyle.Render("General Recommendations") + "\n" + view.Recommendations + "\n")
	}
	if view.AdaptabilityNotes != "" {
		b.WriteString("\n" + sectionStyle.Render("Adaptability Notes") + "\n" + view.AdaptabilityNotes + "\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + ":\n")
	for _, item := range items {
		b.WriteString("  - " + item + "\n")
	}
}

// Mood renders a mood analysis summary.
func Mood(a *mood.Analysis) string {
	if a == nil {
		return "No mood analysis available."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Mood Analysis"))
	b.WriteString("\n")
	if len(a.MoodTags) > 0 {
		b.WriteString("Tags: " + strings.Join(a.MoodTags, ", ") + "\n")
	}
	if a.Energy != "" {
		b.WriteString("Energy level: " + a.Energy + "\n")
	}
	if a.ConfidenceScore != "" {
		b.WriteString("Confidence: " + a.ConfidenceScore + "\n")
	}
	if len(a.Cravings) > 0 {
		b.WriteString("Cravings: " + strings.Join(a.Cravings, ", ") + "\n")
	}
	if a.PersonalizedTips != "" {
		b.WriteString("Tips: " + a.PersonalizedTips + "\n")
	}
	return b.String()
}

// Nutrition renders a one-day nutrition plan.
func Nutrition(p *nutrition.Plan) string {
	if p == nil {
		return "No nutrition plan available."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("One-Day Nutrition Plan"))
	b.WriteString("\n")
	meals := []struct {
		name string
		meal nutrition.Meal
	}{
		{"Breakfast", p.MealPlan.Breakfast},
		{"Lunch", p.MealPlan.Lunch},
		{"Dinner", p.MealPlan.Dinner},
		{"Snack", p.MealPlan.Snack},
	}
	for _, m := range meals {
		if m.meal.Recipe == "" {
			continue
		}
		b.WriteString(sectionStyle.Render(m.name) + ": " + m.meal.Recipe + "\n")
		if m.meal.Purpose != "" {
			b.WriteString("  Purpose: " + m.meal.Purpose + "\n")
		}
		if m.meal.PrepTime != "" {
			b.WriteString("  Prep time: " + m.meal.PrepTime + "\n")
		}
	}
	writeList(&b, "Grocery list", p.GroceryList)
	if p.Summary != "" {
		b.WriteString("Summary: " + p.Summary + "\n")
	}
	return b.String()
}
