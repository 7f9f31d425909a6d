// Package parse converts the pipe-delimited input formats shared by the bot
// and the CLI into request types. Specs arrive one per message line in the
// bot and one per repeated flag in the CLI.
package parse

import (
	"strconv"
	"strings"

	"mood-scheduler/internal/mentor"
	"mood-scheduler/internal/schedule"
)

// Lines splits a message into trimmed, non-empty lines.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Tasks reads specs in the form "name | minutes | priority". Minutes default
// to 30 and priority to "medium" when omitted; nameless specs are skipped.
func Tasks(specs []string) []mentor.Task {
	var tasks []mentor.Task
	for _, spec := range specs {
		parts := strings.Split(spec, "|")
		task := mentor.Task{
			Name:            strings.TrimSpace(parts[0]),
			DurationMinutes: 30,
			Priority:        "medium",
		}
		if task.Name == "" {
			continue
		}
		if len(parts) > 1 {
			if minutes, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && minutes > 0 {
				task.DurationMinutes = minutes
			}
		}
		if len(parts) > 2 {
			if priority := strings.TrimSpace(parts[2]); priority != "" {
				task.Priority = priority
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// Events reads specs in the form "title | start | end [| flexible]". Times
// are passed through verbatim. Incomplete specs are kept as drafts; the
// adjustment request builder drops them.
func Events(specs []string) []schedule.FixedEvent {
	var events []schedule.FixedEvent
	for _, spec := range specs {
		parts := strings.Split(spec, "|")
		ev := schedule.FixedEvent{Title: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			ev.StartTime = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			ev.EndTime = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			flag := strings.ToLower(strings.TrimSpace(parts[3]))
			ev.IsFlexible = flag == "flexible" || flag == "yes" || flag == "true"
		}
		events = append(events, ev)
	}
	return events
}

// TimeRange reads "HH:MM-HH:MM" (or "start - end" in any free form the
// service accepts). Returns nil when the text is not a range.
func TimeRange(text string) *mentor.TimeRange {
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return nil
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return nil
	}
	return &mentor.TimeRange{StartTime: start, EndTime: end}
}

// Dietary reads "conditions | diets | allergies | goals" where the first
// three groups are comma-separated lists.
func Dietary(text string) (conditions, diets, allergies []string, goals string) {
	parts := strings.Split(text, "|")
	commaList := func(s string) []string {
		var out []string
		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	if len(parts) > 0 {
		conditions = commaList(parts[0])
	}
	if len(parts) > 1 {
		diets = commaList(parts[1])
	}
	if len(parts) > 2 {
		allergies = commaList(parts[2])
	}
	if len(parts) > 3 {
		goals = strings.TrimSpace(parts[3])
	}
	return conditions, diets, allergies, goals
}
