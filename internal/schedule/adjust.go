package schedule

import (
	"errors"
	"strings"
)

var (
	// ErrNoSchedule is returned when an adjustment is requested without a
	// current schedule to adjust.
	ErrNoSchedule = errors.New("no current schedule to adjust")

	// ErrBlankMood is returned when the mood narrative is empty after
	// trimming. Validation happens before any network call.
	ErrBlankMood = errors.New("mood text must not be blank")
)

// FixedEvent is a calendar commitment. All time fields are free-form strings
// passed through verbatim; the service owns all time interpretation.
type FixedEvent struct {
	Title      string `json:"title"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	IsFlexible bool   `json:"is_flexible"`
}

// complete reports whether the draft has all required fields filled in.
func (e FixedEvent) complete() bool {
	return strings.TrimSpace(e.Title) != "" &&
		strings.TrimSpace(e.StartTime) != "" &&
		strings.TrimSpace(e.EndTime) != ""
}

// AdjustmentRequest is the payload for a re-plan call.
type AdjustmentRequest struct {
	CurrentSchedule     Payload      `json:"current_schedule"`
	MoodText            string       `json:"mood_text"`
	CompletedActivities []string     `json:"completed_activities"`
	NewEvents           []FixedEvent `json:"new_events"`
}

// BuildAdjustmentRequest assembles the payload for a re-plan call from the
// current canonical schedule, the completion set, freshly entered fixed
// events, and the new mood narrative. Partially filled drafts are silently
// dropped. The builder does no time arithmetic, conflict detection, or
// merging of old and new events; that is the service's job.
func BuildAdjustmentRequest(view *View, moodText string, completed *CompletionSet, drafts []FixedEvent) (*AdjustmentRequest, error) {
	if view == nil {
		return nil, ErrNoSchedule
	}
	if strings.TrimSpace(moodText) == "" {
		return nil, ErrBlankMood
	}

	events := make([]FixedEvent, 0, len(drafts))
	for _, ev := range drafts {
		if ev.complete() {
			events = append(events, ev)
		}
	}

	completedNames := []string{}
	if completed != nil {
		completedNames = completed.Names()
	}

	return &AdjustmentRequest{
		CurrentSchedule:     view.Payload(),
		MoodText:            moodText,
		CompletedActivities: completedNames,
		NewEvents:           events,
	}, nil
}
