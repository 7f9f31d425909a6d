package schedule

import (
	"mood-scheduler/internal/mood"
)

// Envelope is the top-level result of any schedule creation or adjustment
// call. The service sets exactly one of the three payload fields depending
// on which endpoint handled the request.
type Envelope struct {
	Schedule         *Payload       `json:"schedule,omitempty"`
	CustomSchedule   *Payload       `json:"custom_schedule,omitempty"`
	AdjustedSchedule *Payload       `json:"adjusted_schedule,omitempty"`
	MoodAnalysis     *mood.Analysis `json:"mood_analysis,omitempty"`
	UpdatedMood      *mood.Analysis `json:"updated_mood_analysis,omitempty"`
}

// Normalize extracts the canonical schedule view from a raw result.
// Resolution is a fixed priority, not a merge: schedule, then
// custom_schedule, then adjusted_schedule; the first non-nil field wins.
// When none is present ok is false and the caller must render a
// "no schedule" state, never an empty table.
func Normalize(env *Envelope) (*View, bool) {
	if env == nil {
		return nil, false
	}
	for _, p := range []*Payload{env.Schedule, env.CustomSchedule, env.AdjustedSchedule} {
		if p != nil {
			return newView(p), true
		}
	}
	return nil, false
}

// Mood returns the analysis attached to the envelope, if any. Creation
// results carry mood_analysis, adjustment results updated_mood_analysis;
// the first present wins.
func (e *Envelope) Mood() *mood.Analysis {
	if e == nil {
		return nil
	}
	if e.MoodAnalysis != nil {
		return e.MoodAnalysis
	}
	return e.UpdatedMood
}
