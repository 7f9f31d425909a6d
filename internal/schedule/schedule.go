package schedule

// ActivityType categorizes a schedule item for display purposes.
type ActivityType string

const (
	ActivityWork        ActivityType = "work"
	ActivityBreak       ActivityType = "break"
	ActivityMeal        ActivityType = "meal"
	ActivityExercise    ActivityType = "exercise"
	ActivityMindfulness ActivityType = "mindfulness"
	ActivityTask        ActivityType = "task"
	ActivityFixedEvent  ActivityType = "fixed_event"
	ActivityOther       ActivityType = "other"
)

// VisualCategory maps an activity type onto the fixed display vocabulary.
// Values outside the vocabulary render as "other" but the raw value is kept
// on the item itself, so serializing it back is lossless.
func (t ActivityType) VisualCategory() ActivityType {
	switch t {
	case ActivityWork, ActivityBreak, ActivityMeal, ActivityExercise,
		ActivityMindfulness, ActivityTask, ActivityFixedEvent, ActivityOther:
		return t
	}
	return ActivityOther
}

// Item is a single entry in a day's schedule. The activity name doubles as
// the identity used for completion tracking: two items sharing a name are
// indistinguishable to the completion set.
type Item struct {
	Time            string       `json:"time"`
	Activity        string       `json:"activity"`
	DurationMinutes int          `json:"duration_minutes"`
	ActivityType    ActivityType `json:"activity_type"`
}

// Recommendations is the mood-based recommendation bundle the service may
// attach to a schedule. Every field is independently optional.
type Recommendations struct {
	EnergyManagement     string   `json:"energy_management,omitempty"`
	BreakActivities      []string `json:"break_activities,omitempty"`
	RecommendedMeals     []string `json:"recommended_meals,omitempty"`
	MindfulnessPractices []string `json:"mindfulness_practices,omitempty"`
}

// Payload is the raw schedule object as it appears on the wire, whichever
// of the three creation paths produced it.
type Payload struct {
	Schedule          []Item           `json:"schedule"`
	DaySummary        string           `json:"day_summary,omitempty"`
	ScheduleSummary   string           `json:"schedule_summary,omitempty"`
	UnscheduledTasks  []string         `json:"unscheduled_tasks,omitempty"`
	MoodBased         *Recommendations `json:"mood_based_recommendations,omitempty"`
	Recommendations   string           `json:"recommendations,omitempty"`
	AdaptabilityNotes string           `json:"adaptability_notes,omitempty"`
}

// View is the canonical in-memory representation of a day's planned
// activities, regardless of which remote operation produced it. Item order
// is the display order as returned by the service; the client never re-sorts.
type View struct {
	Items             []Item
	DaySummary        string
	ScheduleSummary   string
	UnscheduledTasks  []string
	MoodBased         *Recommendations
	Recommendations   string
	AdaptabilityNotes string
}

func newView(p *Payload) *View {
	return &View{
		Items:             p.Schedule,
		DaySummary:        p.DaySummary,
		ScheduleSummary:   p.ScheduleSummary,
		UnscheduledTasks:  p.UnscheduledTasks,
		MoodBased:         p.MoodBased,
		Recommendations:   p.Recommendations,
		AdaptabilityNotes: p.AdaptabilityNotes,
	}
}

// Payload converts the view back into the wire shape. Adjustment requests
// send the current schedule verbatim as the service last returned it.
func (v *View) Payload() Payload {
	return Payload{
		Schedule:          v.Items,
		DaySummary:        v.DaySummary,
		ScheduleSummary:   v.ScheduleSummary,
		UnscheduledTasks:  v.UnscheduledTasks,
		MoodBased:         v.MoodBased,
		Recommendations:   v.Recommendations,
		AdaptabilityNotes: v.AdaptabilityNotes,
	}
}
