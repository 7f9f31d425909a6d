package session

import (
	"sync"

	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"
)

// State is the single owner of cross-view client state: the latest mood
// analysis, the current raw schedule result and its canonical view, the
// nutrition plan, completion marks and pending event drafts. Updates can
// arrive from concurrent webhook handler goroutines, so every accessor
// holds the state mutex.
type State struct {
	mu           sync.Mutex
	moodAnalysis *mood.Analysis
	envelope     *schedule.Envelope
	view         *schedule.View
	plan         *nutrition.Plan
	completions  *schedule.CompletionSet
	drafts       []schedule.FixedEvent
	loading      bool
}

// New creates an empty session state.
func New() *State {
	return &State{completions: schedule.NewCompletionSet()}
}

// SetMoodAnalysis stores a fresh mood analysis. Any nutrition plan on
// display is invalidated: a plan is only meaningful relative to the analysis
// it was generated from.
func (s *State) SetMoodAnalysis(a *mood.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moodAnalysis = a
	s.plan = nil
}

// MoodAnalysis returns the analysis from the most recent mood call, or nil.
func (s *State) MoodAnalysis() *mood.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moodAnalysis
}

// LoadSchedule applies the result of a creation call (goal-driven or
// custom). This is the brand-new-schedule transition: completion marks and
// pending drafts are discarded.
func (s *State) LoadSchedule(env *schedule.Envelope) (*schedule.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = env
	s.completions.Reset()
	s.drafts = nil
	view, ok := schedule.Normalize(env)
	s.view = view
	return view, ok
}

// ApplyAdjustment applies the result of an adjustment call. Completion marks
// are deliberately kept so activities finished before the re-plan stay
// marked when the same name recurs in the adjusted schedule.
func (s *State) ApplyAdjustment(env *schedule.Envelope) (*schedule.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = env
	s.drafts = nil
	view, ok := schedule.Normalize(env)
	s.view = view
	return view, ok
}

// View returns the current canonical schedule view. ok is false when no
// schedule is loaded or the last result carried none; callers render a
// "no schedule" state, not an empty table.
func (s *State) View() (*schedule.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.view != nil
}

// Envelope returns the raw result the current view came from, or nil.
func (s *State) Envelope() *schedule.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envelope
}

// ToggleCompletion flips the completion mark for an activity name.
func (s *State) ToggleCompletion(activity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions.Toggle(activity)
}

// IsCompleted reports whether the activity is marked done.
func (s *State) IsCompleted(activity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions.IsCompleted(activity)
}

// Completions exposes the completion set for rendering and request building.
// The set carries its own lock, so holding it outside the state mutex is safe.
func (s *State) Completions() *schedule.CompletionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions
}

// AddDraftEvent queues a newly surfaced fixed event for the next adjustment.
func (s *State) AddDraftEvent(ev schedule.FixedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, ev)
}

// DraftEvents returns the queued fixed events.
func (s *State) DraftEvents() []schedule.FixedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts
}

// ClearDraftEvents drops all queued fixed events.
func (s *State) ClearDraftEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = nil
}

// BuildAdjustment assembles an adjustment request from the current view, the
// completion set and the queued drafts. Fails before any network call when
// there is no schedule or the mood text is blank.
func (s *State) BuildAdjustment(moodText string) (*schedule.AdjustmentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schedule.BuildAdjustmentRequest(s.view, moodText, s.completions, s.drafts)
}

// SetNutritionPlan stores the plan generated from the current mood analysis.
func (s *State) SetNutritionPlan(p *nutrition.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

// NutritionPlan returns the current plan, or nil when none is valid.
func (s *State) NutritionPlan() *nutrition.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// SetLoading flips the loading flag that gates the UI while one call is in
// flight. It does not enforce mutual exclusion at the data layer.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a call is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
