package acceptance_tests

import (
	"context"
	"testing"

	"mood-scheduler/internal/mentor"
	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"
	"mood-scheduler/internal/session"
)

// --- Mock Mentor Client ---
type mockMentorClient struct {
	adjustCalls    int
	lastAdjustment *schedule.AdjustmentRequest
}

func (m *mockMentorClient) Status(ctx context.Context) error { return nil }

func (m *mockMentorClient) AnalyzeMood(ctx context.Context, moodText string) (*mood.Analysis, error) {
	return &mood.Analysis{MoodTags: []string{"focused"}, Energy: "High", ConfidenceScore: "High"}, nil
}

func (m *mockMentorClient) CreateSchedule(ctx context.Context, req mentor.ScheduleRequest) (*schedule.Envelope, error) {
	return &schedule.Envelope{Schedule: &schedule.Payload{Schedule: []schedule.Item{
		{Time: "09:00", Activity: "Morning focus", DurationMinutes: 90, ActivityType: "work"},
	}}}, nil
}

func (m *mockMentorClient) CreateCustomSchedule(ctx context.Context, req mentor.CustomScheduleRequest) (*schedule.Envelope, error) {
	var items []schedule.Item
	slot := "09:00"
	for _, task := range req.Tasks {
		items = append(items, schedule.Item{
			Time:            slot,
			Activity:        task.Name,
			DurationMinutes: task.DurationMinutes,
			ActivityType:    "task",
		})
		slot = "10:00"
	}
	return &schedule.Envelope{CustomSchedule: &schedule.Payload{Schedule: items}}, nil
}

func (m *mockMentorClient) AdjustSchedule(ctx context.Context, req schedule.AdjustmentRequest) (*schedule.Envelope, error) {
	m.adjustCalls++
	m.lastAdjustment = &req

	// Echo the current schedule back shifted, the way a re-plan would.
	items := make([]schedule.Item, len(req.CurrentSchedule.Schedule))
	copy(items, req.CurrentSchedule.Schedule)
	for i := range items {
		items[i].Time = "1" + items[i].Time
	}
	return &schedule.Envelope{
		AdjustedSchedule: &schedule.Payload{Schedule: items},
		UpdatedMood:      &mood.Analysis{MoodTags: []string{"tired"}, Energy: "Low"},
	}, nil
}

func (m *mockMentorClient) NutritionPlan(ctx context.Context, req mentor.NutritionRequest) (*nutrition.Plan, error) {
	return &nutrition.Plan{Summary: "Light meals"}, nil
}

// TestAdjustmentWorkflow drives the full client-side flow: create a custom
// schedule, mark an activity complete, adjust, and check the completion mark
// survives the re-plan.
func TestAdjustmentWorkflow(t *testing.T) {
	ctx := context.Background()
	client := &mockMentorClient{}
	st := session.New()

	// 1. Create a custom schedule from explicit tasks.
	env, err := client.CreateCustomSchedule(ctx, mentor.CustomScheduleRequest{
		Tasks: []mentor.Task{
			{Name: "Write report", DurationMinutes: 45, Priority: "high"},
			{Name: "Email triage", DurationMinutes: 15, Priority: "low"},
		},
	})
	if err != nil {
		t.Fatalf("CreateCustomSchedule failed: %v", err)
	}
	view, ok := st.LoadSchedule(env)
	if !ok {
		t.Fatal("Expected a schedule view")
	}
	if len(view.Items) != 2 || view.Items[0].Activity != "Write report" {
		t.Fatalf("Unexpected schedule: %+v", view.Items)
	}

	// 2. Mark the report done and queue a new fixed event.
	st.ToggleCompletion("Write report")
	st.AddDraftEvent(schedule.FixedEvent{Title: "Dentist", StartTime: "14:00", EndTime: "15:00"})
	st.AddDraftEvent(schedule.FixedEvent{Title: "No times yet"})

	// 3. Adjust around the new mood.
	req, err := st.BuildAdjustment("flagging after lunch")
	if err != nil {
		t.Fatalf("BuildAdjustment failed: %v", err)
	}
	adjusted, err := client.AdjustSchedule(ctx, *req)
	if err != nil {
		t.Fatalf("AdjustSchedule failed: %v", err)
	}
	adjustedView, ok := st.ApplyAdjustment(adjusted)
	if !ok {
		t.Fatal("Expected an adjusted view")
	}

	// The wire request carried the completion and only the complete event.
	sent := client.lastAdjustment
	if len(sent.CompletedActivities) != 1 || sent.CompletedActivities[0] != "Write report" {
		t.Errorf("Unexpected completed activities on the wire: %+v", sent.CompletedActivities)
	}
	if len(sent.NewEvents) != 1 || sent.NewEvents[0].Title != "Dentist" {
		t.Errorf("Incomplete drafts should be dropped: %+v", sent.NewEvents)
	}
	if len(sent.CurrentSchedule.Schedule) != 2 {
		t.Errorf("Current schedule should be sent verbatim: %+v", sent.CurrentSchedule)
	}

	// 4. The completion mark survives into the adjusted schedule.
	if adjustedView.Items[0].Activity != "Write report" {
		t.Fatalf("Unexpected adjusted schedule: %+v", adjustedView.Items)
	}
	if !st.IsCompleted("Write report") {
		t.Error("Completion mark should carry across the adjustment")
	}
	if st.IsCompleted("Email triage") {
		t.Error("Pending activity should stay pending")
	}

	// The adjustment's updated mood is what renders next.
	if got := st.Envelope().Mood(); got == nil || got.Energy != "Low" {
		t.Errorf("Expected updated mood from adjustment, got %+v", got)
	}
}

// TestAdjustmentValidation checks rejected adjustments never reach the
// service.
func TestAdjustmentValidation(t *testing.T) {
	ctx := context.Background()
	client := &mockMentorClient{}
	st := session.New()

	t.Run("NoScheduleLoaded", func(t *testing.T) {
		if _, err := st.BuildAdjustment("fine"); err != schedule.ErrNoSchedule {
			t.Errorf("Expected ErrNoSchedule, got %v", err)
		}
	})

	env, err := client.CreateSchedule(ctx, mentor.ScheduleRequest{MoodText: "good"})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	st.LoadSchedule(env)

	t.Run("BlankMood", func(t *testing.T) {
		if _, err := st.BuildAdjustment("   "); err != schedule.ErrBlankMood {
			t.Errorf("Expected ErrBlankMood, got %v", err)
		}
	})

	if client.adjustCalls != 0 {
		t.Errorf("Rejected adjustments must not reach the service, got %d calls", client.adjustCalls)
	}
}

// TestNewScheduleResetsCompletions checks a fresh schedule never inherits
// old completion marks.
func TestNewScheduleResetsCompletions(t *testing.T) {
	ctx := context.Background()
	client := &mockMentorClient{}
	st := session.New()

	env, _ := client.CreateSchedule(ctx, mentor.ScheduleRequest{MoodText: "good"})
	st.LoadSchedule(env)
	st.ToggleCompletion("Morning focus")

	env2, _ := client.CreateSchedule(ctx, mentor.ScheduleRequest{MoodText: "better"})
	st.LoadSchedule(env2)

	if st.IsCompleted("Morning focus") {
		t.Error("A brand-new schedule should start with no completions")
	}
}
