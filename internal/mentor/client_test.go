package mentor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mood-scheduler/internal/config"
	"mood-scheduler/internal/schedule"
)

type recordedCall struct {
	endpoint string
	status   int
}

type fakeRecorder struct {
	calls []recordedCall
}

func (f *fakeRecorder) RecordCall(endpoint string, status int, latency time.Duration) {
	f.calls = append(f.calls, recordedCall{endpoint: endpoint, status: status})
}

func newTestClient(t *testing.T, handler http.Handler) (Client, *fakeRecorder, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	recorder := &fakeRecorder{}
	cfg := &config.Config{
		MentorBaseURL:  server.URL,
		RequestTimeout: 5 * time.Second,
	}
	return NewClient(cfg, recorder), recorder, server
}

func TestAnalyzeMood(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, recorder, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/analyze-mood" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("Expected X-Request-ID header")
			}

			var req MoodRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("Failed to decode request: %v", err)
			}
			if req.MoodText != "tired but hopeful" {
				t.Errorf("Unexpected mood text: %q", req.MoodText)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"Mood tags": ["tired", "hopeful"], "Energy": "Low", "confidence score": "High"}`))
		}))

		analysis, err := client.AnalyzeMood(context.Background(), "tired but hopeful")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(analysis.MoodTags) != 2 || analysis.MoodTags[0] != "tired" {
			t.Errorf("Unexpected tags: %+v", analysis.MoodTags)
		}
		if analysis.Energy != "Low" {
			t.Errorf("Unexpected energy: %q", analysis.Energy)
		}
		if analysis.ConfidenceScore != "High" {
			t.Errorf("Unexpected confidence: %q", analysis.ConfidenceScore)
		}

		if len(recorder.calls) != 1 || recorder.calls[0].status != http.StatusOK {
			t.Errorf("Unexpected recorded calls: %+v", recorder.calls)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		client, recorder, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusBadGateway)
		}))

		_, err := client.AnalyzeMood(context.Background(), "fine")
		if err == nil {
			t.Fatal("Expected an error")
		}
		if !strings.Contains(err.Error(), "status=502") {
			t.Errorf("Expected status in error, got: %v", err)
		}
		if len(recorder.calls) != 1 || recorder.calls[0].status != http.StatusBadGateway {
			t.Errorf("Failed call should still be recorded: %+v", recorder.calls)
		}
	})
}

func TestAdjustSchedule(t *testing.T) {
	t.Run("SendsScheduleVerbatim", func(t *testing.T) {
		var received schedule.AdjustmentRequest
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/adjust-schedule" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Fatalf("Failed to decode request: %v", err)
			}
			w.Write([]byte(`{"adjusted_schedule": {"schedule": [{"time": "10:00", "activity": "Write report", "duration_minutes": 45, "activity_type": "work"}]}}`))
		}))

		req := schedule.AdjustmentRequest{
			CurrentSchedule: schedule.Payload{Schedule: []schedule.Item{
				{Time: "09:00", Activity: "Write report", DurationMinutes: 45, ActivityType: "work"},
			}},
			MoodText:            "flagging",
			CompletedActivities: []string{},
			NewEvents:           []schedule.FixedEvent{},
		}
		env, err := client.AdjustSchedule(context.Background(), req)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if received.MoodText != "flagging" {
			t.Errorf("Unexpected mood text on the wire: %q", received.MoodText)
		}
		if len(received.CurrentSchedule.Schedule) != 1 || received.CurrentSchedule.Schedule[0].Time != "09:00" {
			t.Errorf("Schedule not sent verbatim: %+v", received.CurrentSchedule)
		}
		if received.CompletedActivities == nil {
			t.Error("completed_activities should serialize as an empty list, not null")
		}

		view, ok := schedule.Normalize(env)
		if !ok || view.Items[0].Time != "10:00" {
			t.Errorf("Unexpected adjusted view: %+v", view)
		}
	})
}

func TestStatus(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/status" || r.Method != http.MethodGet {
				t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		}))
		if err := client.Status(context.Background()); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Unhealthy", func(t *testing.T) {
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		if err := client.Status(context.Background()); err == nil {
			t.Error("Expected an error for unhealthy service")
		}
	})
}

func TestAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Unexpected Authorization header: %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		MentorBaseURL:  server.URL,
		MentorAPIToken: "secret-token",
		RequestTimeout: 5 * time.Second,
	}
	client := NewClient(cfg, nil)
	if _, err := client.AnalyzeMood(context.Background(), "ok"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
