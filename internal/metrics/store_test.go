package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"mood-scheduler/internal/database"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStoreDailyUsage(t *testing.T) {
	store := setupStore(t)

	store.RecordCall("/analyze-mood", 200, 120*time.Millisecond)
	store.RecordCall("/create-schedule", 200, 300*time.Millisecond)
	store.RecordCall("/adjust-schedule", 502, 40*time.Millisecond)
	store.RecordCall("/analyze-mood", 0, 90*time.Second) // timeout, no response

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}

	day := usage[0]
	if day.TotalCalls != 4 {
		t.Errorf("Expected 4 calls, got %d", day.TotalCalls)
	}
	if day.FailedCalls != 2 {
		t.Errorf("Expected 2 failed calls, got %d", day.FailedCalls)
	}
	if day.AvgLatencyMS <= 0 {
		t.Errorf("Expected positive average latency, got %d", day.AvgLatencyMS)
	}
}

func TestStoreCleanup(t *testing.T) {
	store := setupStore(t)

	if err := store.Record(CallMetric{
		Endpoint:  "/analyze-mood",
		Status:    200,
		LatencyMS: 100,
		Timestamp: time.Now().UTC().AddDate(0, 0, -40),
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.RecordCall("/analyze-mood", 200, 100*time.Millisecond)

	deleted, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}

	usage, err := store.GetDailyUsage(90)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 || usage[0].TotalCalls != 1 {
		t.Errorf("Unexpected usage after cleanup: %+v", usage)
	}
}
