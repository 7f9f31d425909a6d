package metrics

import (
	"context"
	"database/sql"
	"time"
)

// CallMetric records one remote service call. A zero status means the
// request never got a response.
type CallMetric struct {
	Endpoint  string
	Status    int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of call metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m CallMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO call_metrics (endpoint, status, latency_ms, timestamp) VALUES (?, ?, ?, ?)`,
		m.Endpoint, m.Status, m.LatencyMS, ts,
	)
	return err
}

// RecordCall satisfies the mentor client's recorder hook.
func (s *Store) RecordCall(endpoint string, status int, latency time.Duration) {
	_ = s.Record(CallMetric{
		Endpoint:  endpoint,
		Status:    status,
		LatencyMS: latency.Milliseconds(),
	})
}

// DailyUsage represents call totals for a single day.
type DailyUsage struct {
	Date         string
	TotalCalls   int
	FailedCalls  int
	AvgLatencyMS int64
}

// GetDailyUsage retrieves usage for the last N days, oldest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT date(timestamp) AS day,
		       COUNT(*),
		       SUM(CASE WHEN status < 200 OR status >= 300 THEN 1 ELSE 0 END),
		       CAST(AVG(latency_ms) AS INTEGER)
		FROM call_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.TotalCalls, &u.FailedCalls, &u.AvgLatencyMS); err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many rows were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM call_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
