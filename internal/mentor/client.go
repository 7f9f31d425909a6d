package mentor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mood-scheduler/internal/config"
	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/nutrition"
	"mood-scheduler/internal/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client is an interface for the remote mentor inference service. All domain
// reasoning (mood classification, schedule synthesis, meal planning) happens
// on the other side of it; the client only collects input and renders
// results.
type Client interface {
	Status(ctx context.Context) error
	AnalyzeMood(ctx context.Context, moodText string) (*mood.Analysis, error)
	CreateSchedule(ctx context.Context, req ScheduleRequest) (*schedule.Envelope, error)
	CreateCustomSchedule(ctx context.Context, req CustomScheduleRequest) (*schedule.Envelope, error)
	AdjustSchedule(ctx context.Context, req schedule.AdjustmentRequest) (*schedule.Envelope, error)
	NutritionPlan(ctx context.Context, req NutritionRequest) (*nutrition.Plan, error)
}

// Recorder receives one record per remote call, success or failure. A zero
// status means the request never got a response.
type Recorder interface {
	RecordCall(endpoint string, status int, latency time.Duration)
}

// httpClient is the concrete JSON-over-HTTPS implementation of Client.
type httpClient struct {
	baseURL  string
	apiToken string
	client   *http.Client
	recorder Recorder
}

// NewClient creates a new mentor service client. recorder may be nil.
func NewClient(cfg *config.Config, recorder Recorder) Client {
	return &httpClient{
		baseURL:  cfg.MentorBaseURL,
		apiToken: cfg.MentorAPIToken,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		recorder: recorder,
	}
}

// Status checks the service health endpoint.
func (c *httpClient) Status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mentor service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mentor service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *httpClient) AnalyzeMood(ctx context.Context, moodText string) (*mood.Analysis, error) {
	var out mood.Analysis
	if err := c.post(ctx, "/analyze-mood", MoodRequest{MoodText: moodText}, &out); err != nil {
		return nil, fmt.Errorf("failed to analyze mood: %w", err)
	}
	return &out, nil
}

func (c *httpClient) CreateSchedule(ctx context.Context, req ScheduleRequest) (*schedule.Envelope, error) {
	var out schedule.Envelope
	if err := c.post(ctx, "/create-schedule", req, &out); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &out, nil
}

func (c *httpClient) CreateCustomSchedule(ctx context.Context, req CustomScheduleRequest) (*schedule.Envelope, error) {
	var out schedule.Envelope
	if err := c.post(ctx, "/create-custom-schedule", req, &out); err != nil {
		return nil, fmt.Errorf("failed to create custom schedule: %w", err)
	}
	return &out, nil
}

func (c *httpClient) AdjustSchedule(ctx context.Context, req schedule.AdjustmentRequest) (*schedule.Envelope, error) {
	var out schedule.Envelope
	if err := c.post(ctx, "/adjust-schedule", req, &out); err != nil {
		return nil, fmt.Errorf("failed to adjust schedule: %w", err)
	}
	return &out, nil
}

func (c *httpClient) NutritionPlan(ctx context.Context, req NutritionRequest) (*nutrition.Plan, error) {
	var out nutrition.Plan
	if err := c.post(ctx, "/nutrition-plan", req, &out); err != nil {
		return nil, fmt.Errorf("failed to generate nutrition plan: %w", err)
	}
	return &out, nil
}

// post sends one JSON request and decodes the response into out. A non-2xx
// response is a single terminal error for that action: no retries, no
// partial application.
func (c *httpClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.record(path, 0, latency)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.record(path, resp.StatusCode, latency)
	config.Logger.WithFields(logrus.Fields{
		"endpoint":   path,
		"status":     resp.StatusCode,
		"latency_ms": latency.Milliseconds(),
		"request_id": requestID,
	}).Info("mentor call finished")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mentor api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *httpClient) record(endpoint string, status int, latency time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordCall(endpoint, status, latency)
}
