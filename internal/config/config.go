package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	// Remote mentor service
	MentorBaseURL  string
	MentorAPIToken string
	RequestTimeout time.Duration

	DatabasePath    string
	PreferencesPath string

	// Telegram Config (optional for the CLI, required for the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	baseURL := os.Getenv("MENTOR_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("MENTOR_API_URL environment variable not set")
	}

	// The source client sends requests with no deadline at all; a hung call
	// would spin forever. A timeout is a deliberate divergence, kept
	// configurable so it can be raised for slow inference runs.
	timeout := 90 * time.Second
	if raw := os.Getenv("MENTOR_REQUEST_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MENTOR_REQUEST_TIMEOUT_SECONDS %q: %w", raw, err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/mood-scheduler.db"
	}

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		fmt.Sscanf(raw, "%d", &adminID)
	}

	return &Config{
		MentorBaseURL:          strings.TrimRight(baseURL, "/"),
		MentorAPIToken:         os.Getenv("MENTOR_API_TOKEN"),
		RequestTimeout:         timeout,
		DatabasePath:           dbPath,
		PreferencesPath:        os.Getenv("PREFERENCES_FILE"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}
