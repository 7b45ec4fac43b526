package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDatabasePath = "data/recipe-shopper.db"
	defaultDataDir      = "data"
	defaultLogLevel     = "info"
	defaultPort         = "8080"
)

// Config holds the configuration for the application.
type Config struct {
	GhostURL        string
	GhostContentKey string
	GhostAdminKey   string

	DatabasePath string
	DataDir      string
	UnitsFile    string
	LogLevel     string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

// Load reads a .env file when one exists and then builds the Config from
// the environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return NewFromEnv()
}

// NewFromEnv creates a new Config object from environment variables.
// Ghost and Telegram settings are checked by RequireGhost and RequireTelegram
// because not every command needs them.
func NewFromEnv() (*Config, error) {
	ghostContentKey := os.Getenv("GHOST_CONTENT_API_KEY")
	ghostAdminKey := os.Getenv("GHOST_ADMIN_API_KEY")
	if ghostAdminKey == "" {
		// Fallback to content key if only one is provided
		ghostAdminKey = ghostContentKey
	}

	allowed, err := parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		adminID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		GhostURL:               strings.TrimRight(os.Getenv("GHOST_API_URL"), "/"),
		GhostContentKey:        ghostContentKey,
		GhostAdminKey:          ghostAdminKey,
		DatabasePath:           getenv("DATABASE_PATH", defaultDatabasePath),
		DataDir:                getenv("DATA_DIR", defaultDataDir),
		UnitsFile:              os.Getenv("UNITS_FILE"),
		LogLevel:               getenv("LOG_LEVEL", defaultLogLevel),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   getenv("PORT", defaultPort),
	}, nil
}

// RequireGhost reports the first missing Ghost setting.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostContentKey == "" {
		return fmt.Errorf("GHOST_CONTENT_API_KEY environment variable not set")
	}
	return nil
}

// RequireTelegram reports the first missing Telegram setting.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
