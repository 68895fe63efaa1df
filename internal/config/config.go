package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the backend.
type Config struct {
	Addr             string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	ExpoPushURL      string
	ReminderInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:             strings.TrimSpace(os.Getenv("ADDR")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:         parseDuration(strings.TrimSpace(os.Getenv("TOKEN_TTL"))),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		GeminiBaseURL:    strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		ExpoPushURL:      strings.TrimSpace(os.Getenv("EXPO_PUSH_URL")),
		ReminderInterval: parseDuration(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL"))),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":5001"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "aura.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 100 * time.Hour
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash-latest"
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.ExpoPushURL == "" {
		cfg.ExpoPushURL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.ReminderInterval == 0 {
		cfg.ReminderInterval = time.Minute
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GeminiAPIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return cfg, nil
}

func parseDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
