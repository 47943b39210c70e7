// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	WindowSize  int
	OpenAI      OpenAIConfig
	Providers   ProviderConfig
	Transcript  TranscriptConfig
}

// OpenAIConfig controls the generation backend.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float64
	MaxAttempts    int
	RequestTimeout time.Duration
}

// ProviderConfig holds API keys for the optional travel data providers.
// An empty key disables the corresponding provider.
type ProviderConfig struct {
	OpenWeatherKey string
	GoogleMapsKey  string
	TripAdvisorKey string
}

// TranscriptConfig controls the SQLite transcript archive.
type TranscriptConfig struct {
	Enabled   bool
	DBPath    string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("TRANSCRIPT_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		WindowSize:  getEnvInt("CONVERSATION_WINDOW_SIZE", 10),
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:    getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxAttempts:    getEnvInt("OPENAI_MAX_ATTEMPTS", 3),
			RequestTimeout: getEnvDuration("OPENAI_REQUEST_TIMEOUT", 30*time.Second),
		},
		Providers: ProviderConfig{
			OpenWeatherKey: getEnv("OPENWEATHER_API_KEY", ""),
			GoogleMapsKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			TripAdvisorKey: getEnv("TRIPADVISOR_API_KEY", ""),
		},
		Transcript: TranscriptConfig{
			Enabled:   getEnvBool("TRANSCRIPT_ARCHIVE_ENABLED", true),
			DBPath:    getEnv("TRANSCRIPT_DB_PATH", "./data/transcripts.db"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL cannot be empty")
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("CONVERSATION_WINDOW_SIZE must be > 0")
	}
	if c.OpenAI.MaxAttempts <= 0 {
		return fmt.Errorf("OPENAI_MAX_ATTEMPTS must be > 0")
	}
	if c.Transcript.Enabled && c.Transcript.DBPath == "" {
		return fmt.Errorf("TRANSCRIPT_DB_PATH cannot be empty when the archive is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env == "development"
	}
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
