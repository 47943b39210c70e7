package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfare/wayfare/internal/domain"
)

var errNoChoices = errors.New("completion returned no choices")

// OpenAIConfig holds configuration for the OpenAI-compatible chat
// completions client.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float64
	MaxAttempts    int
	RequestTimeout time.Duration
}

// DefaultOpenAIConfig returns default configuration.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:          "gpt-4o-mini",
		BaseURL:        "https://api.openai.com/v1",
		Temperature:    0.7,
		MaxAttempts:    3,
		RequestTimeout: 30 * time.Second,
	}
}

// OpenAIClient implements Generator against an OpenAI-compatible chat
// completions endpoint. Each call is bounded by RequestTimeout and retried
// up to MaxAttempts times.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *slog.Logger
}

// NewOpenAIClient creates a generation backend client. The API key is
// required; everything else falls back to defaults.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}

	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate implements Generator. The system prompt is sent as the first
// message; the conversation's own system preamble is skipped so the prompt
// is not doubled up.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt string, history []domain.Message, input string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, msg := range history {
		if msg.IsSystem() {
			continue
		}
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, chatMessage{Role: domain.RoleUser, Content: input})

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		reply, err := c.complete(ctx, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		c.logger.Warn("completion attempt failed", "attempt", attempt, "max_attempts", c.cfg.MaxAttempts, "error", err)
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

func (c *OpenAIClient) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errNoChoices
	}
	return parsed.Choices[0].Message.Content, nil
}
