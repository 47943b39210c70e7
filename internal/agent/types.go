// Package agent implements the travel agent: the generation backend client
// and the per-turn orchestration between conversational memory, preference
// extraction and structured response formatting.
package agent

import (
	"context"

	"github.com/wayfare/wayfare/internal/domain"
)

// Apology replaces the normal response whenever the generation backend
// fails. The raw failure is never shown to the client.
const Apology = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// Generator is the generation backend. The core treats it as a black box
// with unspecified latency; timeout and retry policy belong to the
// implementation.
type Generator interface {
	// Generate produces a reply for the enriched input given the system
	// prompt and the trimmed conversation history.
	Generate(ctx context.Context, systemPrompt string, history []domain.Message, input string) (string, error)
}

// TranscriptSink receives a copy of every exchanged message for archival.
// Implementations must not block the caller.
type TranscriptSink interface {
	Record(sessionID, role, content string)
}

// SessionInfo is the session metadata object served on get_session_info and
// attached to welcome and response messages.
type SessionInfo struct {
	SessionID       string             `json:"session_id"`
	UserPreferences domain.Preferences `json:"user_preferences"`
	ContextSummary  string             `json:"context_summary"`
	AvailableTools  []string           `json:"available_tools"`
	TotalTools      int                `json:"total_tools"`
}
