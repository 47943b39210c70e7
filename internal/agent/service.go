package agent

import (
	"context"
	"log/slog"

	"github.com/wayfare/wayfare/internal/domain"
	"github.com/wayfare/wayfare/internal/memory"
	"github.com/wayfare/wayfare/internal/protocol"
	"github.com/wayfare/wayfare/internal/structured"
	"github.com/wayfare/wayfare/internal/tools"
)

// Emit delivers one outbound protocol message to the session's client. A
// returned error means the connection is dead; the server never retries.
type Emit func(protocol.Message) error

// Service orchestrates one chat turn: memory updates, preference
// extraction, the generation call and structured formatting.
type Service struct {
	memory     *memory.Store
	backend    Generator
	registry   *tools.Registry
	transcript TranscriptSink // optional
	logger     *slog.Logger
}

// NewService creates the turn orchestrator. transcript may be nil to
// disable archiving.
func NewService(mem *memory.Store, backend Generator, registry *tools.Registry, transcript TranscriptSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		memory:     mem,
		backend:    backend,
		registry:   registry,
		transcript: transcript,
		logger:     logger,
	}
}

// HandleChatTurn runs the full transaction for one inbound chat message.
// Outbound ordering is part of the contract: typing(true), then exactly one
// response, then typing(false). The typing-stop indicator is emitted via
// defer so it goes out exactly once even when the backend call fails.
// A non-nil return means a send failed and the connection must be torn down.
func (s *Service) HandleChatTurn(ctx context.Context, sessionID, text string, emit Emit) error {
	s.memory.Append(sessionID, domain.NewMessage(domain.RoleUser, text))
	s.memory.Enrich(sessionID, text)
	s.record(sessionID, domain.RoleUser, text)

	if err := emit(protocol.NewTyping(true)); err != nil {
		return err
	}
	// A failed typing-stop send means the connection is dead; the read loop
	// detects that on its own, so it is logged rather than returned.
	defer func() {
		if err := emit(protocol.NewTyping(false)); err != nil {
			s.logger.Debug("failed to send typing stop", "session_id", sessionID, "error", err)
		}
	}()

	systemPrompt := SystemPrompt(s.registry.Available())
	input := s.memory.RelevantContext(sessionID) + "\n\nUser Query: " + text
	history := s.memory.History(sessionID)

	var assistantText, wireContent string
	raw, err := s.backend.Generate(ctx, systemPrompt, history, input)
	if err != nil {
		s.logger.Error("generation backend call failed", "session_id", sessionID, "error", err)
		assistantText = Apology
		wireContent = Apology
	} else {
		assistantText = raw
		wireContent = structured.Format(structured.Parse(raw))
	}

	// Memory always stores the natural-language form, never the wire frame.
	s.memory.Append(sessionID, domain.NewMessage(domain.RoleAssistant, assistantText))
	s.record(sessionID, domain.RoleAssistant, assistantText)

	return emit(protocol.NewResponse(wireContent, s.SessionInfo(sessionID)))
}

// SessionInfo assembles the session metadata object.
func (s *Service) SessionInfo(sessionID string) SessionInfo {
	available := s.registry.Available()
	return SessionInfo{
		SessionID:       sessionID,
		UserPreferences: s.memory.Preferences(sessionID),
		ContextSummary:  s.memory.ContextSummary(sessionID),
		AvailableTools:  available,
		TotalTools:      len(s.registry.Providers()),
	}
}

// ClearSession drops the session's conversation and preferences.
func (s *Service) ClearSession(sessionID string) {
	s.memory.Clear(sessionID)
	s.logger.Info("Session cleared", "session_id", sessionID)
}

// Welcome returns the greeting for a newly connected session.
func (s *Service) Welcome() string {
	return WelcomeMessage(s.registry.Available())
}

func (s *Service) record(sessionID, role, content string) {
	if s.transcript != nil {
		s.transcript.Record(sessionID, role, content)
	}
}
