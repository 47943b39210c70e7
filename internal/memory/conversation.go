// Package memory implements bounded per-session conversational state:
// a windowed message log, extracted travel preferences, and deterministic
// context summaries.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wayfare/wayfare/internal/domain"
)

// DefaultWindowSize is the number of retained turns (user+assistant pairs)
// per session.
const DefaultWindowSize = 10

// Preamble is the permanent leading system message of every conversation.
// Trimming never evicts it.
const Preamble = "You are TravelBot, an expert AI travel agent."

// EmptySummary is returned for a session with no exchanged messages.
const EmptySummary = "New conversation started."

// destinations is the fixed gazetteer scanned for in user messages when
// building context summaries.
var destinations = []string{
	"japan", "paris", "tokyo", "london", "new york", "bali", "thailand", "italy",
}

// session holds one connection's conversational state. Each session's data
// is only reachable through the Store, which locks per operation; the
// per-session mutex keeps multi-step operations atomic.
type session struct {
	mu       sync.Mutex
	messages []domain.Message // messages[0] is always the system preamble
	prefs    domain.Preferences
}

// Store is a concurrency-safe registry of per-session conversations.
type Store struct {
	mu       sync.RWMutex
	window   int
	sessions map[string]*session
}

// NewStore creates a conversation store retaining the given number of turns
// per session. A non-positive window falls back to DefaultWindowSize.
func NewStore(window int) *Store {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Store{
		window:   window,
		sessions: make(map[string]*session),
	}
}

// get returns the session's state, lazily creating it with the system
// preamble as first entry.
func (s *Store) get(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{
		messages: []domain.Message{domain.NewMessage(domain.RoleSystem, Preamble)},
	}
	s.sessions[sessionID] = sess
	return sess
}

// Append adds a message to the session's log and enforces the retention
// window. The trim keeps the preamble plus the most recent window of turns,
// contiguously and in order.
func (s *Store) Append(sessionID string, msg domain.Message) {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.messages = append(sess.messages, msg)

	// Keep preamble + up to 2*window non-system messages. Re-slicing from the
	// tail is O(window) per call regardless of how long the session runs.
	max := 2 * s.window
	if n := len(sess.messages) - 1; n > max {
		trimmed := make([]domain.Message, 0, max+1)
		trimmed = append(trimmed, sess.messages[0])
		trimmed = append(trimmed, sess.messages[len(sess.messages)-max:]...)
		sess.messages = trimmed
	}
}

// Enrich runs preference extraction for a user message against the session's
// accumulated preference state.
func (s *Store) Enrich(sessionID, text string) {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	Enrich(&sess.prefs, text)
}

// History returns the retained window for a session, oldest first. The
// returned slice is a copy.
func (s *Store) History(sessionID string) []domain.Message {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// Preferences returns a copy of the session's extracted preferences.
func (s *Store) Preferences(sessionID string) domain.Preferences {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.prefs.Clone()
}

// MessageCount returns the number of retained non-system messages.
func (s *Store) MessageCount(sessionID string) int {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.messages) - 1
}

// ContextSummary renders a deterministic digest of the conversation so far:
// message count, destinations mentioned in user messages, and the extracted
// preferences. A fresh session yields exactly EmptySummary.
func (s *Store) ContextSummary(sessionID string) string {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	exchanged := len(sess.messages) - 1
	if exchanged == 0 {
		return EmptySummary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation history: %d messages exchanged. ", exchanged)

	if mentioned := mentionedDestinations(sess.messages); len(mentioned) > 0 {
		b.WriteString("Destinations discussed: " + strings.Join(mentioned, ", ") + ". ")
	}

	if !sess.prefs.IsZero() {
		b.WriteString("User preferences: " + sess.prefs.Describe() + ".")
	}

	return strings.TrimRight(b.String(), " ")
}

// RelevantContext builds the context block prepended to the generation
// backend's input for the current turn.
func (s *Store) RelevantContext(sessionID string) string {
	summary := s.ContextSummary(sessionID)
	prefs := s.Preferences(sessionID)

	context := "Context: " + summary + "\n"
	if !prefs.IsZero() {
		context += "User preferences: "
		if prefs.BudgetStyle != "" {
			context += "Budget style: " + prefs.BudgetStyle + ". "
		}
		if len(prefs.Interests) > 0 {
			context += "Interests: " + strings.Join(prefs.Interests, ", ") + ". "
		}
	}
	return context
}

// Clear drops the conversation and its preferences entirely. The next
// Append or History recreates the session from scratch.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// mentionedDestinations scans user messages for gazetteer entries,
// deduplicated and title-cased, in first-mention order.
func mentionedDestinations(messages []domain.Message) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, msg := range messages {
		if msg.Role != domain.RoleUser {
			continue
		}
		lower := strings.ToLower(msg.Content)
		for _, dest := range destinations {
			if seen[dest] || !strings.Contains(lower, dest) {
				continue
			}
			seen[dest] = true
			ordered = append(ordered, titleCase(dest))
		}
	}
	return ordered
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
