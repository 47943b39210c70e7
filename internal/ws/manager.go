package ws

import (
	"log/slog"
	"sync"

	"github.com/wayfare/wayfare/internal/protocol"
)

// SessionManager is the registry of currently connected sessions. It is the
// only mutable state shared across connections; every access goes through
// the mutex.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]*Session
}

// NewSessionManager creates an empty session registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[string]*Session),
	}
}

// Get returns the session for an ID, or nil.
func (m *SessionManager) Get(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[sessionID]
}

// Register adds a session to the registry.
func (m *SessionManager) Register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[s.ID] = s
	slog.Info("Chat session registered", "session_id", s.ID)
}

// Unregister removes a session, guarding against a stale entry when the ID
// was already re-registered by a newer connection.
func (m *SessionManager) Unregister(sessionID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.active[sessionID]; ok && current == s {
		delete(m.active, sessionID)
		slog.Info("Chat session unregistered", "session_id", sessionID)
	}
}

// Count returns the number of connected sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Broadcast sends a message to every connected session. Sessions whose send
// fails are skipped; their own read loops handle teardown. Iterating over a
// snapshot tolerates concurrent register/unregister.
func (m *SessionManager) Broadcast(msg protocol.Message) {
	m.mu.RLock()
	snapshot := make([]*Session, 0, len(m.active))
	for _, s := range m.active {
		snapshot = append(snapshot, s)
	}
	m.mu.RUnlock()

	for _, s := range snapshot {
		if err := s.Send(msg); err != nil {
			slog.Debug("Broadcast send failed", "session_id", s.ID, "error", err)
		}
	}
}
