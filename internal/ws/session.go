// Package ws provides WebSocket-based chat session management: the
// connection lifecycle state machine, the session registry and inbound
// frame dispatch.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/wayfare/wayfare/internal/protocol"
)

// State is the lifecycle state of one connection's session.
type State int32

// Lifecycle states. Transitions only move forward; StateClosed is terminal.
const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var errSessionClosed = errors.New("session is closed")

// Session binds one WebSocket connection to its conversational state key.
// All writes go through Send, which serializes frames on the connection and
// refuses to send once teardown has begun.
type Session struct {
	ID string

	conn   *websocket.Conn
	state  atomic.Int32
	sendMu sync.Mutex
}

func newSession(id string, conn *websocket.Conn) *Session {
	s := &Session{ID: id, conn: conn}
	s.state.Store(int32(StateConnecting))
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// activate moves a connecting session to ACTIVE. Called once the welcome
// message has been delivered.
func (s *Session) activate() {
	s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// beginClose moves the session to CLOSING. It returns false when teardown
// already ran, so cleanup happens exactly once.
func (s *Session) beginClose() bool {
	return s.state.CompareAndSwap(int32(StateConnecting), int32(StateClosing)) ||
		s.state.CompareAndSwap(int32(StateActive), int32(StateClosing))
}

// finishClose marks the session terminally CLOSED.
func (s *Session) finishClose() {
	s.state.Store(int32(StateClosed))
}

// Send serializes and writes one protocol message. A send failure means the
// connection is dead; callers must tear the session down rather than retry.
// Sends after teardown has begun are refused.
func (s *Session) Send(msg protocol.Message) error {
	if st := s.State(); st == StateClosing || st == StateClosed {
		return errSessionClosed
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.conn.Write(context.Background(), websocket.MessageText, data)
}
