// Package protocol defines the JSON envelope exchanged with chat clients
// over the WebSocket connection.
package protocol

import (
	"encoding/json"
	"time"
)

// Inbound message kinds accepted from clients.
const (
	KindMessage        = "message"
	KindClearSession   = "clear_session"
	KindGetSessionInfo = "get_session_info"
)

// Outbound message kinds sent by the server.
const (
	KindResponse       = "response"
	KindTyping         = "typing"
	KindError          = "error"
	KindSessionCleared = "session_cleared"
	KindSessionInfo    = "session_info"
)

// Fixed error texts surfaced to clients. Protocol errors never close the
// connection; the session stays usable after any of these.
const (
	ErrInvalidJSON     = "Invalid JSON format"
	ErrUnknownType     = "Unknown message type"
	ErrEmptyMessage    = "Empty message"
	ErrProcessing      = "Error processing message"
	SessionClearedText = "Session cleared successfully"
)

// Inbound is a frame received from a client.
type Inbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DecodeInbound parses a raw client frame.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

// Message is the envelope for every frame the server sends. Content is a
// string for response/error kinds, a bool for typing indicators, and an
// arbitrary object for session_info.
type Message struct {
	Type        string `json:"type"`
	Content     any    `json:"content"`
	Timestamp   string `json:"timestamp"`
	SessionInfo any    `json:"session_info,omitempty"`
}

func stamp() string {
	return time.Now().Format(time.RFC3339)
}

// NewResponse builds a response message, optionally carrying session metadata.
func NewResponse(content string, sessionInfo any) Message {
	return Message{Type: KindResponse, Content: content, Timestamp: stamp(), SessionInfo: sessionInfo}
}

// NewTyping builds a typing indicator message.
func NewTyping(active bool) Message {
	return Message{Type: KindTyping, Content: active, Timestamp: stamp()}
}

// NewError builds an error message.
func NewError(text string) Message {
	return Message{Type: KindError, Content: text, Timestamp: stamp()}
}

// NewSessionCleared builds the clear-session acknowledgement.
func NewSessionCleared() Message {
	return Message{Type: KindSessionCleared, Content: SessionClearedText, Timestamp: stamp()}
}

// NewSessionInfo builds a session metadata message.
func NewSessionInfo(info any) Message {
	return Message{Type: KindSessionInfo, Content: info, Timestamp: stamp()}
}
