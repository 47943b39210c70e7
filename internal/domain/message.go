// Package domain contains core domain types for the Wayfare application.
package domain

import (
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversation entry. Messages are immutable once
// appended to a conversation; ordering is insertion order.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsSystem returns true for the conversation's system preamble.
func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}
