// Package domain defines the entities exchanged with guarded agents.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the unit of communication returned by a guarded agent after a
// successful connection. Payload content is opaque to the access-control
// layer; it belongs entirely to the agent's operation.
type Message struct {
	ID          uuid.UUID      `json:"id"`
	FromAgentID string         `json:"from_agent_id"`
	Type        string         `json:"type"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Message types.
const (
	// TypeConnectionResult carries the result of a guarded connection.
	TypeConnectionResult = "connection_result"
)

// StatusConnectionSuccessful is the literal success status reported to a
// caller whose connection was allowed.
const StatusConnectionSuccessful = "Connection successful"
