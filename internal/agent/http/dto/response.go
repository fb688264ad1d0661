// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	agentDomain "github.com/asthalabs/shopperai/internal/agent/domain"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
)

// ConnectResponse represents the result of a successful guarded connection.
type ConnectResponse struct {
	ID          string         `json:"id"`
	FromAgentID string         `json:"from_agent_id"`
	Type        string         `json:"type"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}

// MapMessageToResponse converts a domain message to an API response.
func MapMessageToResponse(message *agentDomain.Message) ConnectResponse {
	return ConnectResponse{
		ID:          message.ID.String(),
		FromAgentID: message.FromAgentID,
		Type:        message.Type,
		Payload:     message.Payload,
		CreatedAt:   message.CreatedAt,
	}
}

// DecisionResponse represents an access decision in API responses.
type DecisionResponse struct {
	Allowed  bool   `json:"allowed"`
	Outcome  string `json:"outcome"`
	Category string `json:"category"`
	Reason   string `json:"reason,omitempty"`
}

// MapDecisionToResponse converts a domain decision to an API response.
func MapDecisionToResponse(decision iamDomain.Decision) DecisionResponse {
	return DecisionResponse{
		Allowed:  decision.Allowed(),
		Outcome:  string(decision.Outcome),
		Category: decision.Category(),
		Reason:   decision.Reason,
	}
}
